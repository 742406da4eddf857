package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer

	got, err := promptLine(strings.NewReader("  Log in with valid credentials  \n"), &out, "> ")
	require.NoError(t, err)
	assert.Equal(t, "Log in with valid credentials", got)
	assert.Equal(t, "> ", out.String())

	got, err = promptLine(strings.NewReader("no trailing newline"), &out, "> ")
	require.NoError(t, err)
	assert.Equal(t, "no trailing newline", got)

	_, err = promptLine(strings.NewReader("\n"), &out, "> ")
	assert.Error(t, err)
}

func TestEnsureNewline(t *testing.T) {
	assert.Equal(t, "", ensureNewline(""))
	assert.Equal(t, "a\n", ensureNewline("a"))
	assert.Equal(t, "a\n", ensureNewline("a\n"))
}

func TestFormatCommand(t *testing.T) {
	t.Setenv("FORMATTER_REMOTE_URL", "")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("BROWSER_DRIVER", "playwright")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(`class A{void t(){x();}}`))
	rootCmd.SetArgs([]string{"format", "--env-file", filepath.Join(t.TempDir(), "missing.env")})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "class A {\n    void t() {\n        x();\n    }\n}\n", out.String())
}
