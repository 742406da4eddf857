package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbenliogludev/go-testcase-generator/internal/browser"
)

func TestDefaultTemplate(t *testing.T) {
	p := DefaultTemplate().Build("Test login with valid credentials", "", nil)

	assert.Equal(t, "You are an expert Java Selenium test automation engineer. "+
		"Generate a complete Java Selenium test case with TestNG framework and return ONLY JSON.", p.System)
	assert.Contains(t, p.User, "Description: Test login with valid credentials\n")
	assert.Contains(t, p.User, `{"steps": ["step 1", "step 2", "step 3"], "code": "<complete Java code>"}`)
	assert.Contains(t, p.User, "- Use TestNG annotations (@BeforeMethod, @Test, @AfterMethod)\n- Use WebDriverWait (explicit waits)")
	assert.NotContains(t, p.User, "{{")
}

func TestBuild_DescriptionIsLiteral(t *testing.T) {
	desc := `Check {{constraints}} and {"json": true} are kept`

	p := DefaultTemplate().Build(desc, "", nil)

	assert.Contains(t, p.User, "Description: "+desc)
}

func TestBuild_PageContext(t *testing.T) {
	page := &browser.PageSnapshot{URL: "https://example.com", Title: "Home", Tree: "<a label=\"Login\" kind=\"link\">\n"}

	p := DefaultTemplate().Build("open login", "https://example.com", page)

	assert.Contains(t, p.User, "The test starts at https://example.com.")
	assert.Contains(t, p.User, `Interactive elements observed on "Home" (https://example.com)`)
	assert.Contains(t, p.User, `<a label="Login" kind="link">`)
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()

	custom := filepath.Join(dir, "prompt.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("system: be brief\nuser: \"Scenario: {{description}}\"\n"), 0o600))

	tmpl, err := LoadTemplate(custom)
	require.NoError(t, err)
	p := tmpl.Build("login", "https://example.com", nil)
	assert.Equal(t, "be brief", p.System)
	assert.Equal(t, "Scenario: login", p.User)

	def, err := LoadTemplate("")
	require.NoError(t, err)
	assert.Len(t, def.Constraints, 4)

	_, err = LoadTemplate(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseTemplate_Invalid(t *testing.T) {
	for name, data := range map[string]string{
		"no system":      "user: \"{{description}}\"\n",
		"no placeholder": "system: s\nuser: plain\n",
		"not yaml":       "system: [unclosed\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTemplate([]byte(data))
			assert.Error(t, err)
		})
	}
}
