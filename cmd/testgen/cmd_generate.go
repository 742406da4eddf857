package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-testcase-generator/internal/formatter"
	"github.com/nbenliogludev/go-testcase-generator/internal/generator"
)

var (
	genDescription string
	genURL         string
	genOutDir      string
	genStdout      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one test case",
	Long: `Generate a Java Selenium test case for a scenario.

Without --description the scenario is read from the terminal. The formatted
class is written to <ClassName>.java in --out unless --stdout is set.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genDescription, "description", "d", "", "scenario to test")
	generateCmd.Flags().StringVarP(&genURL, "url", "u", "", "page the test starts from")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", ".", "directory for the generated .java file")
	generateCmd.Flags().BoolVar(&genStdout, "stdout", false, "print the code only, do not write a file")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	description := strings.TrimSpace(genDescription)
	if description == "" {
		var err error
		description, err = promptLine(cmd.InOrStdin(), cmd.OutOrStdout(),
			"Describe the scenario to test (e.g. 'Log in with valid credentials'):\n> ")
		if err != nil {
			return err
		}
	}

	a, err := bootstrap(ctx, "console")
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.generator.Generate(ctx, generator.Request{Description: description, URL: genURL})
	if err != nil {
		var formatErr *generator.ResponseFormatError
		if errors.As(err, &formatErr) {
			a.log.Debug("raw model response", zap.String("raw", formatErr.Raw))
		}
		return err
	}

	out := a.chain.Format(ctx, result.Code)
	w := cmd.OutOrStdout()

	if genStdout {
		_, err = fmt.Fprint(w, ensureNewline(out.Code))
		return err
	}

	fmt.Fprintln(w, "Steps:")
	for i, step := range result.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	fmt.Fprintf(w, "\nCode (formatter: %s):\n\n%s\n", out.Stage, ensureNewline(out.Code))

	path := filepath.Join(genOutDir, formatter.FileName(out.Code))
	if err := os.WriteFile(path, []byte(ensureNewline(out.Code)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(w, "Saved to %s\n", path)
	return nil
}

// promptLine asks once and fails on an empty answer.
func promptLine(in io.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty description, nothing to generate")
	}
	return line, nil
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
