package generator

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nbenliogludev/go-testcase-generator/internal/browser"
	"github.com/nbenliogludev/go-testcase-generator/internal/llm"
)

//go:embed template.yaml
var defaultTemplate []byte

const descriptionPlaceholder = "{{description}}"

// Template holds the prompt text. Placeholders are replaced literally, so a
// description containing braces is passed through untouched.
type Template struct {
	System      string   `yaml:"system"`
	User        string   `yaml:"user"`
	Constraints []string `yaml:"constraints"`
	TargetURL   string   `yaml:"target_url"`
	PageContext string   `yaml:"page_context"`
}

// DefaultTemplate returns the embedded template.
func DefaultTemplate() *Template {
	t, err := ParseTemplate(defaultTemplate)
	if err != nil {
		panic(fmt.Sprintf("embedded prompt template is invalid: %v", err))
	}
	return t
}

// LoadTemplate reads a YAML template from path, or returns the embedded one
// when path is empty.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}
	t, err := ParseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("prompt template %s: %w", path, err)
	}
	return t, nil
}

func ParseTemplate(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	if strings.TrimSpace(t.System) == "" {
		return nil, errors.New("system prompt is empty")
	}
	if !strings.Contains(t.User, descriptionPlaceholder) {
		return nil, fmt.Errorf("user prompt must contain %s", descriptionPlaceholder)
	}
	return &t, nil
}

// Build renders the prompt for one request. url and page are optional.
func (t *Template) Build(description, url string, page *browser.PageSnapshot) llm.Prompt {
	var constraints strings.Builder
	for i, c := range t.Constraints {
		if i > 0 {
			constraints.WriteByte('\n')
		}
		constraints.WriteString("- ")
		constraints.WriteString(c)
	}

	var user strings.Builder
	user.WriteString(strings.NewReplacer(
		descriptionPlaceholder, description,
		"{{constraints}}", constraints.String(),
	).Replace(t.User))

	if url != "" && t.TargetURL != "" {
		user.WriteString("\n\n")
		user.WriteString(strings.ReplaceAll(t.TargetURL, "{{url}}", url))
	}

	if page != nil && strings.TrimSpace(page.Tree) != "" && t.PageContext != "" {
		user.WriteString("\n\n")
		user.WriteString(strings.NewReplacer(
			"{{url}}", page.URL,
			"{{title}}", page.Title,
			"{{elements}}", strings.TrimRight(page.Tree, "\n"),
		).Replace(t.PageContext))
	}

	return llm.Prompt{System: t.System, User: user.String()}
}
