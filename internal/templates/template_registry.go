package templates

import (
	"sort"

	"github.com/toyz/simpl/internal/errors"
)

// Template names known to the registry.
const (
	TestbenchName   = "testbench"
	SyntaxCheckName = "syntax-check"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.templates[TestbenchName] = TestbenchTemplate
	registry.templates[SyntaxCheckName] = SyntaxCheckTemplate

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Register replaces or adds a template. The text is parsed right away so
// a broken override fails before anything is rendered.
func (tr *TemplateRegistry) Register(name, text string) error {
	if _, err := parseTemplate(name, text); err != nil {
		return err
	}
	tr.templates[name] = text
	return nil
}

// Names returns the registered template names in sorted order.
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template with data.
func (tr *TemplateRegistry) Render(name string, data interface{}) (string, error) {
	text, ok := tr.Get(name)
	if !ok {
		return "", errors.Newf(errors.TemplateErrorCode, "template not found: %s", name).
			WithContext("template", name)
	}
	return executeTemplate(name, text, data)
}
