package completion

import (
	"strings"

	"github.com/kbukum/inkflow/errors"
)

// Template is a named instruction prepended to the user's prompt.
type Template string

// Built-in templates. TemplateNone sends the prompt unchanged.
const (
	TemplateNone      Template = ""
	TemplateSummarize Template = "summarize"
	TemplateTodo      Template = "todo"
	TemplateTable     Template = "table"
	TemplateFlowchart Template = "flowchart"
)

var templatePrefixes = map[Template]string{
	TemplateSummarize: "Generate a summary: ",
	TemplateTodo:      "Generate a to-do list: ",
	TemplateTable:     "Generate a table: ",
	TemplateFlowchart: "Generate a flowchart: ",
}

// Templates lists the named templates in menu order.
func Templates() []Template {
	return []Template{TemplateSummarize, TemplateTodo, TemplateTable, TemplateFlowchart}
}

// ParseTemplate resolves a template name, case-insensitively. The empty
// name selects TemplateNone.
func ParseTemplate(name string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(name)))
	if t == TemplateNone {
		return t, nil
	}
	if _, ok := templatePrefixes[t]; !ok {
		return TemplateNone, errors.Validation("unknown template " + name).WithDetail("template", name)
	}
	return t, nil
}

// Apply returns the prompt sent to the provider.
func (t Template) Apply(prompt string) string {
	return templatePrefixes[t] + prompt
}
