package persona

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed templates/persona.tmpl
var documentTemplate string

var docTmpl = template.Must(template.New("persona").Option("missingkey=error").Parse(documentTemplate))

// TemplateError reports a placeholder that had no value at render time.
type TemplateError struct {
	Field string
	Err   error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rendering persona: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("rendering persona: missing field %q", e.Field)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Render fills the persona template. The output depends only on its inputs.
func Render(id Identity, a Analysis, citations []Citation) (string, error) {
	data := map[string]string{
		"username":  id.Username,
		"citations": FormatCitations(citations),
	}
	for _, l := range valueLabels {
		v, ok := a.Fields[l.Field]
		if !ok {
			return "", &TemplateError{Field: string(l.Field)}
		}
		data[string(l.Field)] = v
	}
	for _, l := range sectionLabels {
		v, ok := a.Sections[l.Section]
		if !ok {
			return "", &TemplateError{Field: string(l.Section)}
		}
		data[string(l.Section)] = v
	}

	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{Field: "template", Err: err}
	}
	return buf.String(), nil
}
