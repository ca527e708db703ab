package role

import (
	"fmt"
	"strings"
)

// TemplateError means a prompt template references a placeholder that was
// not supplied at call time. That is a configuration bug, so it is raised
// eagerly instead of rendering blank text.
type TemplateError struct {
	Field string
}

func (e TemplateError) Error() string {
	return fmt.Sprintf("prompt template references unsupplied field %q", e.Field)
}

// render substitutes {name} placeholders from fields. Literal braces are
// written as {{ and }}, matching the syntax the prompt templates are
// authored in.
func render(template string, fields map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return "", TemplateError{Field: template[i+1:]}
			}
			name := template[i+1 : i+end]
			value, ok := fields[name]
			if !ok {
				return "", TemplateError{Field: name}
			}
			b.WriteString(value)
			i += end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}
