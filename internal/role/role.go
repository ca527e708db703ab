package role

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixbrock/patentace/internal/domain"
)

// CompletionClient is the external LLM collaborator: one blocking call,
// untrusted text back.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ResponseParseError means the completion held no parseable JSON object or
// was missing a required field. The adapter recovers from it per sample.
type ResponseParseError struct {
	Role   string
	Reason string
}

func (e ResponseParseError) Error() string {
	return fmt.Sprintf("%s response not parseable: %s", e.Role, e.Reason)
}

type promptRole struct {
	name     string
	client   CompletionClient
	template string
}

// runRole renders the template, calls the client exactly once, extracts the
// outermost JSON object from the completion and decodes it into T after
// checking the required keys. The raw key set is returned so callers can
// preserve extension fields.
func runRole[T any](ctx context.Context, r promptRole, fields map[string]string, required []string) (*T, map[string]json.RawMessage, error) {
	prompt, err := render(r.template, fields)
	if err != nil {
		return nil, nil, err
	}

	text, err := r.client.Complete(ctx, prompt)
	if err != nil {
		return nil, nil, err
	}

	obj, err := extractObject(text)
	if err != nil {
		return nil, nil, ResponseParseError{Role: r.name, Reason: err.Error()}
	}

	var keys map[string]json.RawMessage
	if err = json.Unmarshal(obj, &keys); err != nil {
		return nil, nil, ResponseParseError{Role: r.name, Reason: err.Error()}
	}
	for _, field := range required {
		raw, ok := keys[field]
		if !ok || string(raw) == "null" {
			return nil, nil, ResponseParseError{Role: r.name, Reason: fmt.Sprintf("missing required field %q", field)}
		}
	}

	var t T
	if err = json.Unmarshal(obj, &t); err != nil {
		return nil, nil, ResponseParseError{Role: r.name, Reason: err.Error()}
	}
	return &t, keys, nil
}

// extractObject tolerates prose around the completion's JSON object: it
// scans for the first balanced {...} span, skipping braces inside strings.
func extractObject(text string) ([]byte, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), nil
			}
		}
	}
	return nil, fmt.Errorf("no JSON object found in response")
}

type Generator struct {
	role promptRole
}

func NewGenerator(client CompletionClient, template string) *Generator {
	return &Generator{role: promptRole{name: "generator", client: client, template: template}}
}

// Run returns the generator's answer as-is; trimming and casing of
// final_answer is the environment's concern.
func (g *Generator) Run(ctx context.Context, fields map[string]string) (*domain.GeneratorOutput, error) {
	out, keys, err := runRole[domain.GeneratorOutput](ctx, g.role, fields, []string{"final_answer"})
	if err != nil {
		return nil, err
	}

	for _, known := range []string{"reasoning", "final_answer", "bullet_ids"} {
		delete(keys, known)
	}
	if len(keys) > 0 {
		out.Raw = map[string]any{}
		for k, raw := range keys {
			var v any
			if err := json.Unmarshal(raw, &v); err == nil {
				out.Raw[k] = v
			}
		}
	}
	return out, nil
}

type Reflector struct {
	role promptRole
}

func NewReflector(client CompletionClient, template string) *Reflector {
	return &Reflector{role: promptRole{name: "reflector", client: client, template: template}}
}

func (r *Reflector) Run(ctx context.Context, fields map[string]string) (*domain.ReflectorOutput, error) {
	out, _, err := runRole[domain.ReflectorOutput](ctx, r.role, fields, []string{"reasoning", "bullet_tags"})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type Curator struct {
	role promptRole
}

func NewCurator(client CompletionClient, template string) *Curator {
	return &Curator{role: promptRole{name: "curator", client: client, template: template}}
}

// Run parses the curator's proposed operations. A missing operations key
// defaults to an empty batch.
func (c *Curator) Run(ctx context.Context, fields map[string]string) (*domain.CuratorOutput, error) {
	out, _, err := runRole[domain.CuratorOutput](ctx, c.role, fields, nil)
	if err != nil {
		return nil, err
	}
	if out.Operations == nil {
		out.Operations = []domain.Operation{}
	}
	return out, nil
}
