// Package template fills placeholders in scaffolding text.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// Renderer replaces Open name Close placeholders with values.
type Renderer struct {
	Open  string
	Close string
}

// Default uses {{name}} placeholders.
var Default = Renderer{Open: "{{", Close: "}}"}

// RenderString renders input with the default {{name}} delimiters.
func RenderString(input string, vars map[string]string) (string, error) {
	return Default.Render(input, vars)
}

// Render returns an error if a variable is missing or a placeholder is
// malformed. Text outside placeholders is copied as is, including
// placeholders that use other delimiters.
func (r Renderer) Render(input string, vars map[string]string) (string, error) {
	const op = "template.render"
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	out.Grow(len(input))

	rest := input
	for {
		start := strings.Index(rest, r.Open)
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+len(r.Open):]

		end := strings.Index(rest, r.Close)
		if end == -1 {
			return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("unclosed template expression")}
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("empty template expression")}
		}

		value, ok := vars[key]
		if !ok {
			return "", &domain.OpError{
				Op:   op,
				Kind: domain.KindMissingVar,
				Err:  fmt.Errorf("missing variable %q: %w", key, domain.ErrMissingVar),
			}
		}

		out.WriteString(value)
		rest = rest[end+len(r.Close):]
	}
}
