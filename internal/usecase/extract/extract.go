// Package extract pulls variables out of JSON responses for later tests of
// the same suite.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// Apply evaluates rules (variable name to JSONPath) against body. Results
// are reported per rule in name order; a failing rule does not stop the
// others. A non-JSON body fails every rule.
func Apply(body []byte, rules domain.ExtractSpec) (domain.Vars, []domain.ExtractResult) {
	vars := domain.Vars{}
	results := make([]domain.ExtractResult, 0, len(rules))
	if len(rules) == 0 {
		return vars, results
	}

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var doc any
	parseErr := json.Unmarshal(body, &doc)

	for _, name := range names {
		expr := strings.TrimSpace(rules[name])
		value, err := lookup(doc, parseErr, expr)
		if err != nil {
			results = append(results, domain.ExtractResult{
				Name:    name,
				Message: fmt.Sprintf("extract %q (%s): %v", name, expr, err),
			})
			continue
		}
		vars[name] = value
		results = append(results, domain.ExtractResult{
			Name:    name,
			Success: true,
			Message: fmt.Sprintf("extracted %q", name),
		})
	}
	return vars, results
}

func lookup(doc any, parseErr error, expr string) (string, error) {
	if expr == "" {
		return "", errors.New("empty jsonpath expression")
	}
	if parseErr != nil {
		return "", errors.New("response body is not valid JSON")
	}
	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "", fmt.Errorf("jsonpath error: %w", err)
	}
	if isEmpty(val) {
		return "", errors.New("no value found")
	}
	return stringify(val)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// stringify unwraps single-element arrays and encodes composites as JSON.
func stringify(v any) (string, error) {
	switch t := v.(type) {
	case []any:
		if len(t) == 1 {
			return stringify(t[0])
		}
		b, err := json.Marshal(t)
		return string(b), err
	case map[string]any:
		b, err := json.Marshal(t)
		return string(b), err
	case string:
		return t, nil
	default:
		return fmt.Sprint(t), nil
	}
}
