// Package assert evaluates the checks of a unit test against a response.
package assert

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/testdeck/internal/domain"
)

var errNotJSON = errors.New("response body is not valid JSON")

func result(name string, passed bool, format string, args ...any) domain.AssertionResult {
	return domain.AssertionResult{Name: name, Passed: passed, Message: fmt.Sprintf(format, args...)}
}

func Status(expected int, got int) domain.AssertionResult {
	if got == expected {
		return result("status", true, "status %d", got)
	}
	return result("status", false, "expected status %d, got %d", expected, got)
}

func MaxLatency(maxMs int, latencyMs int64) domain.AssertionResult {
	if latencyMs <= int64(maxMs) {
		return result("max_ms", true, "latency %dms <= %dms", latencyMs, maxMs)
	}
	return result("max_ms", false, "expected latency <= %dms, got %dms", maxMs, latencyMs)
}

// Evaluate runs every check of spec. JSONPath checks run in expression
// order and only parse the body when present.
func Evaluate(spec domain.AssertionsSpec, status int, latencyMs int64, body []byte) []domain.AssertionResult {
	var out []domain.AssertionResult
	if spec.Status != nil {
		out = append(out, Status(*spec.Status, status))
	}
	if spec.MaxLatencyMS != nil {
		out = append(out, MaxLatency(*spec.MaxLatencyMS, latencyMs))
	}
	if len(spec.JSONPath) == 0 {
		return out
	}

	exprs := make([]string, 0, len(spec.JSONPath))
	for expr := range spec.JSONPath {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	var doc any
	parseErr := json.Unmarshal(body, &doc)

	for _, expr := range exprs {
		var (
			val    any
			getErr = errNotJSON
		)
		if parseErr == nil {
			val, getErr = jsonpath.Get(expr, doc)
		}
		out = append(out, JSONPath(expr, spec.JSONPath[expr], val, getErr)...)
	}
	return out
}

type check struct {
	name string
	run  func(val any) (bool, string, error)
}

// JSONPath evaluates the checks configured for one expression against the
// value it selected. getErr is reported by every configured check.
func JSONPath(expr string, a domain.JSONPathAssertion, val any, getErr error) []domain.AssertionResult {
	var checks []check

	if a.Exists {
		checks = append(checks, check{"jsonpath.exists", func(v any) (bool, string, error) {
			if isEmpty(v) {
				return false, "expected value to exist, got empty", nil
			}
			return true, "exists", nil
		}})
	}
	if a.Eq != nil {
		want := *a.Eq
		checks = append(checks, stringCheck("jsonpath.eq", func(s string) (bool, string) {
			if s == want {
				return true, fmt.Sprintf("eq %q", want)
			}
			return false, fmt.Sprintf("expected %q, got %q", want, s)
		}))
	}
	if a.Contains != nil {
		sub := *a.Contains
		checks = append(checks, stringCheck("jsonpath.contains", func(s string) (bool, string) {
			if strings.Contains(s, sub) {
				return true, fmt.Sprintf("contains %q", sub)
			}
			return false, fmt.Sprintf("%q does not contain %q", s, sub)
		}))
	}
	if a.Matches != nil {
		pattern := *a.Matches
		checks = append(checks, check{"jsonpath.matches", func(v any) (bool, string, error) {
			s, err := toString(v)
			if err != nil {
				return false, "", err
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false, "", fmt.Errorf("invalid regex %q: %w", pattern, err)
			}
			if re.MatchString(s) {
				return true, fmt.Sprintf("matches %q", pattern), nil
			}
			return false, fmt.Sprintf("%q does not match %q", s, pattern), nil
		}})
	}
	if a.Gt != nil {
		threshold := *a.Gt
		checks = append(checks, numberCheck("jsonpath.gt", func(f float64) (bool, string) {
			if f > threshold {
				return true, fmt.Sprintf("%v > %v", f, threshold)
			}
			return false, fmt.Sprintf("expected > %v, got %v", threshold, f)
		}))
	}
	if a.Lt != nil {
		threshold := *a.Lt
		checks = append(checks, numberCheck("jsonpath.lt", func(f float64) (bool, string) {
			if f < threshold {
				return true, fmt.Sprintf("%v < %v", f, threshold)
			}
			return false, fmt.Sprintf("expected < %v, got %v", threshold, f)
		}))
	}

	out := make([]domain.AssertionResult, 0, len(checks))
	for _, c := range checks {
		if getErr != nil {
			out = append(out, result(c.name, false, "jsonpath %q: %v", expr, getErr))
			continue
		}
		ok, msg, err := c.run(val)
		if err != nil {
			out = append(out, result(c.name, false, "jsonpath %q: %v", expr, err))
			continue
		}
		out = append(out, result(c.name, ok, "jsonpath %q: %s", expr, msg))
	}
	return out
}

func stringCheck(name string, fn func(string) (bool, string)) check {
	return check{name, func(v any) (bool, string, error) {
		s, err := toString(v)
		if err != nil {
			return false, "", err
		}
		ok, msg := fn(s)
		return ok, msg, nil
	}}
}

func numberCheck(name string, fn func(float64) (bool, string)) check {
	return check{name, func(v any) (bool, string, error) {
		f, err := toFloat(v)
		if err != nil {
			return false, "", err
		}
		ok, msg := fn(f)
		return ok, msg, nil
	}}
}

func toString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", errors.New("value is null")
	default:
		return fmt.Sprint(v), nil
	}
}

func toFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
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
