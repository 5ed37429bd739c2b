package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const placeholderOp = "suite.placeholder"

// VarResolver fills {{name}} placeholders of a unit test from the merged
// environment variables. Two built-ins are always available:
// {{$timestamp}} (unix seconds) and {{$uuid}}.
type VarResolver struct {
	now   func() time.Time
	newID func() string
}

type VarResolverOption func(*VarResolver)

// WithNow fixes the clock behind {{$timestamp}}.
func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

// WithUUID fixes the generator behind {{$uuid}}.
func WithUUID(gen func() string) VarResolverOption {
	return func(r *VarResolver) { r.newID = gen }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RuntimeResolver serves a single test execution. Built-ins are drawn
// once, so every {{$uuid}} inside one request carries the same value.
type RuntimeResolver struct {
	vars     Vars
	builtins Vars
}

func (r *VarResolver) NewRuntime(vars Vars) *RuntimeResolver {
	return &RuntimeResolver{
		vars: Merge(nil, vars),
		builtins: Vars{
			"$timestamp": strconv.FormatInt(r.now().Unix(), 10),
			"$uuid":      r.newID(),
		},
	}
}

func (rr *RuntimeResolver) lookup(name string) (string, bool) {
	if v, ok := rr.builtins[name]; ok {
		return v, true
	}
	v, ok := rr.vars[name]
	return v, ok
}

// ResolveString substitutes every placeholder in s. Text outside
// placeholders is copied as is.
func (rr *RuntimeResolver) ResolveString(s string) (string, error) {
	open := strings.Index(s, "{{")
	if open < 0 {
		return s, nil
	}

	var out strings.Builder
	out.Grow(len(s))
	for open >= 0 {
		out.WriteString(s[:open])
		s = s[open+2:]

		closing := strings.Index(s, "}}")
		if closing < 0 {
			return "", placeholderError(KindInvalidConfig, errors.New("unclosed placeholder"))
		}
		name := strings.TrimSpace(s[:closing])
		if name == "" {
			return "", placeholderError(KindInvalidConfig, errors.New("empty placeholder"))
		}
		val, ok := rr.lookup(name)
		if !ok {
			return "", placeholderError(KindMissingVar, fmt.Errorf("missing variable: %s: %w", name, ErrMissingVar))
		}
		out.WriteString(val)

		s = s[closing+2:]
		open = strings.Index(s, "{{")
	}
	out.WriteString(s)
	return out.String(), nil
}

// ResolveJSONValue walks decoded JSON and substitutes inside strings.
// Numbers, booleans and nulls pass through.
func (rr *RuntimeResolver) ResolveJSONValue(v any) (any, error) {
	switch node := v.(type) {
	case string:
		return rr.ResolveString(node)
	case []any:
		items := make([]any, len(node))
		for i, item := range node {
			r, err := rr.ResolveJSONValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = r
		}
		return items, nil
	case map[string]any:
		fields := make(map[string]any, len(node))
		for k, item := range node {
			r, err := rr.ResolveJSONValue(item)
			if err != nil {
				return nil, err
			}
			fields[k] = r
		}
		return fields, nil
	}
	return v, nil
}

// ResolveTest returns a copy of test with URL, headers and body filled in.
// Errors name the test and the field that failed.
func (rr *RuntimeResolver) ResolveTest(test UnitTest) (UnitTest, error) {
	fail := func(field string, err error) (UnitTest, error) {
		return UnitTest{}, inField(err, test.Name, field)
	}

	out := test
	var err error
	if out.URL, err = rr.ResolveString(test.URL); err != nil {
		return fail("url", err)
	}

	out.Headers = make(Headers, len(test.Headers))
	for name, value := range test.Headers {
		if out.Headers[name], err = rr.ResolveString(value); err != nil {
			return fail("headers."+name, err)
		}
	}

	if out.Body, err = rr.resolveBody(test.Body); err != nil {
		return fail("body", err)
	}
	return out, nil
}

func (rr *RuntimeResolver) resolveBody(body BodySpec) (BodySpec, error) {
	switch body.Type {
	case BodyJSON:
		if body.JSON == nil {
			return body, nil
		}
		r, err := rr.ResolveJSONValue(body.JSON)
		if err != nil {
			return BodySpec{}, err
		}
		body.JSON, _ = r.(map[string]any)
	case BodyForm:
		if body.Form == nil {
			return body, nil
		}
		form := make(map[string]string, len(body.Form))
		for k, v := range body.Form {
			r, err := rr.ResolveString(v)
			if err != nil {
				return BodySpec{}, err
			}
			form[k] = r
		}
		body.Form = form
	case BodyRaw:
		r, err := rr.ResolveString(body.Raw)
		if err != nil {
			return BodySpec{}, err
		}
		body.Raw = r
	}
	return body, nil
}

func placeholderError(kind ErrorKind, err error) error {
	return &OpError{Op: placeholderOp, Kind: kind, Err: err}
}

// inField prefixes err with the failing test field and keeps its kind.
func inField(err error, testName, field string) error {
	kind, ok := KindOf(err)
	if !ok {
		kind = KindExecution
	}
	where := field
	if testName != "" {
		where = fmt.Sprintf("test %q %s", testName, field)
	}
	return &OpError{Op: placeholderOp, Kind: kind, Err: fmt.Errorf("%s: %w", where, err)}
}
