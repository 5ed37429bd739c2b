package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// MapSuite validates a decoded suite file. The file name (without
// extension) is the fallback id.
func MapSuite(path string, ys YAMLSuite) (domain.TestSuite, error) {
	if strings.TrimSpace(ys.Name) == "" {
		return domain.TestSuite{}, invalidField(path, "name", "suite name is required")
	}

	id := strings.TrimSpace(ys.ID)
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	suite := domain.TestSuite{
		ID:        id,
		Name:      ys.Name,
		CreatedAt: ys.CreatedAt,
		Vars:      domain.Vars(ys.Vars),
		Tests:     make([]domain.UnitTest, 0, len(ys.Tests)),
	}
	if suite.Vars == nil {
		suite.Vars = domain.Vars{}
	}

	for i, yt := range ys.Tests {
		test, err := mapTest(path, fmt.Sprintf("tests[%d]", i), yt)
		if err != nil {
			return domain.TestSuite{}, err
		}
		suite.Tests = append(suite.Tests, test)
	}
	return suite, nil
}

func mapTest(path, field string, yt YAMLTest) (domain.UnitTest, error) {
	if strings.TrimSpace(yt.Name) == "" {
		return domain.UnitTest{}, invalidField(path, field+".name", "test name is required")
	}
	if strings.TrimSpace(yt.URL) == "" {
		return domain.UnitTest{}, invalidField(path, field+".url", "url is required")
	}
	method, err := parseMethod(yt.Method)
	if err != nil {
		return domain.UnitTest{}, invalidField(path, field+".method", err.Error())
	}

	test := domain.UnitTest{
		Name:    yt.Name,
		Method:  method,
		URL:     yt.URL,
		Headers: domain.Headers(yt.Headers),
		Assert: domain.AssertionsSpec{
			Status:       yt.Assert.Status,
			MaxLatencyMS: yt.Assert.MaxMS,
			JSONPath:     map[string]domain.JSONPathAssertion{},
		},
		Extract: domain.ExtractSpec(yt.Extract),
	}
	if test.Headers == nil {
		test.Headers = domain.Headers{}
	}
	if test.Extract == nil {
		test.Extract = domain.ExtractSpec{}
	}
	for expr, a := range yt.Assert.JSONPath {
		test.Assert.JSONPath[expr] = domain.JSONPathAssertion(a)
	}

	switch {
	case yt.JSON != nil:
		test.Body = domain.BodySpec{Type: domain.BodyJSON, JSON: yt.JSON}
	case yt.Form != nil:
		test.Body = domain.BodySpec{Type: domain.BodyForm, Form: yt.Form}
	case strings.TrimSpace(yt.Raw) != "":
		test.Body = domain.BodySpec{Type: domain.BodyRaw, Raw: yt.Raw}
	default:
		test.Body = domain.BodySpec{Type: domain.BodyNone}
	}
	test.Body.ContentType = strings.TrimSpace(yt.ContentType)

	return test, nil
}

// SuiteToYAML is the inverse of MapSuite.
func SuiteToYAML(s domain.TestSuite) YAMLSuite {
	ys := YAMLSuite{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		Vars:      s.Vars,
		Tests:     make([]YAMLTest, 0, len(s.Tests)),
	}
	for _, t := range s.Tests {
		yt := YAMLTest{
			Name:    t.Name,
			Method:  string(t.Method),
			URL:     t.URL,
			Headers: t.Headers,
			Assert: YAMLAssertions{
				Status: t.Assert.Status,
				MaxMS:  t.Assert.MaxLatencyMS,
			},
			Extract:     t.Extract,
			ContentType: t.Body.ContentType,
		}
		switch t.Body.Type {
		case domain.BodyJSON:
			yt.JSON = t.Body.JSON
		case domain.BodyForm:
			yt.Form = t.Body.Form
		case domain.BodyRaw:
			yt.Raw = t.Body.Raw
		}
		if len(t.Assert.JSONPath) > 0 {
			yt.Assert.JSONPath = make(map[string]YAMLJSONPathAssertion, len(t.Assert.JSONPath))
			for expr, a := range t.Assert.JSONPath {
				yt.Assert.JSONPath[expr] = YAMLJSONPathAssertion(a)
			}
		}
		ys.Tests = append(ys.Tests, yt)
	}
	return ys
}

// MapEnvironment fills the id and name from the file name when unset.
func MapEnvironment(path string, ye YAMLEnvironment) domain.Environment {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	env := domain.Environment{
		ID:    strings.TrimSpace(ye.ID),
		Name:  strings.TrimSpace(ye.Name),
		Color: strings.TrimSpace(ye.Color),
		Vars:  domain.Vars(ye.Vars),
	}
	if env.ID == "" {
		env.ID = "env_" + stem
	}
	if env.Name == "" {
		env.Name = stem
	}
	if env.Vars == nil {
		env.Vars = domain.Vars{}
	}
	return env
}

func parseMethod(m string) (domain.HTTPMethod, error) {
	up := domain.HTTPMethod(strings.ToUpper(strings.TrimSpace(m)))
	switch up {
	case domain.MethodGet,
		domain.MethodPost,
		domain.MethodPut,
		domain.MethodPatch,
		domain.MethodDelete,
		domain.MethodHead,
		domain.MethodOptions:
		return up, nil
	case "":
		return "", fmt.Errorf("method is required")
	default:
		return "", fmt.Errorf("unsupported method %q", m)
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
