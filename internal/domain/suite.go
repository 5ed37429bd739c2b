package domain

import "time"

// HTTPMethod represents an HTTP method (e.g., GET, POST).
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodPatch   HTTPMethod = "PATCH"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// BodyType represents the type of payload for a request body.
type BodyType string

const (
	BodyNone BodyType = "none"
	BodyJSON BodyType = "json"
	BodyForm BodyType = "form"
	BodyRaw  BodyType = "raw"
)

// Headers is a map representation of HTTP headers.
type Headers map[string]string

// BodySpec describes an HTTP request body.
// Only one of JSON/Form/Raw is typically used depending on Type.
type BodySpec struct {
	Type        BodyType
	JSON        map[string]any
	Form        map[string]string
	Raw         string
	ContentType string // Optional override (useful for raw payloads).
}

// JSONPathAssertion defines a JSONPath-based check.
type JSONPathAssertion struct {
	Exists   bool
	Eq       *string
	Contains *string
	Matches  *string
	Gt       *float64
	Lt       *float64
}

// AssertionsSpec defines functional assertions for a test.
type AssertionsSpec struct {
	Status       *int
	MaxLatencyMS *int

	// JSONPath contains JSONPath assertions keyed by expression.
	JSONPath map[string]JSONPathAssertion
}

// ExtractSpec defines variable extraction from responses.
// Map: variableName -> jsonpathExpression
type ExtractSpec map[string]string

// UnitTest is one HTTP request plus the checks run against its response.
type UnitTest struct {
	Name    string
	Method  HTTPMethod
	URL     string
	Headers Headers
	Body    BodySpec

	Assert  AssertionsSpec
	Extract ExtractSpec
}

// TestSuite groups unit tests inside a workspace.
// Suites are listed in creation order.
type TestSuite struct {
	ID          string
	WorkspaceID string
	Name        string
	CreatedAt   time.Time

	// Vars are defaults for every test of the suite; environments override them.
	Vars Vars

	Tests []UnitTest
}

// ContainsSuite reports whether id names a suite of the collection.
func ContainsSuite(suites []TestSuite, id string) bool {
	_, ok := FindSuite(suites, id)
	return ok
}

// FindSuite returns the suite with the given id.
func FindSuite(suites []TestSuite, id string) (TestSuite, bool) {
	if id == "" {
		return TestSuite{}, false
	}
	for _, s := range suites {
		if s.ID == id {
			return s, true
		}
	}
	return TestSuite{}, false
}
