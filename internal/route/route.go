// Package route parses and builds the navigation paths of the workbench.
//
// Paths follow the layout
//
//	/organization/:organizationId/project/:projectId/workspace/:workspaceId/test/test-suite/:testSuiteId/test-result/:testResultId
//
// and every screen derives its selection from the current path alone.
package route

import (
	"errors"
	"net/url"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
)

const (
	TestPattern   = "/organization/:organizationId/project/:projectId/workspace/:workspaceId/test/*"
	SuitePattern  = "/organization/:organizationId/project/:projectId/workspace/:workspaceId/test/test-suite/:testSuiteId/*"
	ResultPattern = "/organization/:organizationId/project/:projectId/workspace/:workspaceId/test/test-suite/:testSuiteId/test-result/:testResultId"
)

// ErrMissingWorkspace is returned when a test screen path has no workspace id.
var ErrMissingWorkspace = &domain.OpError{
	Op:   "route.workspace",
	Kind: domain.KindPrecondition,
	Err:  errors.New("path has no workspace id"),
}

// Params holds the named segments of a matched path.
type Params map[string]string

// Match reports whether path matches pattern and returns its named
// segments. A ":name" segment matches exactly one non-empty segment; a
// trailing "*" matches any remainder, including nothing.
func Match(pattern, path string) (Params, bool) {
	pp := split(pattern)
	ps := split(path)
	params := Params{}

	for i, seg := range pp {
		if seg == "*" && i == len(pp)-1 {
			return params, true
		}
		if i >= len(ps) {
			return nil, false
		}
		switch {
		case strings.HasPrefix(seg, ":"):
			v, err := url.PathUnescape(ps[i])
			if err != nil || v == "" {
				return nil, false
			}
			params[seg[1:]] = v
		case seg != ps[i]:
			return nil, false
		}
	}

	if len(ps) != len(pp) {
		return nil, false
	}
	return params, true
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Selection is what the current path selects on the test screen.
type Selection struct {
	OrganizationID string
	ProjectID      string
	WorkspaceID    string
	SuiteID        string
	ResultID       string
}

// DeriveSelection extracts the selection from a path. Fields not present
// in the path are empty.
func DeriveSelection(path string) Selection {
	var sel Selection
	if p, ok := Match(ResultPattern, path); ok {
		sel.ResultID = p["testResultId"]
	}
	if p, ok := Match(SuitePattern, path); ok {
		sel.SuiteID = p["testSuiteId"]
	}
	if p, ok := Match(TestPattern, path); ok {
		sel.OrganizationID = p["organizationId"]
		sel.ProjectID = p["projectId"]
		sel.WorkspaceID = p["workspaceId"]
		return sel
	}

	// Outside the test screen: take whatever prefix ids are present.
	segs := split(path)
	for i := 0; i+1 < len(segs); i += 2 {
		v, err := url.PathUnescape(segs[i+1])
		if err != nil {
			break
		}
		switch segs[i] {
		case "organization":
			sel.OrganizationID = v
		case "project":
			sel.ProjectID = v
		case "workspace":
			sel.WorkspaceID = v
		default:
			return sel
		}
	}
	return sel
}

// RequireWorkspace returns the selection or ErrMissingWorkspace.
func RequireWorkspace(path string) (Selection, error) {
	sel := DeriveSelection(path)
	if sel.WorkspaceID == "" {
		return sel, ErrMissingWorkspace
	}
	return sel, nil
}

func seg(v string) string {
	return url.PathEscape(v)
}

// ProjectPath is the project overview the breadcrumb links back to.
func ProjectPath(organizationID, projectID string) string {
	return "/organization/" + seg(organizationID) + "/project/" + seg(projectID)
}

// TestPath is the test screen of a workspace with nothing selected.
func TestPath(organizationID, projectID, workspaceID string) string {
	return ProjectPath(organizationID, projectID) + "/workspace/" + seg(workspaceID) + "/test"
}

// SuitePath selects a suite.
func SuitePath(organizationID, projectID, workspaceID, suiteID string) string {
	return TestPath(organizationID, projectID, workspaceID) + "/test-suite/" + seg(suiteID)
}

// ResultPath selects a result of a suite.
func ResultPath(organizationID, projectID, workspaceID, suiteID, resultID string) string {
	return SuitePath(organizationID, projectID, workspaceID, suiteID) + "/test-result/" + seg(resultID)
}

// WithSuite keeps the organization, project and workspace of sel and
// selects suiteID.
func (s Selection) WithSuite(suiteID string) string {
	return SuitePath(s.OrganizationID, s.ProjectID, s.WorkspaceID, suiteID)
}

// WithResult selects resultID under the currently selected suite.
func (s Selection) WithResult(resultID string) string {
	return ResultPath(s.OrganizationID, s.ProjectID, s.WorkspaceID, s.SuiteID, resultID)
}
