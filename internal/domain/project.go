package domain

import "strings"

const (
	DefaultOrganizationID = "org_default"
	DefaultProjectID      = "proj_default-project"
)

// Project groups workspaces of an organization.
type Project struct {
	ID             string
	Name           string
	OrganizationID string
}

// IsDefaultOrganizationProject reports whether p is the organization's
// built-in project. Default projects cannot be deleted.
func IsDefaultOrganizationProject(p Project) bool {
	return strings.HasPrefix(p.ID, "proj_default")
}

// Cookie is a single stored cookie.
type Cookie struct {
	Domain string
	Path   string
	Name   string
	Value  string
}

// CookieJar holds the cookies sent with workspace requests.
type CookieJar struct {
	ID      string
	Cookies []Cookie
}
