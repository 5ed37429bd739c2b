package screen

import (
	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
)

const (
	SettingsLabel      = "Settings"
	DeleteProjectLabel = "Delete"
)

// ProjectMenu lists the actions of a project. Default projects cannot be
// deleted and get no Delete item.
func ProjectMenu(p domain.Project) []MenuItem {
	items := []MenuItem{{Label: SettingsLabel, Icon: GlyphGear}}
	if !domain.IsDefaultOrganizationProject(p) {
		items = append(items, MenuItem{
			Label:   DeleteProjectLabel,
			Icon:    GlyphTrash,
			Action:  domain.ActionDeleteProject,
			Danger:  true,
			Confirm: true,
		})
	}
	return items
}

// Breadcrumb links back to the project.
type Breadcrumb struct {
	Project   string
	Workspace string
	Path      string
	Icon      Glyph
}

func BreadcrumbFor(sel route.Selection, project domain.Project, workspaceName string) Breadcrumb {
	name := project.Name
	if name == "" {
		name = sel.ProjectID
	}
	return Breadcrumb{
		Project:   name,
		Workspace: workspaceName,
		Path:      route.ProjectPath(sel.OrganizationID, sel.ProjectID),
		Icon:      GlyphBack,
	}
}
