package yamlstore

import (
	"context"
	"path/filepath"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ports"
)

var _ ports.ProjectRepository = (*Store)(nil)

type projectDoc struct {
	Projects []yamlProject `yaml:"projects"`
}

type yamlProject struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	OrganizationID string `yaml:"organization_id"`
}

func (s *Store) projectsPath() string {
	return filepath.Join(s.root, projectsFile)
}

// ListProjects returns the organization's projects. The configured
// project is always present, first when the file does not list it.
func (s *Store) ListProjects(_ context.Context, organizationID string) ([]domain.Project, error) {
	var doc projectDoc
	if _, err := readYAML("yamlstore.list_projects", s.projectsPath(), &doc); err != nil {
		return nil, err
	}

	var out []domain.Project
	hasCurrent := false
	for _, p := range doc.Projects {
		org := p.OrganizationID
		if org == "" {
			org = s.cfg.Workspace.OrganizationID
		}
		if org != organizationID {
			continue
		}
		hasCurrent = hasCurrent || p.ID == s.cfg.Workspace.ProjectID
		out = append(out, domain.Project{ID: p.ID, Name: p.Name, OrganizationID: org})
	}

	if !hasCurrent && organizationID == s.cfg.Workspace.OrganizationID {
		current := domain.Project{
			ID:             s.cfg.Workspace.ProjectID,
			Name:           s.cfg.Workspace.Name,
			OrganizationID: organizationID,
		}
		out = append([]domain.Project{current}, out...)
	}
	return out, nil
}

func (s *Store) GetProject(ctx context.Context, organizationID, projectID string) (domain.Project, error) {
	all, err := s.ListProjects(ctx, organizationID)
	if err != nil {
		return domain.Project{}, err
	}
	for _, p := range all {
		if p.ID == projectID {
			return p, nil
		}
	}
	return domain.Project{}, &domain.OpError{Op: "yamlstore.get_project", Kind: domain.KindNotFound, Path: s.projectsPath(), Err: domain.ErrNotFound}
}

// DeleteProject removes a project entry. Default projects and the
// project the workspace belongs to cannot be deleted.
func (s *Store) DeleteProject(_ context.Context, organizationID, projectID string) error {
	const op = "yamlstore.delete_project"
	if domain.IsDefaultOrganizationProject(domain.Project{ID: projectID}) || projectID == s.cfg.Workspace.ProjectID {
		return &domain.OpError{Op: op, Kind: domain.KindPrecondition, Err: domain.ErrDefaultProject}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc projectDoc
	if _, err := readYAML(op, s.projectsPath(), &doc); err != nil {
		return err
	}

	kept := doc.Projects[:0]
	found := false
	for _, p := range doc.Projects {
		org := p.OrganizationID
		if org == "" {
			org = s.cfg.Workspace.OrganizationID
		}
		if p.ID == projectID && org == organizationID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: s.projectsPath(), Err: domain.ErrNotFound}
	}

	doc.Projects = kept
	return writeYAML(op, s.projectsPath(), doc)
}
