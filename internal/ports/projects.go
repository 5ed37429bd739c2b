package ports

import (
	"context"

	"github.com/aalvaropc/testdeck/internal/domain"
)

type ProjectRepository interface {
	ListProjects(ctx context.Context, organizationID string) ([]domain.Project, error)
	GetProject(ctx context.Context, organizationID, projectID string) (domain.Project, error)
	DeleteProject(ctx context.Context, organizationID, projectID string) error
}
