package ports

import (
	"context"

	"github.com/aalvaropc/testdeck/internal/domain"
)

type EnvironmentRepository interface {
	BaseEnvironment(ctx context.Context, workspaceID string) (domain.Environment, error)
	SubEnvironments(ctx context.Context, workspaceID string) ([]domain.Environment, error)

	// ActiveEnvironmentID returns the stored selection; empty means base.
	ActiveEnvironmentID(ctx context.Context, workspaceID string) (string, error)
	SetActiveEnvironment(ctx context.Context, workspaceID, environmentID string) error
}

type CookieJarRepository interface {
	ActiveCookieJar(ctx context.Context, workspaceID string) (domain.CookieJar, error)
}
