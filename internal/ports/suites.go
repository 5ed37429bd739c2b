package ports

import (
	"context"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// SuiteRepository stores the test suites of a workspace.
// ListTestSuites returns suites in creation order.
type SuiteRepository interface {
	ListTestSuites(ctx context.Context, workspaceID string) ([]domain.TestSuite, error)
	GetTestSuite(ctx context.Context, workspaceID, suiteID string) (domain.TestSuite, error)
	CreateTestSuite(ctx context.Context, workspaceID, name string) (domain.TestSuite, error)
	DeleteTestSuite(ctx context.Context, workspaceID, suiteID string) error
}
