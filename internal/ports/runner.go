package ports

import (
	"context"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// RequestRunner executes a single test with a resolved variable set.
type RequestRunner interface {
	Run(ctx context.Context, test domain.UnitTest, vars domain.Vars) (domain.TestCaseResult, error)
}
