package ports

import "github.com/aalvaropc/testdeck/internal/domain"

// ResultStore persists suite runs.
type ResultStore interface {
	SaveResult(res domain.TestResult) (id string, err error)
	GetResult(id string) (domain.TestResult, error)
	ListResults(suiteID string) ([]domain.TestResult, error)
}
