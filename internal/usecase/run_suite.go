package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ports"
	ucassert "github.com/aalvaropc/testdeck/internal/usecase/assert"
	ucextract "github.com/aalvaropc/testdeck/internal/usecase/extract"
)

// RunSuite executes every test of a suite against the active environment
// and stores the result.
type RunSuite struct {
	suites  ports.SuiteRepository
	envs    ports.EnvironmentRepository
	runner  ports.RequestRunner
	results ports.ResultStore

	now func() time.Time
	log *slog.Logger
}

type RunSuiteOption func(*RunSuite)

func WithRunClock(now func() time.Time) RunSuiteOption {
	return func(uc *RunSuite) { uc.now = now }
}

func WithRunLogger(l *slog.Logger) RunSuiteOption {
	return func(uc *RunSuite) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewRunSuite(suites ports.SuiteRepository, envs ports.EnvironmentRepository, runner ports.RequestRunner, results ports.ResultStore, opts ...RunSuiteOption) *RunSuite {
	uc := &RunSuite{
		suites:  suites,
		envs:    envs,
		runner:  runner,
		results: results,
		now:     time.Now,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs the suite. progress, when non-nil, is called once the
// inputs are loaded and requests start going out. A cancelled context
// stops the run before the next request; nothing is saved in that case.
func (uc *RunSuite) Execute(ctx context.Context, workspaceID, suiteID string, progress func()) (domain.TestResult, error) {
	suite, err := uc.suites.GetTestSuite(ctx, workspaceID, suiteID)
	if err != nil {
		return domain.TestResult{}, err
	}

	env, vars, err := uc.environment(ctx, workspaceID)
	if err != nil {
		return domain.TestResult{}, err
	}
	// suite vars < base < active sub-environment < extracted
	vars = domain.Merge(suite.Vars, vars)

	if progress != nil {
		progress()
	}

	uc.log.Info("run.start",
		"workspace_id", workspaceID,
		"suite_id", suite.ID,
		"environment_id", env.ID,
		"tests", len(suite.Tests),
	)

	res := domain.TestResult{
		WorkspaceID:     workspaceID,
		SuiteID:         suite.ID,
		SuiteName:       suite.Name,
		EnvironmentID:   env.ID,
		EnvironmentName: env.Name,
		StartedAt:       uc.now(),
		Results:         make([]domain.TestCaseResult, 0, len(suite.Tests)),
	}

	for _, test := range suite.Tests {
		if err := ctx.Err(); err != nil {
			uc.log.Warn("run.cancelled", "suite_id", suite.ID, "completed", len(res.Results))
			return res, &domain.OpError{Op: "usecase.run_suite", Kind: domain.KindExecution, Err: err}
		}

		tc, runErr := uc.runner.Run(ctx, test, vars)
		if runErr != nil {
			res.Results = append(res.Results, domain.TestCaseResult{
				Name:      test.Name,
				Method:    test.Method,
				URL:       test.URL,
				Extracted: domain.Vars{},
				Error:     domain.NewRunError(runErr),
			})
			continue
		}

		tc.Assertions = ucassert.Evaluate(test.Assert, tc.StatusCode, tc.LatencyMS, tc.Response.Body)
		tc.Extracted, tc.Extracts = ucextract.Apply(tc.Response.Body, test.Extract)
		for k, v := range tc.Extracted {
			vars[k] = v
		}
		res.Results = append(res.Results, tc)
	}
	res.FinishedAt = uc.now()

	id, err := uc.results.SaveResult(res)
	if err != nil {
		uc.log.Error("run.save_failed", "suite_id", suite.ID, "err", err.Error())
		return res, err
	}
	res.ID = id

	passed, failed := res.Counts()
	uc.log.Info("run.ok",
		"suite_id", suite.ID,
		"result_id", id,
		"passed", passed,
		"failed", failed,
		"duration_ms", res.Duration().Milliseconds(),
	)
	return res, nil
}

// environment resolves the active environment and its effective vars.
func (uc *RunSuite) environment(ctx context.Context, workspaceID string) (domain.Environment, domain.Vars, error) {
	base, err := uc.envs.BaseEnvironment(ctx, workspaceID)
	if err != nil {
		return domain.Environment{}, nil, err
	}
	subs, err := uc.envs.SubEnvironments(ctx, workspaceID)
	if err != nil {
		return domain.Environment{}, nil, err
	}
	activeID, err := uc.envs.ActiveEnvironmentID(ctx, workspaceID)
	if err != nil {
		return domain.Environment{}, nil, err
	}

	active := domain.ResolveActive(base, subs, activeID)
	vars := domain.Merge(base.Vars, nil)
	if active.ID != base.ID {
		vars = domain.Merge(vars, active.Vars)
	}
	return active, vars, nil
}
