package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func demoSuite() domain.TestSuite {
	return domain.TestSuite{
		ID:   "ste_1",
		Name: "Auth",
		Vars: domain.Vars{"base_url": "http://suite", "user": "suite-user"},
		Tests: []domain.UnitTest{
			{
				Name:    "login",
				Method:  domain.MethodPost,
				URL:     "{{base_url}}/login",
				Assert:  domain.AssertionsSpec{Status: ptr(200)},
				Extract: domain.ExtractSpec{"token": "$.token"},
			},
			{Name: "me", Method: domain.MethodGet, URL: "{{base_url}}/me"},
		},
	}
}

func TestRunSuite_MergesVarsAndChainsExtracts(t *testing.T) {
	suites := &memSuites{suites: []domain.TestSuite{demoSuite()}}
	envs := &memEnvs{
		base:   domain.Environment{ID: "env_base", Vars: domain.Vars{"base_url": "http://base", "region": "eu"}},
		subs:   []domain.Environment{{ID: "env_prod", Name: "Prod", Vars: domain.Vars{"base_url": "http://prod"}}},
		active: "env_prod",
	}
	runner := &recordingRunner{results: []domain.TestCaseResult{
		{Name: "login", StatusCode: 200, Response: domain.ResponseSnapshot{Body: []byte(`{"token":"t-1"}`)}},
	}}
	results := &memResults{}

	progressed := 0
	uc := NewRunSuite(suites, envs, runner, results, WithRunClock(fixedClock()))
	res, err := uc.Execute(context.Background(), "wrk", "ste_1", func() { progressed++ })
	require.NoError(t, err)

	require.Equal(t, 1, progressed)
	require.Equal(t, "res_1", res.ID)
	require.Equal(t, "env_prod", res.EnvironmentID)
	require.Equal(t, "Prod", res.EnvironmentName)
	require.Len(t, res.Results, 2)

	require.Equal(t, "http://prod", runner.vars[0]["base_url"])
	require.Equal(t, "eu", runner.vars[0]["region"])
	require.Equal(t, "suite-user", runner.vars[0]["user"])
	require.NotContains(t, runner.vars[0], "token")
	require.Equal(t, "t-1", runner.vars[1]["token"])

	require.Len(t, res.Results[0].Assertions, 1)
	require.True(t, res.Results[0].Assertions[0].Passed)
	require.Equal(t, 2*time.Second, res.Duration())

	passed, failed := res.Counts()
	require.Equal(t, 2, passed)
	require.Equal(t, 0, failed)
	require.Len(t, results.saved, 1)
}

func TestRunSuite_BaseEnvironmentWhenNoneActive(t *testing.T) {
	suites := &memSuites{suites: []domain.TestSuite{demoSuite()}}
	envs := &memEnvs{
		base: domain.Environment{ID: "env_base", Name: "Base", Vars: domain.Vars{"base_url": "http://base"}},
		subs: []domain.Environment{{ID: "env_prod", Vars: domain.Vars{"base_url": "http://prod"}}},
	}
	runner := &recordingRunner{}

	res, err := NewRunSuite(suites, envs, runner, &memResults{}).Execute(context.Background(), "wrk", "ste_1", nil)
	require.NoError(t, err)
	require.Equal(t, "env_base", res.EnvironmentID)
	require.Equal(t, "http://base", runner.vars[0]["base_url"])
}

func TestRunSuite_RunnerErrorMarksTestAndContinues(t *testing.T) {
	suites := &memSuites{suites: []domain.TestSuite{demoSuite()}}
	runner := &recordingRunner{errs: []error{
		&domain.OpError{Op: "resolve", Kind: domain.KindMissingVar, Err: domain.ErrMissingVar},
	}}

	res, err := NewRunSuite(suites, &memEnvs{}, runner, &memResults{}).Execute(context.Background(), "wrk", "ste_1", nil)
	require.NoError(t, err)
	require.Equal(t, 2, runner.calls)
	require.NotNil(t, res.Results[0].Error)
	require.Equal(t, domain.RunErrorConfig, res.Results[0].Error.Kind)

	_, failed := res.Counts()
	require.Equal(t, 1, failed)
}

func TestRunSuite_UnknownSuite(t *testing.T) {
	results := &memResults{}
	_, err := NewRunSuite(&memSuites{}, &memEnvs{}, &recordingRunner{}, results).Execute(context.Background(), "wrk", "nope", nil)
	require.True(t, domain.IsKind(err, domain.KindNotFound))
	require.Empty(t, results.saved)
}

func TestRunSuite_StopsOnContextCancel(t *testing.T) {
	suites := &memSuites{suites: []domain.TestSuite{demoSuite()}}
	results := &memResults{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &recordingRunner{}
	_, err := NewRunSuite(suites, &memEnvs{}, runner, results).Execute(ctx, "wrk", "ste_1", nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 0, runner.calls)
	require.Empty(t, results.saved)
}
