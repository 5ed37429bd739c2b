package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/aalvaropc/testdeck/internal/domain"
)

type memSuites struct {
	mu      sync.Mutex
	suites  []domain.TestSuite
	created []string
	deleted []string
	err     error
}

func (m *memSuites) ListTestSuites(_ context.Context, _ string) ([]domain.TestSuite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TestSuite(nil), m.suites...), m.err
}

func (m *memSuites) GetTestSuite(_ context.Context, _ string, id string) (domain.TestSuite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := domain.FindSuite(m.suites, id); ok {
		return s, nil
	}
	return domain.TestSuite{}, &domain.OpError{Op: "mem.get", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
}

func (m *memSuites) CreateTestSuite(_ context.Context, ws, name string) (domain.TestSuite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.TestSuite{}, m.err
	}
	s := domain.TestSuite{ID: fmt.Sprintf("ste_%d", len(m.suites)+1), WorkspaceID: ws, Name: name}
	m.suites = append(m.suites, s)
	m.created = append(m.created, name)
	return s, nil
}

func (m *memSuites) DeleteTestSuite(_ context.Context, _ string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return m.err
}

type memEnvs struct {
	mu     sync.Mutex
	base   domain.Environment
	subs   []domain.Environment
	active string
	err    error
}

func (m *memEnvs) BaseEnvironment(context.Context, string) (domain.Environment, error) {
	return m.base, nil
}

func (m *memEnvs) SubEnvironments(context.Context, string) ([]domain.Environment, error) {
	return m.subs, nil
}

func (m *memEnvs) ActiveEnvironmentID(context.Context, string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, nil
}

func (m *memEnvs) SetActiveEnvironment(_ context.Context, _ string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.active = id
	return nil
}

type memProjects struct {
	mu      sync.Mutex
	deleted []string
}

func (m *memProjects) ListProjects(context.Context, string) ([]domain.Project, error) { return nil, nil }

func (m *memProjects) GetProject(_ context.Context, org, id string) (domain.Project, error) {
	return domain.Project{ID: id, OrganizationID: org}, nil
}

func (m *memProjects) DeleteProject(_ context.Context, _ string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

type memResults struct {
	mu    sync.Mutex
	saved []domain.TestResult
}

func (m *memResults) SaveResult(res domain.TestResult) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, res)
	return fmt.Sprintf("res_%d", len(m.saved)), nil
}

func (m *memResults) GetResult(id string) (domain.TestResult, error) {
	return domain.TestResult{}, domain.ErrNotFound
}

func (m *memResults) ListResults(string) ([]domain.TestResult, error) { return nil, nil }

// scriptedPrompter answers with fixed values and counts questions.
type scriptedPrompter struct {
	confirm bool
	text    string
	ok      bool
	err     error

	confirms int
	texts    []TextRequest
}

func (p *scriptedPrompter) Confirm(context.Context, ConfirmRequest) (bool, error) {
	p.confirms++
	return p.confirm, p.err
}

func (p *scriptedPrompter) Text(_ context.Context, req TextRequest) (string, bool, error) {
	p.texts = append(p.texts, req)
	return p.text, p.ok, p.err
}

// recordingRunner returns one result per call and captures the vars it saw.
type recordingRunner struct {
	results []domain.TestCaseResult
	errs    []error
	vars    []domain.Vars
	calls   int
}

func (r *recordingRunner) Run(_ context.Context, test domain.UnitTest, vars domain.Vars) (domain.TestCaseResult, error) {
	i := r.calls
	r.calls++
	r.vars = append(r.vars, domain.Merge(vars, nil))

	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	if err != nil {
		return domain.TestCaseResult{}, err
	}
	res := domain.TestCaseResult{Name: test.Name, Method: test.Method, URL: test.URL, StatusCode: 200}
	if i < len(r.results) {
		res = r.results[i]
	}
	return res, nil
}
