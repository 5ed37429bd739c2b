package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/config"
	"github.com/aalvaropc/testdeck/internal/ports"
)

var _ ports.SuiteRepository = (*Store)(nil)

type suiteFile struct {
	suite domain.TestSuite
	path  string
}

func (s *Store) scanSuites() ([]suiteFile, error) {
	dir := s.suitesDir()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.OpError{Op: "yamlstore.list_suites", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	var out []suiteFile
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		suite, err := config.LoadSuite(p)
		if err != nil {
			return nil, err
		}
		suite.WorkspaceID = s.cfg.Workspace.WorkspaceID
		out = append(out, suiteFile{suite: suite, path: p})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].suite, out[j].suite
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

// ListTestSuites returns suites ordered by creation time, then id.
func (s *Store) ListTestSuites(_ context.Context, workspaceID string) ([]domain.TestSuite, error) {
	if err := s.checkWorkspace("yamlstore.list_suites", workspaceID); err != nil {
		return nil, err
	}
	files, err := s.scanSuites()
	if err != nil {
		return nil, err
	}
	out := make([]domain.TestSuite, 0, len(files))
	for _, f := range files {
		out = append(out, f.suite)
	}
	return out, nil
}

func (s *Store) findSuite(op, workspaceID, suiteID string) (suiteFile, error) {
	if err := s.checkWorkspace(op, workspaceID); err != nil {
		return suiteFile{}, err
	}
	files, err := s.scanSuites()
	if err != nil {
		return suiteFile{}, err
	}
	for _, f := range files {
		if f.suite.ID == suiteID {
			return f, nil
		}
	}
	return suiteFile{}, &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: s.suitesDir(), Err: domain.ErrNotFound}
}

func (s *Store) GetTestSuite(_ context.Context, workspaceID, suiteID string) (domain.TestSuite, error) {
	f, err := s.findSuite("yamlstore.get_suite", workspaceID, suiteID)
	return f.suite, err
}

// CreateTestSuite writes an empty suite file named after its id.
func (s *Store) CreateTestSuite(_ context.Context, workspaceID, name string) (domain.TestSuite, error) {
	const op = "yamlstore.create_suite"
	if err := s.checkWorkspace(op, workspaceID); err != nil {
		return domain.TestSuite{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.TestSuite{}, &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: domain.ErrInvalidRequest}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	suite := domain.TestSuite{
		ID:          "ste_" + s.newID(),
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedAt:   s.now().UTC(),
		Vars:        domain.Vars{},
		Tests:       []domain.UnitTest{},
	}
	path := filepath.Join(s.suitesDir(), suite.ID+".yaml")
	if err := writeYAML(op, path, config.SuiteToYAML(suite)); err != nil {
		return domain.TestSuite{}, err
	}
	return suite, nil
}

func (s *Store) DeleteTestSuite(_ context.Context, workspaceID, suiteID string) error {
	const op = "yamlstore.delete_suite"
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.findSuite(op, workspaceID, suiteID)
	if err != nil {
		return err
	}
	if err := os.Remove(f.path); err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: f.path, Err: err}
	}
	return nil
}
