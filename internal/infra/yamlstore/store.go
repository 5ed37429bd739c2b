// Package yamlstore keeps a workspace's suites, environments, cookies and
// projects as YAML files under the workspace root.
package yamlstore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/config"
)

const (
	baseEnvFile     = "base.yaml"
	secretsFile     = "secrets.local.yaml"
	stateFile       = "state.yaml"
	cookiesFile     = "cookies.yaml"
	projectsFile    = "projects.yaml"
	defaultBaseID   = "env_base"
	defaultBaseName = "Base Environment"
)

// Store implements the suite, environment, cookie and project
// repositories for the single workspace rooted at root.
type Store struct {
	root string
	cfg  domain.Config

	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

type Option func(*Store)

func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDs(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(root string, cfg domain.Config, opts ...Option) *Store {
	s := &Store{
		root:  root,
		cfg:   cfg,
		now:   time.Now,
		newID: shortID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (s *Store) suitesDir() string { return filepath.Join(s.root, s.cfg.Paths.SuitesDir) }
func (s *Store) envDir() string    { return filepath.Join(s.root, s.cfg.Paths.EnvironmentsDir) }
func (s *Store) stateDir() string  { return filepath.Join(s.root, s.cfg.Paths.StateDir) }

// checkWorkspace rejects ids of other workspaces.
func (s *Store) checkWorkspace(op, workspaceID string) error {
	if workspaceID == s.cfg.Workspace.WorkspaceID {
		return nil
	}
	return &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: s.root, Err: domain.ErrNotFound}
}

func readYAML(op, path string, into any) (bool, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
	}
	if err := yaml.Unmarshal(b, into); err != nil {
		return false, &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}
	return true, nil
}

// writeYAML writes v to path through a temporary file and rename.
func writeYAML(op, path string, v any) error {
	b, err := config.EncodeYAML(v)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
	}
	return nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
