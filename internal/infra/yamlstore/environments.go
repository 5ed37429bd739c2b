package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/config"
	"github.com/aalvaropc/testdeck/internal/ports"
)

var (
	_ ports.EnvironmentRepository = (*Store)(nil)
	_ ports.CookieJarRepository   = (*Store)(nil)
)

// BaseEnvironment reads env/base.yaml with env/secrets.local.yaml layered
// on top. A missing base file yields an empty base environment.
func (s *Store) BaseEnvironment(_ context.Context, workspaceID string) (domain.Environment, error) {
	const op = "yamlstore.base_environment"
	if err := s.checkWorkspace(op, workspaceID); err != nil {
		return domain.Environment{}, err
	}

	base := domain.Environment{ID: defaultBaseID, Name: defaultBaseName, Vars: domain.Vars{}}
	path := filepath.Join(s.envDir(), baseEnvFile)
	if _, err := os.Stat(path); err == nil {
		loaded, err := config.LoadEnvironment(path)
		if err != nil {
			return domain.Environment{}, err
		}
		base = loaded
		if base.Name == "base" {
			base.Name = defaultBaseName
		}
	}

	var secrets config.YAMLEnvironment
	if _, err := readYAML(op, filepath.Join(s.envDir(), secretsFile), &secrets); err != nil {
		return domain.Environment{}, err
	}
	base.Vars = domain.Merge(base.Vars, domain.Vars(secrets.Vars))
	return base, nil
}

// SubEnvironments lists the other environment files by file name.
func (s *Store) SubEnvironments(_ context.Context, workspaceID string) ([]domain.Environment, error) {
	const op = "yamlstore.sub_environments"
	if err := s.checkWorkspace(op, workspaceID); err != nil {
		return nil, err
	}

	dir := s.envDir()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []domain.Environment{}, nil
	}
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindExecution, Path: dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !isYAML(n) || n == baseEnvFile || n == secretsFile {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]domain.Environment, 0, len(names))
	for _, n := range names {
		env, err := config.LoadEnvironment(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

type stateDoc struct {
	ActiveEnvironment string `yaml:"active_environment"`
}

func (s *Store) ActiveEnvironmentID(_ context.Context, workspaceID string) (string, error) {
	const op = "yamlstore.active_environment"
	if err := s.checkWorkspace(op, workspaceID); err != nil {
		return "", err
	}
	var st stateDoc
	if _, err := readYAML(op, filepath.Join(s.stateDir(), stateFile), &st); err != nil {
		return "", err
	}
	return st.ActiveEnvironment, nil
}

// SetActiveEnvironment stores the selection. The id must name the base
// or a sub-environment.
func (s *Store) SetActiveEnvironment(ctx context.Context, workspaceID, environmentID string) error {
	const op = "yamlstore.set_active_environment"
	base, err := s.BaseEnvironment(ctx, workspaceID)
	if err != nil {
		return err
	}
	subs, err := s.SubEnvironments(ctx, workspaceID)
	if err != nil {
		return err
	}

	known := environmentID == base.ID
	for _, e := range subs {
		known = known || e.ID == environmentID
	}
	if !known {
		return &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: s.envDir(), Err: domain.ErrNotFound}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeYAML(op, filepath.Join(s.stateDir(), stateFile), stateDoc{ActiveEnvironment: environmentID})
}

type cookieDoc struct {
	ID      string `yaml:"id"`
	Cookies []struct {
		Domain string `yaml:"domain"`
		Path   string `yaml:"path"`
		Name   string `yaml:"name"`
		Value  string `yaml:"value"`
	} `yaml:"cookies"`
}

// ActiveCookieJar reads the workspace cookie jar; a missing file is an
// empty jar.
func (s *Store) ActiveCookieJar(_ context.Context, workspaceID string) (domain.CookieJar, error) {
	const op = "yamlstore.cookie_jar"
	if err := s.checkWorkspace(op, workspaceID); err != nil {
		return domain.CookieJar{}, err
	}

	var doc cookieDoc
	if _, err := readYAML(op, filepath.Join(s.stateDir(), cookiesFile), &doc); err != nil {
		return domain.CookieJar{}, err
	}

	jar := domain.CookieJar{ID: doc.ID, Cookies: make([]domain.Cookie, 0, len(doc.Cookies))}
	if jar.ID == "" {
		jar.ID = "jar_" + workspaceID
	}
	for _, c := range doc.Cookies {
		jar.Cookies = append(jar.Cookies, domain.Cookie{Domain: c.Domain, Path: c.Path, Name: c.Name, Value: c.Value})
	}
	return jar, nil
}
