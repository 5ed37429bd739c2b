package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// Finder locates a workspace root by searching for ConfigFile upward.
type Finder struct {
	ConfigFile string
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFile}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "config.find_root",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: "config.find_root", Kind: domain.KindExecution, Err: err}
	}
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for cur := filepath.Clean(abs); ; {
		if _, err := os.Stat(filepath.Join(cur, f.ConfigFile)); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "config.find_root",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// LoadConfig reads ConfigFile from root and applies it over the defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	path := filepath.Join(root, ConfigFile)

	var y yamlConfig
	if err := decodeFile("config.load_workspace", path, &y); err != nil {
		return cfg, err
	}
	t := y.Testdeck

	if t.Masking.Enabled != nil {
		cfg.Masking.Enabled = *t.Masking.Enabled
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Workspace.OrganizationID, t.Workspace.OrganizationID)
	set(&cfg.Workspace.ProjectID, t.Workspace.ProjectID)
	set(&cfg.Workspace.WorkspaceID, t.Workspace.WorkspaceID)
	set(&cfg.Workspace.Name, t.Workspace.Name)
	set(&cfg.Paths.SuitesDir, t.Paths.SuitesDir)
	set(&cfg.Paths.EnvironmentsDir, t.Paths.EnvironmentsDir)
	set(&cfg.Paths.ResultsDir, t.Paths.ResultsDir)
	set(&cfg.Paths.StateDir, t.Paths.StateDir)

	return cfg, nil
}

// EncodeYAML marshals v with two-space indentation.
func EncodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
