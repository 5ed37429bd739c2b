// Package fsworkspace scaffolds a new workspace on disk.
package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/testdeck/internal/app/template"
	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ports"
)

// Template placeholders use [[name]] so the {{var}} placeholders of the
// example suite survive rendering.
var scaffold = template.Renderer{Open: "[[", Close: "]]"}

type Initializer struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Initializer)

func WithNow(now func() time.Time) Option {
	return func(i *Initializer) { i.now = now }
}

func WithIDs(gen func() string) Option {
	return func(i *Initializer) { i.newID = gen }
}

func NewInitializer(opts ...Option) *Initializer {
	i := &Initializer{
		now:   time.Now,
		newID: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init creates the workspace layout and writes the templates. Existing
// files are kept unless force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	const op = "fsworkspace.init"
	root := filepath.Clean(spec.Root)
	defaults := domain.DefaultConfig()

	dirs := []string{
		filepath.Join(root, defaults.Paths.SuitesDir),
		filepath.Join(root, defaults.Paths.EnvironmentsDir),
		filepath.Join(root, defaults.Paths.ResultsDir),
		filepath.Join(root, defaults.Paths.StateDir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: d, Err: err}
		}
	}

	if err := ensureGitignore(root, gitignoreEntries(defaults.Paths)); err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: filepath.Join(root, ".gitignore"), Err: err}
	}

	name := filepath.Base(root)
	if name == "." || name == string(filepath.Separator) {
		name = defaults.Workspace.Name
	}
	vars := map[string]string{
		"organization_id": defaults.Workspace.OrganizationID,
		"project_id":      defaults.Workspace.ProjectID,
		"workspace_id":    "wrk_" + i.newID(),
		"workspace_name":  name,
		"created_at":      i.now().UTC().Format(time.RFC3339),
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, filepath.FromSlash(rel))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		out, err := scaffold.Render(string(b), vars)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: dst, Err: err}
		}

		mode := fs.FileMode(0o644)
		if strings.Contains(strings.ToLower(rel), "secrets") {
			mode = 0o600
		}
		if err := os.WriteFile(dst, []byte(out), mode); err != nil {
			return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: dst, Err: err}
		}
		return nil
	})
}
