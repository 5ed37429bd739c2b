package fsworkspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/config"
	"github.com/aalvaropc/testdeck/internal/infra/yamlstore"
)

func newTestInitializer() *Initializer {
	return NewInitializer(
		WithNow(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDs(func() string { return "abc123" }),
	)
}

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	if err := newTestInitializer().Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	for _, rel := range []string{
		"testdeck.yaml",
		"projects.yaml",
		filepath.Join("suites", "example.yaml"),
		filepath.Join("env", "base.yaml"),
		filepath.Join("env", "dev.yaml"),
		filepath.Join(".testdeck", "logs"),
		"results",
	} {
		assertFileExists(t, filepath.Join(tmp, rel))
	}

	info, err := os.Stat(filepath.Join(tmp, "env", "secrets.local.yaml"))
	if err != nil {
		t.Fatalf("stat secrets file: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected secrets file mode 600, got %o", got)
	}
}

func TestInitializer_Init_ProducesLoadableWorkspace(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, newTestInitializer().Init(domain.WorkspaceSpec{Root: tmp}, false))

	cfg, err := config.LoadConfig(tmp)
	require.NoError(t, err)
	require.Equal(t, "wrk_abc123", cfg.Workspace.WorkspaceID)
	require.Equal(t, filepath.Base(tmp), cfg.Workspace.Name)

	store := yamlstore.New(tmp, cfg)
	ctx := context.Background()

	suites, err := store.ListTestSuites(ctx, cfg.Workspace.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, suites, 1)
	require.Equal(t, "ste_example", suites[0].ID)
	require.Len(t, suites[0].Tests, 2)
	require.Equal(t, "{{baseUrl}}/users/{{userId}}", suites[0].Tests[0].URL)
	require.True(t, suites[0].CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	base, err := store.BaseEnvironment(ctx, cfg.Workspace.WorkspaceID)
	require.NoError(t, err)
	require.Equal(t, "env_base", base.ID)
	require.Contains(t, base.Vars, "token")

	subs, err := store.SubEnvironments(ctx, cfg.Workspace.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "env_dev", subs[0].ID)

	projects, err := store.ListProjects(ctx, cfg.Workspace.OrganizationID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, domain.DefaultProjectID, projects[0].ID)
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "testdeck.yaml")
	if err := os.WriteFile(cfgPath, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing testdeck.yaml: %v", err)
	}

	i := newTestInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read testdeck.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected testdeck.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}

	b, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read testdeck.yaml after force: %v", err)
	}
	if !strings.Contains(string(b), "testdeck:") || strings.Contains(string(b), "[[") {
		t.Fatalf("expected rendered template, got %q", string(b))
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}
