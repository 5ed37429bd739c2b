package domain

// Config represents the workspace configuration loaded from testdeck.yaml.
type Config struct {
	Masking   MaskingConfig
	Workspace WorkspaceConfig
	Paths     PathsConfig
}

type MaskingConfig struct {
	Enabled bool
}

// WorkspaceConfig pins the ids the workspace is addressed by in routes.
type WorkspaceConfig struct {
	OrganizationID string
	ProjectID      string
	WorkspaceID    string
	Name           string
}

type PathsConfig struct {
	SuitesDir       string
	EnvironmentsDir string
	ResultsDir      string
	StateDir        string
}

// DefaultConfig provides sane defaults if testdeck.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Workspace: WorkspaceConfig{
			OrganizationID: DefaultOrganizationID,
			ProjectID:      DefaultProjectID,
			WorkspaceID:    "wrk_default",
			Name:           "My Workspace",
		},
		Paths: PathsConfig{
			SuitesDir:       "suites",
			EnvironmentsDir: "env",
			ResultsDir:      "results",
			StateDir:        ".testdeck",
		},
	}
}

// WorkspaceSpec describes where a workspace lives on disk.
type WorkspaceSpec struct {
	Root string
}
