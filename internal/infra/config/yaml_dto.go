package config

import "time"

// ConfigFile marks a workspace root.
const ConfigFile = "testdeck.yaml"

type YAMLSuite struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	CreatedAt time.Time         `yaml:"created_at"`
	Vars      map[string]string `yaml:"vars,omitempty"`
	Tests     []YAMLTest        `yaml:"tests"`
}

type YAMLTest struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`

	JSON        map[string]any    `yaml:"json,omitempty"`
	Form        map[string]string `yaml:"form,omitempty"`
	Raw         string            `yaml:"raw,omitempty"`
	ContentType string            `yaml:"content_type,omitempty"`

	Assert  YAMLAssertions    `yaml:"assert,omitempty"`
	Extract map[string]string `yaml:"extract,omitempty"`
}

type YAMLAssertions struct {
	Status *int `yaml:"status,omitempty"`
	MaxMS  *int `yaml:"max_ms,omitempty"`

	JSONPath map[string]YAMLJSONPathAssertion `yaml:"jsonpath,omitempty"`
}

type YAMLJSONPathAssertion struct {
	Exists   bool     `yaml:"exists,omitempty"`
	Eq       *string  `yaml:"eq,omitempty"`
	Contains *string  `yaml:"contains,omitempty"`
	Matches  *string  `yaml:"matches,omitempty"`
	Gt       *float64 `yaml:"gt,omitempty"`
	Lt       *float64 `yaml:"lt,omitempty"`
}

type YAMLEnvironment struct {
	ID    string            `yaml:"id,omitempty"`
	Name  string            `yaml:"name,omitempty"`
	Color string            `yaml:"color,omitempty"`
	Vars  map[string]string `yaml:"vars"`
}

type yamlConfig struct {
	Testdeck struct {
		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Workspace struct {
			OrganizationID string `yaml:"organization_id"`
			ProjectID      string `yaml:"project_id"`
			WorkspaceID    string `yaml:"workspace_id"`
			Name           string `yaml:"name"`
		} `yaml:"workspace"`

		Paths struct {
			SuitesDir       string `yaml:"suites_dir"`
			EnvironmentsDir string `yaml:"environments_dir"`
			ResultsDir      string `yaml:"results_dir"`
			StateDir        string `yaml:"state_dir"`
		} `yaml:"paths"`
	} `yaml:"testdeck"`
}
