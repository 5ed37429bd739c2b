package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func TestGitignoreEntries_FollowPaths(t *testing.T) {
	p := domain.DefaultConfig().Paths
	require.Equal(t, []string{"results/", ".testdeck/", "env/secrets.local.yaml"}, gitignoreEntries(p))

	p.ResultsDir = "out"
	p.EnvironmentsDir = "envs"
	require.Equal(t, []string{"out/", ".testdeck/", "envs/secrets.local.yaml"}, gitignoreEntries(p))
}

func TestEnsureGitignore(t *testing.T) {
	entries := gitignoreEntries(domain.DefaultConfig().Paths)

	cases := []struct {
		name     string
		existing string
		want     string
	}{
		{
			name: "new file",
			want: "# testdeck\nresults/\n.testdeck/\nenv/secrets.local.yaml\n",
		},
		{
			name:     "appends missing entries only",
			existing: "node_modules/\n# testdeck\nresults/",
			want:     "node_modules/\n# testdeck\nresults/\n\n.testdeck/\nenv/secrets.local.yaml\n",
		},
		{
			name:     "complete file is untouched",
			existing: "results/\n.testdeck/\nenv/secrets.local.yaml\n",
			want:     "results/\n.testdeck/\nenv/secrets.local.yaml\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			file := filepath.Join(root, ".gitignore")
			if tc.existing != "" {
				require.NoError(t, os.WriteFile(file, []byte(tc.existing), 0o644))
			}

			require.NoError(t, ensureGitignore(root, entries))
			got, err := os.ReadFile(file)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))

			require.NoError(t, ensureGitignore(root, entries))
			again, err := os.ReadFile(file)
			require.NoError(t, err)
			require.Equal(t, string(got), string(again))
			require.Equal(t, 1, strings.Count(string(again), "results/"))
		})
	}
}
