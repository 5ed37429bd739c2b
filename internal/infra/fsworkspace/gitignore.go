package fsworkspace

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
)

const gitignoreHeader = "# testdeck"

// secretsFile holds environment values that must never be committed.
const secretsFile = "secrets.local.yaml"

// gitignoreEntries lists the workspace paths that are local to a machine:
// run results, UI state and logs, and the secrets environment.
func gitignoreEntries(p domain.PathsConfig) []string {
	return []string{
		p.ResultsDir + "/",
		p.StateDir + "/",
		path.Join(p.EnvironmentsDir, secretsFile),
	}
}

// ensureGitignore appends the missing entries under the testdeck header.
// Lines already present anywhere in the file are not repeated.
func ensureGitignore(root string, entries []string) error {
	file := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(file)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	existing := string(b)

	lines := strings.Split(existing, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	missing := slices.DeleteFunc(slices.Clone(entries), func(e string) bool {
		return slices.Contains(lines, e)
	})
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	if existing != "" {
		out.WriteString(existing)
		if !strings.HasSuffix(existing, "\n") {
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
	}
	if !slices.Contains(lines, gitignoreHeader) {
		out.WriteString(gitignoreHeader + "\n")
	}
	for _, e := range missing {
		out.WriteString(e + "\n")
	}
	return os.WriteFile(file, []byte(out.String()), 0o644)
}
