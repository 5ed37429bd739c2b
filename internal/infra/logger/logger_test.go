package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONLines(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root})
	require.NoError(t, err)
	require.NoError(t, IsReady())
	require.Equal(t, filepath.Join(root, ".testdeck", "logs", "testdeck.log"), Path())
	require.False(t, InitTime().IsZero())

	Component("test").Info("run.start", "suite_id", "ste_1")
	require.NoError(t, cleanup())
	require.Error(t, IsReady())
	require.Empty(t, Path())

	b, err := os.ReadFile(FilePath(root))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	require.Equal(t, "run.start", entry["msg"])
	require.Equal(t, "test", entry["component"])
	require.Equal(t, "ste_1", entry["suite_id"])
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, false).Debug("hidden")
	require.Zero(t, buf.Len())

	New(&buf, true).Debug("shown")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"source"`)
}
