package runstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func sample(start time.Time) domain.TestResult {
	return domain.TestResult{
		WorkspaceID:     "wrk",
		SuiteID:         "ste_1",
		SuiteName:       "Demo API",
		EnvironmentName: "dev",
		StartedAt:       start,
		FinishedAt:      start.Add(2 * time.Second),
		Results: []domain.TestCaseResult{{
			Name:       "login",
			Method:     domain.MethodPost,
			URL:        "http://x/login",
			StatusCode: 200,
			Assertions: []domain.AssertionResult{{Name: "status", Passed: true}},
			Extracted:  domain.Vars{"auth.token": "abc", "user.id": "7"},
			Response: domain.ResponseSnapshot{
				Headers: map[string][]string{"Set-Cookie": {"sid=1"}, "X-Test": {"1"}},
				Body:    []byte(`{"token":"abc"}`),
			},
		}},
	}
}

func TestSaveAndGet(t *testing.T) {
	root := t.TempDir()
	cfg := domain.DefaultConfig()
	cfg.Masking.Enabled = false
	store := NewJSONStore(root, cfg)

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveResult(sample(start))
	require.NoError(t, err)
	require.Equal(t, "res_20260203T101112Z_demo-api", id)
	require.FileExists(t, filepath.Join(root, "results", id+".json"))

	got, err := store.GetResult(id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "abc", got.Results[0].Extracted["auth.token"])
	require.Equal(t, `{"token":"abc"}`, string(got.Results[0].Response.Body))
	require.Equal(t, 2*time.Second, got.Duration())
}

func TestSave_MasksWhenEnabled(t *testing.T) {
	store := NewJSONStore(t.TempDir(), domain.DefaultConfig())
	in := sample(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	id, err := store.SaveResult(in)
	require.NoError(t, err)

	got, err := store.GetResult(id)
	require.NoError(t, err)
	tc := got.Results[0]
	require.Equal(t, maskValue, tc.Extracted["auth.token"])
	require.Equal(t, "7", tc.Extracted["user.id"])
	require.Equal(t, []string{maskValue}, tc.Response.Headers["Set-Cookie"])
	require.Equal(t, []string{"1"}, tc.Response.Headers["X-Test"])

	require.Equal(t, "abc", in.Results[0].Extracted["auth.token"], "input must not be mutated")
	require.Equal(t, []string{"sid=1"}, in.Results[0].Response.Headers["Set-Cookie"])
}

func TestSave_UniqueIDOnCollision(t *testing.T) {
	store := NewJSONStore(t.TempDir(), domain.DefaultConfig())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a, err := store.SaveResult(sample(start))
	require.NoError(t, err)
	b, err := store.SaveResult(sample(start))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.Equal(t, a+"-2", b)
}

func TestListResults(t *testing.T) {
	root := t.TempDir()
	store := NewJSONStore(root, domain.DefaultConfig())
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older, err := store.SaveResult(sample(t0))
	require.NoError(t, err)
	newer, err := store.SaveResult(sample(t0.Add(time.Hour)))
	require.NoError(t, err)

	other := sample(t0)
	other.SuiteID = "ste_2"
	other.SuiteName = "Other"
	_, err = store.SaveResult(other)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "results", "junk.json"), []byte("{"), 0o600))

	list, err := store.ListResults("ste_1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer, list[0].ID)
	require.Equal(t, older, list[1].ID)

	all, err := store.ListResults("")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestGetResult_NotFound(t *testing.T) {
	store := NewJSONStore(t.TempDir(), domain.DefaultConfig())
	for _, id := range []string{"", "missing", "../etc/passwd"} {
		_, err := store.GetResult(id)
		require.True(t, domain.IsKind(err, domain.KindNotFound), id)
	}

	empty, err := store.ListResults("")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "demo-api-v2", slugify("  Demo API -- v2!! "))
	require.Equal(t, "", slugify("***"))
}
