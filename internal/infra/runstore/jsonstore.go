// Package runstore persists suite results as JSON files.
package runstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ports"
)

const defaultResultsDir = "results"
const maskValue = "********"

type JSONStore struct {
	rootDir        string
	resultsDirName string
	maskingEnabled bool
	now            func() time.Time
}

type Option func(*JSONStore)

func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.ResultsDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultResultsDir
	}

	s := &JSONStore{
		rootDir:        root,
		resultsDirName: dir,
		maskingEnabled: cfg.Masking.Enabled,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ResultStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	return filepath.Join(s.rootDir, s.resultsDirName)
}

// SaveResult writes res to results/<id>.json and returns the id. The id
// is derived from the start time and suite name; a numeric suffix keeps it
// unique.
func (s *JSONStore) SaveResult(res domain.TestResult) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "runstore.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	if res.StartedAt.IsZero() {
		res.StartedAt = s.now()
	}
	ts := res.StartedAt.UTC()

	slug := slugify(res.SuiteName)
	if slug == "" {
		slug = "suite"
	}
	base := fmt.Sprintf("res_%s_%s", ts.Format("20060102T150405Z"), slug)

	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, id+".json")); errors.Is(err, os.ErrNotExist) {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	res.ID = id
	path := filepath.Join(dir, id+".json")

	toSave := res
	if s.maskingEnabled {
		toSave = maskResult(res)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "runstore.marshal", Kind: domain.KindExecution, Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{Op: "runstore.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{Op: "runstore.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}
	return id, nil
}

func (s *JSONStore) GetResult(id string) (domain.TestResult, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return domain.TestResult{}, &domain.OpError{Op: "runstore.get", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
	}
	return s.read(filepath.Join(s.dir(), id+".json"))
}

func (s *JSONStore) read(path string) (domain.TestResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.TestResult{}, &domain.OpError{Op: "runstore.get", Kind: domain.KindNotFound, Path: path, Err: domain.ErrNotFound}
	}
	var res domain.TestResult
	if err := json.Unmarshal(b, &res); err != nil {
		return domain.TestResult{}, &domain.OpError{Op: "runstore.get", Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}
	return res, nil
}

// ListResults returns the results of a suite, newest first. An empty
// suiteID lists every result.
func (s *JSONStore) ListResults(suiteID string) ([]domain.TestResult, error) {
	entries, err := os.ReadDir(s.dir())
	if errors.Is(err, os.ErrNotExist) {
		return []domain.TestResult{}, nil
	}
	if err != nil {
		return nil, &domain.OpError{Op: "runstore.list", Kind: domain.KindExecution, Path: s.dir(), Err: err}
	}

	out := []domain.TestResult{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		res, err := s.read(filepath.Join(s.dir(), e.Name()))
		if err != nil {
			continue
		}
		if suiteID == "" || res.SuiteID == suiteID {
			out = append(out, res)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// maskResult returns a masked copy of res.
func maskResult(res domain.TestResult) domain.TestResult {
	out := res
	out.Results = make([]domain.TestCaseResult, 0, len(res.Results))

	for _, tc := range res.Results {
		c := tc
		c.Extracted = domain.Merge(tc.Extracted, nil)
		for k := range c.Extracted {
			if isSensitiveKey(k) {
				c.Extracted[k] = maskValue
			}
		}

		if tc.Response.Headers != nil {
			c.Response.Headers = make(map[string][]string, len(tc.Response.Headers))
			for k, vals := range tc.Response.Headers {
				cp := append([]string(nil), vals...)
				if isSensitiveHeaderKey(k) {
					for i := range cp {
						cp[i] = maskValue
					}
				}
				c.Response.Headers[k] = cp
			}
		}
		out.Results = append(out.Results, c)
	}
	return out
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password")
}

func isSensitiveHeaderKey(k string) bool {
	kk := strings.ToLower(strings.TrimSpace(k))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	}
	return isSensitiveKey(kk) ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "apikey")
}

// slugify produces a safe filename component.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
