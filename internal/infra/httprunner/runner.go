// Package httprunner executes a single unit test over HTTP.
package httprunner

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/httpclient"
	"github.com/aalvaropc/testdeck/internal/ports"
)

// DefaultMaxBodyBytes bounds the response body kept in a result.
const DefaultMaxBodyBytes = 256 << 10

// CookieSource returns the cookies to attach to outgoing requests.
type CookieSource func(ctx context.Context) ([]domain.Cookie, error)

// Runner sends unit tests through one shared client.
type Runner struct {
	client   *http.Client
	maxBody  int64
	resolver *domain.VarResolver
	cookies  CookieSource
	log      *slog.Logger
	since    func(time.Time) time.Duration
}

type Option func(*Runner)

func WithMaxBodyBytes(n int64) Option {
	return func(r *Runner) { r.maxBody = n }
}

func WithResolver(vr *domain.VarResolver) Option {
	return func(r *Runner) { r.resolver = vr }
}

// WithCookieSource attaches the workspace cookie jar to every request.
func WithCookieSource(src CookieSource) Option {
	return func(r *Runner) { r.cookies = src }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func New(client *http.Client, opts ...Option) *Runner {
	r := &Runner{
		client:   client,
		maxBody:  DefaultMaxBodyBytes,
		resolver: domain.NewVarResolver(),
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		since:    time.Since,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.RequestRunner = (*Runner)(nil)

// Run resolves placeholders, sends the request and snapshots the response.
// Config problems (missing vars, bad URL, unreadable cookie jar) are
// returned as errors; transport failures land in the result's Error field.
func (r *Runner) Run(ctx context.Context, test domain.UnitTest, vars domain.Vars) (domain.TestCaseResult, error) {
	req, resolved, err := r.prepare(ctx, test, vars)
	if err != nil {
		return domain.TestCaseResult{}, err
	}

	result := domain.TestCaseResult{
		Name:       resolved.Name,
		Method:     resolved.Method,
		URL:        resolved.URL,
		Extracted:  domain.Vars{},
		Extracts:   []domain.ExtractResult{},
		Assertions: []domain.AssertionResult{},
		Response:   domain.ResponseSnapshot{Headers: map[string][]string{}},
	}
	r.send(req, &result)

	if result.Error != nil {
		r.log.Debug("request.failed", "test", result.Name, "url", result.URL,
			"kind", string(result.Error.Kind), "latency_ms", result.LatencyMS)
	} else {
		r.log.Debug("request.done", "test", result.Name, "url", result.URL,
			"status", result.StatusCode, "latency_ms", result.LatencyMS, "truncated", result.Response.Truncated)
	}
	return result, nil
}

func (r *Runner) prepare(ctx context.Context, test domain.UnitTest, vars domain.Vars) (*http.Request, domain.UnitTest, error) {
	resolved, err := r.resolver.NewRuntime(vars).ResolveTest(test)
	if err != nil {
		return nil, domain.UnitTest{}, err
	}

	req, err := httpclient.BuildRequest(ctx, resolved)
	if err != nil {
		return nil, domain.UnitTest{}, err
	}

	if r.cookies != nil {
		jar, err := r.cookies(ctx)
		if err != nil {
			return nil, domain.UnitTest{}, err
		}
		httpclient.ApplyCookies(req, jar)
	}
	return req, resolved, nil
}

// send fills status, latency and the bounded response into result.
func (r *Runner) send(req *http.Request, result *domain.TestCaseResult) {
	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		result.LatencyMS = r.since(start).Milliseconds()
		result.Error = domain.NewRunError(err)
		return
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Response.Headers = snapshotHeaders(resp.Header)

	body, truncated, err := readBounded(resp.Body, r.maxBody)
	result.LatencyMS = r.since(start).Milliseconds()
	if err != nil {
		result.Error = domain.NewRunError(err)
		return
	}
	result.Response.Body = body
	result.Response.Truncated = truncated
}

// readBounded reads at most limit bytes and reports whether more followed.
func readBounded(r io.Reader, limit int64) ([]byte, bool, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) <= limit {
		return b, false, nil
	}
	return b[:limit], true, nil
}

func snapshotHeaders(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		out[k] = append([]string(nil), v...)
	}
	return out
}
