package httprunner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/httpclient"
)

func TestRunner_TruncatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Test", "1")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Repeat("a", 300*1024)))
	}))
	defer srv.Close()

	r := New(httpclient.New(httpclient.DefaultConfig()))

	test := domain.UnitTest{
		Name:    "big",
		Method:  domain.MethodGet,
		URL:     srv.URL,
		Headers: domain.Headers{"Accept": "text/plain"},
	}

	res, err := r.Run(context.Background(), test, domain.Vars{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Error != nil {
		t.Fatalf("expected no run error, got: %+v", res.Error)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got=%d", res.StatusCode)
	}
	if !res.Response.Truncated {
		t.Fatalf("expected truncated=true")
	}
	if len(res.Response.Body) != DefaultMaxBodyBytes {
		t.Fatalf("expected body len=%d, got=%d", DefaultMaxBodyBytes, len(res.Response.Body))
	}
	if res.Response.Headers["X-Test"][0] != "1" {
		t.Fatalf("expected header X-Test=1")
	}
}

func TestRunner_ClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := httpclient.DefaultConfig()
	cfg.RequestTimeout = 50 * time.Millisecond
	r := New(httpclient.New(cfg))

	res, err := r.Run(context.Background(), domain.UnitTest{Name: "slow", Method: domain.MethodGet, URL: srv.URL}, domain.Vars{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Error == nil {
		t.Fatalf("expected a run error")
	}
	if res.Error.Kind != domain.RunErrorTimeout {
		t.Fatalf("expected timeout kind, got=%s (msg=%s)", res.Error.Kind, res.Error.Message)
	}
}

func TestRunner_ResolvesVarsAndSendsCookies(t *testing.T) {
	var gotPath, gotCookie, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if c, err := r.Cookie("sid"); err == nil {
			gotCookie = c.Value
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r := New(httpclient.New(httpclient.DefaultConfig()), WithCookieSource(func(context.Context) ([]domain.Cookie, error) {
		return []domain.Cookie{{Domain: "127.0.0.1", Path: "/", Name: "sid", Value: "s3"}}, nil
	}))

	test := domain.UnitTest{
		Name:    "users",
		Method:  domain.MethodGet,
		URL:     "{{baseUrl}}/users/{{id}}",
		Headers: domain.Headers{"Authorization": "Bearer {{token}}"},
	}
	vars := domain.Vars{"baseUrl": srv.URL, "id": "42", "token": "t0k"}

	res, err := r.Run(context.Background(), test, vars)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got=%d", res.StatusCode)
	}
	if gotPath != "/users/42" || gotAuth != "Bearer t0k" || gotCookie != "s3" {
		t.Fatalf("unexpected request: path=%s auth=%s cookie=%s", gotPath, gotAuth, gotCookie)
	}
	if res.URL != srv.URL+"/users/42" {
		t.Fatalf("expected resolved url in result, got=%s", res.URL)
	}
}

func TestRunner_MissingVarIsConfigError(t *testing.T) {
	r := New(httpclient.New(httpclient.DefaultConfig()))

	_, err := r.Run(context.Background(), domain.UnitTest{Method: domain.MethodGet, URL: "{{baseUrl}}/x"}, domain.Vars{})
	if !domain.IsKind(err, domain.KindMissingVar) {
		t.Fatalf("expected missing variable, got %v", err)
	}
	if !errors.Is(err, domain.ErrMissingVar) {
		t.Fatalf("expected ErrMissingVar in chain, got %v", err)
	}
}

func TestRunner_CookieSourceError(t *testing.T) {
	boom := errors.New("jar unreadable")
	r := New(httpclient.New(httpclient.DefaultConfig()), WithCookieSource(func(context.Context) ([]domain.Cookie, error) {
		return nil, boom
	}))

	_, err := r.Run(context.Background(), domain.UnitTest{Method: domain.MethodGet, URL: "http://127.0.0.1:1/"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected cookie source error, got %v", err)
	}
}

func TestRunner_SmallLimitAndLatency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	r := New(httpclient.New(httpclient.DefaultConfig()), WithMaxBodyBytes(4))
	r.since = func(time.Time) time.Duration { return 42 * time.Millisecond }

	res, err := r.Run(context.Background(), domain.UnitTest{Name: "short", Method: domain.MethodGet, URL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if string(res.Response.Body) != "0123" || !res.Response.Truncated {
		t.Fatalf("expected truncated body 0123, got=%q truncated=%v", res.Response.Body, res.Response.Truncated)
	}
	if res.LatencyMS != 42 {
		t.Fatalf("expected latency 42ms, got=%d", res.LatencyMS)
	}
}

func TestReadBounded_ExactLimitIsNotTruncated(t *testing.T) {
	b, truncated, err := readBounded(strings.NewReader("abcd"), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "abcd" || truncated {
		t.Fatalf("got=%q truncated=%v", b, truncated)
	}
}
