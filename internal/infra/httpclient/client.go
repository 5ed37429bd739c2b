// Package httpclient builds the HTTP client and requests used to run tests.
package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/aalvaropc/testdeck/internal/buildinfo"
)

// DefaultMaxRedirects caps followed redirects; the last response is returned.
const DefaultMaxRedirects = 5

// Config tunes the client shared by every test of a run. RequestTimeout
// bounds a whole request including the body read; a shorter context
// deadline still wins.
type Config struct {
	RequestTimeout time.Duration
	MaxRedirects   int

	// UserAgent is set on requests that do not carry one.
	UserAgent string

	Dial        time.Duration
	KeepAlive   time.Duration
	TLS         time.Duration
	FirstByte   time.Duration
	IdleTimeout time.Duration
	IdlePerHost int
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout: 20 * time.Second,
		MaxRedirects:   DefaultMaxRedirects,
		UserAgent:      "testdeck/" + buildinfo.Version,
		Dial:           5 * time.Second,
		KeepAlive:      30 * time.Second,
		TLS:            5 * time.Second,
		FirstByte:      10 * time.Second,
		IdleTimeout:    90 * time.Second,
		IdlePerHost:    20,
	}
}

// New builds a client without a cookie jar; cookies come from the
// workspace jar instead.
func New(cfg Config) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.Dial, KeepAlive: cfg.KeepAlive}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   cfg.IdlePerHost,
		IdleConnTimeout:       cfg.IdleTimeout,
		TLSHandshakeTimeout:   cfg.TLS,
		ResponseHeaderTimeout: cfg.FirstByte,
		ExpectContinueTimeout: time.Second,
	}
	if cfg.UserAgent != "" {
		rt = userAgent{next: rt, value: cfg.UserAgent}
	}

	limit := cfg.MaxRedirects
	return &http.Client{
		Transport: rt,
		Timeout:   cfg.RequestTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > limit {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

type userAgent struct {
	next  http.RoundTripper
	value string
}

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", u.value)
	return u.next.RoundTrip(r)
}
