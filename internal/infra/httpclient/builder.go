package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// BuildRequest turns a resolved unit test into an HTTP request.
func BuildRequest(ctx context.Context, test domain.UnitTest) (*http.Request, error) {
	if strings.TrimSpace(test.URL) == "" {
		return nil, invalid(domain.ErrInvalidRequest)
	}

	body, contentType, err := encodeBody(test.Body)
	if err != nil {
		return nil, invalid(err)
	}

	req, err := http.NewRequestWithContext(ctx, string(test.Method), test.URL, body)
	if err != nil {
		return nil, invalid(err)
	}

	for k, v := range test.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func encodeBody(b domain.BodySpec) (io.Reader, string, error) {
	switch b.Type {
	case domain.BodyNone, "":
		return http.NoBody, "", nil
	case domain.BodyJSON:
		if b.JSON == nil {
			return http.NoBody, "", nil
		}
		payload, err := json.Marshal(b.JSON)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), firstNonEmpty(b.ContentType, "application/json"), nil
	case domain.BodyForm:
		if b.Form == nil {
			return http.NoBody, "", nil
		}
		values := url.Values{}
		for k, v := range b.Form {
			values.Set(k, v)
		}
		return strings.NewReader(values.Encode()), firstNonEmpty(b.ContentType, "application/x-www-form-urlencoded"), nil
	case domain.BodyRaw:
		if strings.TrimSpace(b.Raw) == "" {
			return http.NoBody, "", nil
		}
		return strings.NewReader(b.Raw), b.ContentType, nil
	default:
		return nil, "", domain.ErrInvalidRequest
	}
}

// ApplyCookies adds the jar cookies whose domain and path match the
// request URL. Cookies already set on the request are kept.
func ApplyCookies(req *http.Request, cookies []domain.Cookie) {
	host := strings.ToLower(req.URL.Hostname())
	path := req.URL.Path
	if path == "" {
		path = "/"
	}

	for _, c := range cookies {
		if c.Name == "" || !domainMatches(host, c.Domain) || !pathMatches(path, c.Path) {
			continue
		}
		if _, err := req.Cookie(c.Name); err == nil {
			continue
		}
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

func domainMatches(host, cookieDomain string) bool {
	d := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cookieDomain), "."))
	if d == "" {
		return true
	}
	return host == d || strings.HasSuffix(host, "."+d)
}

func pathMatches(reqPath, cookiePath string) bool {
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if reqPath == cookiePath {
		return true
	}
	return strings.HasPrefix(reqPath, strings.TrimSuffix(cookiePath, "/")+"/")
}

func firstNonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func invalid(err error) error {
	return &domain.OpError{Op: "httpclient.build", Kind: domain.KindInvalidConfig, Err: err}
}
