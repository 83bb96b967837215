package install

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

// Fetcher retrieves installer artifacts.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// ClientOptions configures the artifact download client.
type ClientOptions struct {
	Timeout time.Duration
	// RootCAs overrides the system trust store. Nil uses the system roots.
	RootCAs *x509.CertPool
}

// errInsecureScheme rejects plain HTTP artifact URLs and redirects.
var errInsecureScheme = errors.New("artifact URL must use https")

// NewHTTPClient builds the download client: HTTPS only, TLS 1.2 or newer,
// with gzip and zstd response bodies decoded transparently.
func NewHTTPClient(opts ClientOptions) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    opts.RootCAs,
		},
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: gzhttp.Transport(transport),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			if req.URL.Scheme != "https" {
				return fmt.Errorf("redirect to %s: %w", req.URL.Redacted(), errInsecureScheme)
			}
			return nil
		},
	}
}

// HTTPFetcher downloads artifacts into memory.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher wraps client, sending userAgent on every request.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = NewHTTPClient(ClientOptions{})
	}
	return &HTTPFetcher{client: client, userAgent: strings.TrimSpace(userAgent)}
}

// Fetch GETs rawURL and returns the full decoded body. Non-2xx responses
// return a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse artifact url: %w", err)
	}
	if parsed.Scheme != "https" {
		return nil, fmt.Errorf("%s: %w", parsed.Redacted(), errInsecureScheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact body: %w", err)
	}
	return body, nil
}
