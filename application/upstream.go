package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lambda-feedback/appshim/event"
)

var ErrInvalidURL = errors.New("invalid application url")

// Upstream serves requests by forwarding them to the
// application's own HTTP server.
type Upstream struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
}

var _ Application = (*Upstream)(nil)

// NewUpstream creates an upstream application for the configured url.
func NewUpstream(cfg Config) (*Upstream, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	client := &http.Client{
		Transport: otelhttp.NewTransport(transport),
		// redirects are part of the application's response
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Upstream{
		base:    base,
		client:  client,
		timeout: cfg.Timeout,
	}, nil
}

// Addr returns the host:port the application listens on.
func (u *Upstream) Addr() string {
	if u.base.Port() != "" {
		return u.base.Host
	}

	if u.base.Scheme == "https" {
		return net.JoinHostPort(u.base.Hostname(), "443")
	}

	return net.JoinHostPort(u.base.Hostname(), "80")
}

// Serve forwards the request and returns the application's response
// as is, including 4xx and 5xx responses. Transport failures are
// returned as errors.
func (u *Upstream) Serve(ctx context.Context, req event.Request) (event.Response, error) {
	var res event.Response

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	r, err := req.HTTPRequest(ctx, u.base)
	if err != nil {
		return res, fmt.Errorf("failed to build application request: %w", err)
	}

	resp, err := u.client.Do(r)
	if err != nil {
		return res, fmt.Errorf("application request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("failed to read application response: %w", err)
	}

	return event.NewResponse(resp.StatusCode, resp.Header, body), nil
}
