package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/carbonjar/lms/internal/metrics"
)

const (
	acceptHeader   = "application/pdf,application/octet-stream;q=0.9,*/*;q=0.8"
	maxRedirects   = 5
	defaultTimeout = 10 * time.Second
)

// Gateway fetches assets from allow-listed HTTPS hosts.
type Gateway struct {
	client       *http.Client
	allowedHosts []string
	timeout      time.Duration
}

type GatewayOption func(*Gateway)

// WithHTTPClient replaces the outbound client. Its redirect policy is
// overridden so redirects stay inside the allow-list.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) {
		cp := *c
		g.client = &cp
	}
}

func NewGateway(allowedHosts []string, timeout time.Duration, opts ...GatewayOption) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	g := &Gateway{
		client:       &http.Client{},
		allowedHosts: allowedHosts,
		timeout:      timeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.client.CheckRedirect = g.checkRedirect
	return g
}

// Upstream is an open 2xx response. Close releases the body and the fetch
// deadline.
type Upstream struct {
	Header http.Header
	Body   io.ReadCloser
	cancel context.CancelFunc
}

func (u *Upstream) Close() error {
	err := u.Body.Close()
	u.cancel()
	return err
}

// ValidateTarget parses raw and accepts it only for https on an allowed host.
func (g *Gateway) ValidateTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, ErrRejectedScheme)
	}
	if u.User != nil || !hostAllowed(g.allowedHosts, u.Hostname()) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, ErrRejectedHost)
	}
	return u, nil
}

func (g *Gateway) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d redirects", ErrUpstreamFetch, maxRedirects)
	}
	_, err := g.ValidateTarget(req.URL.String())
	return err
}

// Open starts fetching rawURL. The fetch is bounded by the gateway timeout
// and by ctx, so an aborted client request aborts the upstream call.
func (g *Gateway) Open(ctx context.Context, rawURL string) (*Upstream, error) {
	target, err := g.ValidateTarget(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.AssetProxyUpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		cancel()
		switch {
		case errors.Is(err, ErrInvalidTarget):
			return nil, err
		case isTimeout(ctx, err):
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, &UpstreamStatusError{Status: resp.StatusCode}
	}

	return &Upstream{Header: resp.Header, Body: resp.Body, cancel: cancel}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
