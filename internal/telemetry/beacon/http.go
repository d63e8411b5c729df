package beacon

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"shopping-fpti/internal/telemetry/domain"
)

// maxDrain bounds how much of the collector response is read before the connection is reused.
const maxDrain = 4 << 10

// Option configures an HTTPSender.
type Option func(*HTTPSender)

// WithClient sets the http.Client used for beacons.
func WithClient(c *http.Client) Option { return func(s *HTTPSender) { s.client = c } }

// WithUserAgent sets the User-Agent header on beacon requests.
func WithUserAgent(ua string) Option { return func(s *HTTPSender) { s.userAgent = ua } }

// HTTPSender fires the beacon as a GET with the payload in the query string, like a tracking pixel.
// The response is drained and ignored; only transport errors are reported.
type HTTPSender struct {
	client    *http.Client
	userAgent string
}

// NewHTTPSender returns an HTTPSender with a pooled client bounded by timeout (10s when zero).
func NewHTTPSender(timeout time.Duration, opts ...Option) *HTTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &HTTPSender{client: NewHTTPClient(timeout)}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *HTTPSender) Send(ctx context.Context, b *domain.Beacon) error {
	if b == nil {
		return nil
	}
	target, err := b.URL()
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.CopyN(io.Discard, resp.Body, maxDrain)
	return nil
}

// NewHTTPClient returns a client with short dial and TLS timeouts suited to fire-and-forget calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}
