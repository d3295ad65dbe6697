// Package httpclient builds the shared outbound HTTP client used by
// provider adapters.
package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/aiwonderland/imagecode/internal/infra/config"
	"github.com/aiwonderland/imagecode/internal/utils/requestctx"
)

// RequestIDHeader is forwarded to upstream services for correlation.
const RequestIDHeader = "X-Request-ID"

// New creates an HTTP client with pooled connections. Zero values in cfg
// fall back to conservative defaults.
func New(cfg config.HTTPClientConfig) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   orDefault(cfg.DialTimeout, 30*time.Second),
			KeepAlive: orDefault(cfg.KeepAlive, 30*time.Second),
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     orDefault(cfg.IdleConnTimeout, 90*time.Second),
		TLSHandshakeTimeout: orDefault(cfg.TLSHandshakeTimeout, 10*time.Second),
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: &requestIDTransport{next: transport},
		Timeout:   cfg.ResponseTimeout,
	}
}

// requestIDTransport copies the request ID from the context onto
// outgoing requests that do not already carry one.
type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := requestctx.RequestID(req.Context())
	if id == "" || req.Header.Get(RequestIDHeader) != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set(RequestIDHeader, id)
	return t.next.RoundTrip(clone)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
