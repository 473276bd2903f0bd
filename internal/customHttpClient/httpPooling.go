package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// New returns a client sharing one pooled transport across the embedder, generator and reranker.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(customTransport),
		Timeout:   timeout,
	}
}
