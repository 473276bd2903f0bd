package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Middleware runs every API request through trace injection, auth and the per-IP limiter.
type Middleware struct {
	authToken    string
	noAuthBypass bool
	limiter      *IPRateLimiter
}

func New(settings config.ServerSettings) *Middleware {
	m := &Middleware{
		authToken:    settings.AuthToken,
		noAuthBypass: settings.NoAuthBypass,
	}
	if settings.RateLimit {
		m.limiter = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
	}
	return m
}

func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		defer func() {
			metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc()
		}()

		re := m.processRequest(requestResponseStruct{req: r, writer: rec})
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)
	}
}

// Public skips authentication, for health and docs.
func (m *Middleware) Public(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		re := injectTrace(requestResponseStruct{req: r, writer: w, logger: logger_i.NewLogger("middleware")})
		next(w, re.req)
	}
}

func (m *Middleware) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received", "path", re.req.URL.Path)

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = m.authenticate(re)
	if re.badRequest.isBadRequest {
		return re
	}
	if m.limiter != nil {
		re = m.rateLimiter(re)
	}
	return re
}

// routePattern keeps the metric label cardinality bounded by using the chi route, not the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
