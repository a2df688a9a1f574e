package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/unrolled/secure"
)

const (
	actorHeader          = "X-Actor-ID"
	idempotencyKeyHeader = "Idempotency-Key"
	actorContextKey      = "actor_id"
)

var errMissingActor = errs.NewValueIsRequiredError(actorHeader)

// requireActor parses the trusted actor header. Authentication happens upstream.
func requireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(actorHeader)
		if raw == "" {
			return errMissingActor
		}
		actorID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause(actorHeader, err)
		}
		c.Set(actorContextKey, actorID)
		return next(c)
	}
}

func actorFrom(c echo.Context) kernel.UUID {
	actorID, _ := c.Get(actorContextKey).(kernel.UUID)
	return actorID
}

// idempotent refuses a request whose Idempotency-Key was already seen for the
// same actor and route. A failed request frees its key so the client may retry.
func idempotent(store ports.IdempotencyStore, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(idempotencyKeyHeader)
			if key == "" || store == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			scoped := fmt.Sprintf("%s:%s:%s:%s", actorFrom(c), c.Request().Method, c.Request().URL.Path, key)
			reserved, err := store.Reserve(ctx, scoped, ttl)
			if err != nil {
				return err
			}
			if !reserved {
				return c.JSON(http.StatusConflict, errorResponse{
					Code:    CodeDuplicateRequest,
					Message: "request with this Idempotency-Key was already processed",
				})
			}

			err = next(c)
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				if releaseErr := store.Release(ctx, scoped); releaseErr != nil {
					return errors.Join(err, releaseErr)
				}
			}
			return err
		}
	}
}

// Metrics counts requests per route template and status.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fulfillment_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registerer.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}

// throttleByIP bounds code verification attempts from one address, on top of
// the per-order limit enforced by the command handlers.
func throttleByIP(requests int, window time.Duration) echo.MiddlewareFunc {
	limiter := httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":"` + CodeTooManyAttempts + `","message":"too many requests"}`))
		}),
	)
	return echo.WrapMiddleware(limiter)
}

func secureHeaders(sslRedirect bool) echo.MiddlewareFunc {
	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        sslRedirect,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})
	return echo.WrapMiddleware(s.Handler)
}
