package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterOptions configures the middleware around the API routes.
type RouterOptions struct {
	Logger *slog.Logger

	// Registry receives the HTTP metrics and is served on /metrics. Nil disables both.
	Registry *prometheus.Registry

	// Idempotency backs the Idempotency-Key header. Nil ignores the header.
	Idempotency    ports.IdempotencyStore
	IdempotencyTTL time.Duration

	// ValidateRequests checks requests against the embedded OpenAPI document.
	ValidateRequests bool

	// VerifyRateLimit caps code verification requests per client IP and window. Zero disables it.
	VerifyRateLimit  int
	VerifyRateWindow time.Duration

	SSLRedirect bool
}

type requestValidator struct {
	validate *validator.Validate
}

func (v requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// NewRouter builds the echo instance serving the API, its documentation and metrics.
func NewRouter(ctx context.Context, server *Server, opts RouterOptions) (*echo.Echo, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	registerSwaggerDoc(docJSON)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if opts.Registry != nil {
		e.Use(NewMetrics(opts.Registry).Middleware)
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	e.Use(secureHeaders(opts.SSLRedirect))
	if opts.ValidateRequests {
		validate, validateErr := validateRequests(doc)
		if validateErr != nil {
			return nil, validateErr
		}
		e.Use(validate)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, docJSON)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	idempotency := idempotent(opts.Idempotency, opts.IdempotencyTTL)
	verify := []echo.MiddlewareFunc{requireActor}
	if opts.VerifyRateLimit > 0 {
		verify = []echo.MiddlewareFunc{throttleByIP(opts.VerifyRateLimit, opts.VerifyRateWindow), requireActor}
	}

	e.POST("/orders", server.CreateOrder, requireActor, idempotency)
	e.GET("/orders/:id", server.GetOrder, requireActor)
	e.PUT("/orders/:id/status", server.ChangeOrderStatus, requireActor)
	e.POST("/orders/:id/complete-pickup", server.CompletePickup, verify...)
	e.POST("/orders/:id/validate-delivery", server.ValidateDelivery, verify...)
	e.GET("/orders/:id/validation-code", server.GetValidationCode, requireActor)
	e.POST("/orders/:id/validation-code/reissue", server.ReissueValidationCode, requireActor)

	e.POST("/distributeurs/orders/assign", server.AssignDriver, requireActor)
	e.GET("/distributeurs/:id/orders/active", server.GetActiveOrders, requireActor)

	e.PATCH("/wallet/:id/wallettransaction", server.MoveWalletFunds, requireActor, idempotency)
	e.GET("/wallet/:id/balance", server.GetWalletBalance, requireActor)
	e.GET("/wallet/:id/transactions", server.GetWalletTransactions, requireActor)

	e.POST("/drivers", server.RegisterDriver)
	e.GET("/drivers/available", server.GetAvailableDrivers)

	return e, nil
}
