// Package http serves the toolkit over a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/processor"
	"github.com/fyrsmithlabs/cectoolkit/internal/toolkit"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server provides the HTTP endpoints.
type Server struct {
	echo   *echo.Echo
	svc    *toolkit.Service
	logger *logging.Logger
	config *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host      string
	Port      int
	BodyLimit string  // e.g. "1M"; empty disables
	RateLimit float64 // requests per second per client; 0 disables
	RateBurst int

	// Gatherer backs GET /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	// Meter records request metrics. Nil uses the global provider.
	Meter metric.Meter
}

// NewServer creates a server for svc.
func NewServer(svc *toolkit.Service, logger *logging.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, errors.New("toolkit service cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "127.0.0.1", Port: 9393}
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{echo: e, svc: svc, logger: logger.Named("http"), config: cfg}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestContext)
	e.Use(s.requestLog)
	e.Use(NewHTTPMetrics(cfg.Meter, s.logger.Underlying()).MetricsMiddleware())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			},
		)))
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/phone-issue", s.handlePhoneIssue)
	v1.POST("/escalation", s.handleEscalation)
	v1.GET("/templates", s.handleTemplates)
}

// requestContext carries the request ID into the request context for logs
// and events.
func (s *Server) requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		req := c.Request()
		c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		return next(c)
	}
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.logger.Info(c.Request().Context(), "http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handlePhoneIssue(c echo.Context) error {
	var req PhoneIssueRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	return s.respond(c, s.svc.ProcessPhoneIssue(c.Request().Context(), req.Text))
}

func (s *Server) handleEscalation(c echo.Context) error {
	var req EscalationRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	return s.respond(c, s.svc.ProcessEscalation(c.Request().Context(), req.PeopleRecord, req.Notes))
}

func (s *Server) handleTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, TemplatesResponse{
		Templates:      s.svc.Templates(),
		Placeholder:    s.svc.Table().Strings().Placeholder,
		MaxInputLength: s.svc.MaxInputLength(),
	})
}

func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid request body", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

// respond writes res with 200 on success and 422 otherwise.
func (s *Server) respond(c echo.Context, res processor.Result) error {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, res)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
