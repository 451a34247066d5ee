package main

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/cectoolkit/internal/config"
	"github.com/fyrsmithlabs/cectoolkit/internal/events"
	cechttp "github.com/fyrsmithlabs/cectoolkit/internal/http"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/telemetry"
	"github.com/fyrsmithlabs/cectoolkit/internal/toolkit"
)

const instrumentationName = "github.com/fyrsmithlabs/cectoolkit"

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the ticket API over HTTP until interrupted.

Endpoints:
  POST /api/v1/phone-issue   {"text": "..."}
  POST /api/v1/escalation    {"people_record": "...", "notes": "..."}
  GET  /api/v1/templates
  GET  /health
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
//
// Startup order:
//  1. Telemetry, then the logger so it can bridge to OTEL
//  2. Event bus with log, Prometheus and optional NATS subscribers
//  3. Toolkit service, plus a rule file watcher when enabled
//  4. HTTP server, shut down gracefully on cancellation
func runServe(ctx context.Context, cfg *config.Config) error {
	tel, err := telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()

	logger, err := newLogger(cfg, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Strings("reasons", h.Reasons))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bus, nc, err := newBus(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	if nc != nil {
		defer func() {
			_ = nc.Drain()
		}()
	}

	svc, err := newService(cfg, logger,
		toolkit.WithBus(bus),
		toolkit.WithTracer(tel.Tracer(instrumentationName)),
	)
	if err != nil {
		return err
	}

	if cfg.Toolkit.WatchRules && cfg.Toolkit.RulesFile != "" {
		w, err := svc.WatchRules(ctx, cfg.Toolkit.RulesFile, toolkit.BaseDefinition(cfg.Toolkit))
		if err != nil {
			return fmt.Errorf("failed to watch rule file: %w", err)
		}
		defer w.Stop()
		logger.Info(ctx, "watching rule file", zap.String("path", cfg.Toolkit.RulesFile))
	}

	srv, err := cechttp.NewServer(svc, logger, &cechttp.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		BodyLimit: cfg.Server.BodyLimit,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
		Gatherer:  reg,
		Meter:     tel.Meter(instrumentationName),
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	logger.Info(ctx, "starting cectoolkit",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr()),
		zap.Strings("event_subscribers", bus.Subscribers()),
		zap.Int("rules", len(svc.Table().RuleKeys("phone"))+len(svc.Table().RuleKeys("escalation"))))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info(context.Background(), "server shutdown complete")
	return nil
}

// newBus wires the event subscribers. The returned connection is nil when
// NATS publishing is disabled.
func newBus(ctx context.Context, cfg *config.Config, logger *logging.Logger, reg prometheus.Registerer) (*events.Bus, *nats.Conn, error) {
	bus := events.NewBus(logger)
	if err := bus.Subscribe("log", events.LogHandler(logger)); err != nil {
		return nil, nil, err
	}
	if err := bus.Subscribe("prometheus", events.NewMetrics(reg)); err != nil {
		return nil, nil, err
	}
	if cfg.Events.NATSURL == "" {
		return bus, nil, nil
	}

	nc, err := events.Connect(cfg.Events.NATSURL, cfg.Events.Token.Value())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	if err := bus.Subscribe("nats", events.NewNATSPublisher(nc, cfg.Events.Subject)); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info(ctx, "publishing ticket events to nats",
		zap.String("subject", cfg.Events.Subject),
		logging.Secret("token", cfg.Events.Token))
	return bus, nc, nil
}
