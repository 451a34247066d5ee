package toolkit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fyrsmithlabs/cectoolkit/internal/events"
	"github.com/fyrsmithlabs/cectoolkit/internal/format"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/processor"
	"github.com/fyrsmithlabs/cectoolkit/internal/sanitize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/cectoolkit/internal/toolkit"

// Templates lists the output labels of each ticket type in order.
type Templates struct {
	Phone      []string `json:"phone_issue"`
	Escalation []string `json:"escalation"`
}

// engine is one consistent set of table and processors.
type engine struct {
	table      *patterns.Table
	phone      *processor.PhoneIssueProcessor
	escalation *processor.EscalationProcessor
}

// Service processes tickets. Safe for concurrent use.
type Service struct {
	engine atomic.Pointer[engine]

	logger   *logging.Logger
	bus      *events.Bus
	redactor processor.Redactor
	maxLen   int
	tracer   trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBus publishes a TicketProcessed event per call on bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithRedactor masks extracted values before formatting.
func WithRedactor(r processor.Redactor) Option {
	return func(s *Service) { s.redactor = r }
}

// WithMaxInputLength sets the per-block character limit.
func WithMaxInputLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLen = n
		}
	}
}

// WithTracer sets the tracer. The global provider is used otherwise.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New returns a Service using table. A nil table means patterns.Default().
func New(table *patterns.Table, opts ...Option) *Service {
	s := &Service{
		logger: logging.NewNop(),
		maxLen: sanitize.DefaultMaxInputLength,
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("toolkit")
	if table == nil {
		table = patterns.Default()
	}
	s.SetTable(table)
	return s
}

// SetTable swaps in table and processors built from it. Calls in flight
// finish on the table they started with.
func (s *Service) SetTable(table *patterns.Table) {
	popts := []processor.Option{
		processor.WithLogger(s.logger),
		processor.WithMaxInputLength(s.maxLen),
	}
	if s.redactor != nil {
		popts = append(popts, processor.WithRedactor(s.redactor))
	}
	s.engine.Store(&engine{
		table:      table,
		phone:      processor.NewPhoneIssueProcessor(table, popts...),
		escalation: processor.NewEscalationProcessor(table, popts...),
	})
}

// Reload compiles def and swaps it in. On error the current table stays.
func (s *Service) Reload(def patterns.Definition) error {
	table, err := patterns.Compile(def)
	if err != nil {
		return fmt.Errorf("reload rules: %w", err)
	}
	s.SetTable(table)
	s.logger.Info(context.Background(), "rules reloaded")
	return nil
}

// Table returns the table currently in use.
func (s *Service) Table() *patterns.Table {
	return s.engine.Load().table
}

// MaxInputLength returns the per-block character limit.
func (s *Service) MaxInputLength() int { return s.maxLen }

// Templates returns the output labels of both ticket types.
func (s *Service) Templates() Templates {
	t := s.Table()
	return Templates{
		Phone:      format.Labels(t.PhoneTemplate()),
		Escalation: format.Labels(t.EscalationTemplate()),
	}
}

// ProcessPhoneIssue extracts and formats a phone-issue ticket.
func (s *Service) ProcessPhoneIssue(ctx context.Context, raw any) processor.Result {
	eng := s.engine.Load()
	return s.run(ctx, processor.KindPhoneIssue, patterns.PhoneFields, func(ctx context.Context) processor.Result {
		return eng.phone.Process(ctx, raw)
	})
}

// ProcessEscalation extracts and formats an escalation ticket.
func (s *Service) ProcessEscalation(ctx context.Context, people, notes any) processor.Result {
	eng := s.engine.Load()
	return s.run(ctx, processor.KindEscalation, patterns.EscalationFields, func(ctx context.Context) processor.Result {
		return eng.escalation.Process(ctx, people, notes)
	})
}

func (s *Service) run(ctx context.Context, kind string, keys []string, fn func(context.Context) processor.Result) processor.Result {
	ctx = logging.WithTicketKind(ctx, kind)
	ctx, span := s.tracer.Start(ctx, "toolkit."+kind, trace.WithAttributes(attribute.String("ticket.kind", kind)))
	defer span.End()

	start := time.Now()
	res := fn(ctx)
	elapsed := time.Since(start)

	e := events.NewEvent(kind)
	e.Success = res.Success
	e.Duration = elapsed
	e.Errors = len(res.Errors)
	e.ReasonCode = res.ReasonCode
	e.RequestID = logging.RequestIDFromContext(ctx)
	if res.Success {
		e.Fields = len(keys)
		e.Missing = res.ExtractedFields.Missing(keys)
	}

	span.SetAttributes(
		attribute.Bool("ticket.success", res.Success),
		attribute.Int("ticket.missing_fields", e.Missing),
	)
	if res.ReasonCode != "" {
		span.SetAttributes(attribute.String("ticket.reason_code", res.ReasonCode))
	}
	if !res.Success {
		span.SetStatus(codes.Error, res.Error)
	}

	if s.bus != nil {
		if failed := s.bus.Publish(ctx, e); failed > 0 {
			s.logger.Debug(ctx, "event delivery incomplete", zap.Int("failed", failed))
		}
	}
	return res
}
