// Package logging wraps zap with context-aware methods.
//
// Every method takes a context and prepends trace_id, span_id, request.id and
// ticket.kind when present. Output goes to stdout or stderr and, when a
// provider is given, to the OpenTelemetry log bridge.
//
//	cfg, err := logging.FromSettings("info", "json")
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	defer logger.Sync()
//
//	ctx = logging.WithTicketKind(ctx, "escalation")
//	logger.Info(ctx, "ticket processed", zap.Int("fields.missing", 3))
//
// Raw ticket text must never be logged. As a backstop the core masks fields
// keyed raw_text, people_record, notes, email or phone (also as the last
// segment of a dotted key) along with credential keys and token patterns.
package logging
