// Package telemetry wires OpenTelemetry tracing and metrics for cectoolkit.
//
// Create it once at startup and shut it down on exit:
//
//	tel, err := telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	tracer := tel.Tracer("cectoolkit/toolkit")
//	meter := tel.Meter("cectoolkit/http")
//
// Exporters speak OTLP over gRPC or HTTP. When an exporter cannot be created
// the instance is marked degraded and falls back to the global no-op
// providers; telemetry never stops the toolkit from starting.
//
// Tests use NewTestTelemetry, which records spans and metrics in memory.
package telemetry
