package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_AssertLogged(t *testing.T) {
	tl := NewTestLogger()

	tl.Debug(context.Background(), "field not extracted", zap.String("field", "email"))

	tl.AssertLogged(t, zapcore.DebugLevel, "not extracted")
	assert.Len(t, tl.FilterMessage("field not extracted").All(), 1)
}

func TestTestLogger_AssertField(t *testing.T) {
	tl := NewTestLogger()

	tl.Info(context.Background(), "http request",
		zap.String("method", "POST"),
		zap.Int("status", 422),
		zap.Bool("success", false))

	tl.AssertField(t, "http request", "method", "POST")
	tl.AssertField(t, "http request", "status", 422)
	tl.AssertField(t, "http request", "success", false)
}

func TestTestLogger_AssertNotContains(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "ticket processed", zap.String("ticket.kind", "escalation"), zap.Int("lines", 13))

	tl.AssertNotContains(t, "Smith", "john.smith@agency.gov")

	rec := &recordingTB{TB: t}
	tl.AssertNotContains(rec, "escalation")
	assert.Equal(t, 1, rec.errors)
}

type recordingTB struct {
	testing.TB
	errors int
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) { r.errors++ }
