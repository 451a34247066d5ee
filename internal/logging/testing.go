package logging

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger records every entry from debug up for assertions.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger returns a TestLogger. Nothing is redacted, so assertions see
// exactly what the code under test passed.
func NewTestLogger() *TestLogger {
	core, observed := observer.New(zapcore.DebugLevel)
	return &TestLogger{Logger: &Logger{zap: zap.New(core)}, observed: observed}
}

// All returns every recorded entry.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// FilterMessage returns entries whose message equals msg.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.observed.FilterMessage(msg)
}

// AssertLogged fails tb unless an entry at level has a message containing msgContains.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			return
		}
	}
	tb.Errorf("expected log at %v containing %q, logs: %+v", level, msgContains, t.observed.All())
}

// AssertField fails tb unless an entry with message msg carries key=expected.
// Strings, integers and booleans are compared by value.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, expected any) {
	tb.Helper()
	want := fmt.Sprint(expected)
	for _, entry := range t.observed.FilterMessage(msg).All() {
		if v, ok := entry.ContextMap()[key]; ok && fmt.Sprint(v) == want {
			return
		}
	}
	tb.Errorf("field %q=%v not found in message %q", key, expected, msg)
}

// AssertNotContains fails tb if any message or field value contains one of
// values. Use it to prove ticket text stays out of the logs.
func (t *TestLogger) AssertNotContains(tb testing.TB, values ...string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		for _, v := range values {
			if strings.Contains(entry.Message, v) {
				tb.Errorf("message %q contains %q", entry.Message, v)
			}
			for key, fv := range entry.ContextMap() {
				if strings.Contains(fmt.Sprint(fv), v) {
					tb.Errorf("field %q of %q contains %q", key, entry.Message, v)
				}
			}
		}
	}
}
