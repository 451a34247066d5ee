package toolkit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fyrsmithlabs/cectoolkit/internal/config"
	"github.com/fyrsmithlabs/cectoolkit/internal/events"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/redact"
	"github.com/fyrsmithlabs/cectoolkit/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phoneTicket = "Name: Jane Doe\nPhone: 555-123-4567\nEmail: jane@example.com\nAgency: USDA\nIssue: Password: hunter22 stopped working\n"

type captured struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *captured) Handle(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *captured) all() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}

func TestService_ProcessPhoneIssue_PublishesEvent(t *testing.T) {
	bus := events.NewBus(nil)
	rec := &captured{}
	require.NoError(t, bus.Subscribe("test", rec))

	svc := New(nil, WithBus(bus))
	ctx := logging.WithRequestID(context.Background(), "req-123")
	res := svc.ProcessPhoneIssue(ctx, phoneTicket)
	require.True(t, res.Success, res.Error)

	got := rec.all()
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "phone_issue", e.Kind)
	assert.True(t, e.Success)
	assert.Equal(t, len(patterns.PhoneFields), e.Fields)
	assert.Equal(t, 3, e.Missing, "location, troubleshooting steps, users affected")
	assert.Equal(t, "req-123", e.RequestID)
	assert.NotEmpty(t, e.ID)
}

func TestService_ProcessEscalation_FailureEvent(t *testing.T) {
	bus := events.NewBus(nil)
	rec := &captured{}
	require.NoError(t, bus.Subscribe("test", rec))

	svc := New(nil, WithBus(bus))
	res := svc.ProcessEscalation(context.Background(), "", "")
	assert.False(t, res.Success)

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, "escalation", got[0].Kind)
	assert.False(t, got[0].Success)
	assert.Equal(t, 2, got[0].Errors)
	assert.Zero(t, got[0].Fields)
}

func TestService_Redaction(t *testing.T) {
	svc := New(nil, WithRedactor(redact.MustNew(nil, nil)))

	res := svc.ProcessPhoneIssue(context.Background(), phoneTicket)
	require.True(t, res.Success)
	assert.Equal(t, "Password: [REDACTED] stopped working", res.ExtractedFields[patterns.FieldIssueDescription])
	assert.Equal(t, "jane@example.com", res.ExtractedFields[patterns.FieldEmail])
	assert.NotContains(t, res.FormattedText, "hunter22")
}

func TestService_Templates(t *testing.T) {
	tmpl := New(nil).Templates()
	assert.Len(t, tmpl.Phone, 9)
	assert.Len(t, tmpl.Escalation, 13)
	assert.Equal(t, "Name", tmpl.Phone[0])
	assert.Equal(t, "Reason for Escalation", tmpl.Escalation[12])
}

func TestService_Reload(t *testing.T) {
	svc := New(nil)
	before := svc.Table()

	def := patterns.DefaultDefinition()
	def.Placeholder = "N/A"
	require.NoError(t, svc.Reload(def))
	assert.NotSame(t, before, svc.Table())

	res := svc.ProcessPhoneIssue(context.Background(), "Agency: X")
	assert.Contains(t, res.FormattedText, "Name: N/A")

	bad := patterns.DefaultDefinition()
	bad.Templates.Phone = bad.Templates.Phone[:3]
	err := svc.Reload(bad)
	assert.ErrorIs(t, err, patterns.ErrTemplateMismatch)
	assert.Equal(t, "N/A", svc.Table().Strings().Placeholder, "failed reload keeps the current table")
}

func TestService_MaxInputLength(t *testing.T) {
	svc := New(nil, WithMaxInputLength(5))
	assert.Equal(t, 5, svc.MaxInputLength())
	res := svc.ProcessPhoneIssue(context.Background(), "Name: too long")
	assert.False(t, res.Success)
}

func TestService_Spans(t *testing.T) {
	tel := telemetry.NewTestTelemetry()
	svc := New(nil, WithTracer(tel.Tracer("test")))

	svc.ProcessEscalation(context.Background(), "Name: Smith, John", "Problem Details: spam calls")

	tel.AssertSpanExists(t, "toolkit.escalation")
	tel.AssertSpanAttribute(t, "toolkit.escalation", "ticket.kind", "escalation")
	tel.AssertSpanAttribute(t, "toolkit.escalation", "ticket.reason_code", "spam_calls")
	tel.AssertSpanAttribute(t, "toolkit.escalation", "ticket.success", true)
}

func TestDefinition(t *testing.T) {
	cfg := config.Default().Toolkit
	cfg.Placeholder = "Not given"

	def, err := Definition(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Not given", def.Placeholder)

	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("placeholder = \"From file\"\n"), 0o600))
	cfg.RulesFile = path

	def, err = Definition(cfg)
	require.NoError(t, err)
	assert.Equal(t, "From file", def.Placeholder)

	cfg.RulesFile = filepath.Join(t.TempDir(), "missing.toml")
	_, err = Definition(cfg)
	assert.Error(t, err)
}

func TestService_WatchRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("placeholder = \"one\"\n"), 0o600))

	cfg := config.Default().Toolkit
	svc := New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := svc.WatchRules(ctx, path, BaseDefinition(cfg))
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("placeholder = \"two\"\n"), 0o600))
	assert.Eventually(t, func() bool {
		return svc.Table().Strings().Placeholder == "two"
	}, 5*time.Second, 20*time.Millisecond)

	res := svc.ProcessPhoneIssue(context.Background(), "Agency: X")
	assert.True(t, strings.HasPrefix(res.FormattedText, "Name: two"))
}
