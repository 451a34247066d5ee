package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/cectoolkit/internal/events"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/processor"
	"github.com/fyrsmithlabs/cectoolkit/internal/toolkit"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const (
	phoneTicket = "Name: Jane Doe\nPhone: 555-123-4567\nEmail: jane@example.com\nAgency: USDA\n"
	peopleBlock = "Name: Smith, John\nPhone: 555-0100\nEmail: john.smith@agency.gov\nSite: ABC12\n"
	notesBlock  = "Problem Details: needs admin privileges for Visio\n"
)

func newTestServer(t *testing.T, cfg *Config, opts ...toolkit.Option) (*Server, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger()
	if cfg == nil {
		cfg = &Config{Host: "127.0.0.1", Port: 9393, BodyLimit: "1M"}
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.NewRegistry()
	}
	svc := toolkit.New(nil, append([]toolkit.Option{toolkit.WithLogger(tl.Logger)}, opts...)...)
	s, err := NewServer(svc, tl.Logger, cfg)
	require.NoError(t, err)
	return s, tl
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) processor.Result {
	t.Helper()
	var res processor.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}

func assertStatusLogged(t *testing.T, tl *logging.TestLogger, status int) {
	t.Helper()
	entries := tl.FilterMessage("http request").All()
	require.NotEmpty(t, entries)
	for _, f := range entries[len(entries)-1].Context {
		if f.Key == "status" {
			assert.Equal(t, int64(status), f.Integer)
			return
		}
	}
	t.Errorf("status field not logged")
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, logging.NewNop(), nil)
	assert.Error(t, err)

	_, err = NewServer(toolkit.New(nil), nil, nil)
	assert.Error(t, err)

	s, err := NewServer(toolkit.New(nil), logging.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, 9393, s.config.Port)
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_PhoneIssue(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/phone-issue", jsonBody(t, map[string]any{"text": phoneTicket}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeResult(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "Jane Doe", res.ExtractedFields[patterns.FieldName])
	assert.Equal(t, "USDA", res.ExtractedFields[patterns.FieldAgency])
	assert.Len(t, strings.Split(res.FormattedText, "\n"), len(patterns.PhoneFields))
}

func TestServer_PhoneIssue_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"empty text", `{"text":""}`, http.StatusUnprocessableEntity, "empty"},
		{"non-string text", `{"text":42}`, http.StatusUnprocessableEntity, "input must be a string"},
		{"missing text", `{}`, http.StatusBadRequest, "text is required"},
		{"null text", `{"text":null}`, http.StatusBadRequest, "text is required"},
		{"malformed json", `{"text":`, http.StatusBadRequest, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil)
			rec := do(t, s, http.MethodPost, "/api/v1/phone-issue", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)

			if tt.wantStatus == http.StatusUnprocessableEntity {
				res := decodeResult(t, rec)
				assert.False(t, res.Success)
				assert.NotEmpty(t, res.Errors)
				assert.Empty(t, res.FormattedText)
			}
		})
	}
}

func TestServer_Escalation(t *testing.T) {
	s, _ := newTestServer(t, nil)

	body := jsonBody(t, map[string]any{"people_record": peopleBlock, "notes": notesBlock})
	rec := do(t, s, http.MethodPost, "/api/v1/escalation", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeResult(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "John Smith", res.ExtractedFields[patterns.FieldName])
	assert.Equal(t, patterns.ReasonCodeAdminPrivileges, res.ReasonCode)
	assert.Len(t, strings.Split(res.FormattedText, "\n"), len(patterns.EscalationFields))
}

func TestServer_Escalation_ReportsBothBlocks(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/escalation", `{"people_record":"","notes":7}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	res := decodeResult(t, rec)
	require.Len(t, res.Errors, 2)
	assert.True(t, strings.HasPrefix(res.Errors[0], processor.PeopleRecordPrefix))
	assert.True(t, strings.HasPrefix(res.Errors[1], processor.NotesPrefix))
}

func TestServer_Templates(t *testing.T) {
	s, _ := newTestServer(t, nil, toolkit.WithMaxInputLength(1234))

	rec := do(t, s, http.MethodGet, "/api/v1/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TemplatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Templates.Phone, len(patterns.PhoneFields))
	assert.Len(t, resp.Templates.Escalation, len(patterns.EscalationFields))
	assert.Equal(t, "User did not provide", resp.Placeholder)
	assert.Equal(t, 1234, resp.MaxInputLength)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	bus := events.NewBus(nil)
	require.NoError(t, bus.Subscribe("metrics", events.NewMetrics(reg)))

	s, _ := newTestServer(t, &Config{Host: "127.0.0.1", Port: 9393, Gatherer: reg}, toolkit.WithBus(bus))

	rec := do(t, s, http.MethodPost, "/api/v1/phone-issue", jsonBody(t, map[string]any{"text": phoneTicket}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cectoolkit_tickets_processed_total{kind="phone_issue",result="success"} 1`)
}

func TestServer_RequestID(t *testing.T) {
	s, tl := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "client-req-1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "client-req-1", rec.Header().Get(echo.HeaderXRequestID))
	tl.AssertLogged(t, zapcore.InfoLevel, "http request")
	tl.AssertField(t, "http request", "request.id", "client-req-1")
	assertStatusLogged(t, tl, http.StatusOK)
}

func TestServer_RequestLogRecordsErrorStatus(t *testing.T) {
	s, tl := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/phone-issue", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assertStatusLogged(t, tl, http.StatusBadRequest)
}

func TestServer_NeverLogsTicketText(t *testing.T) {
	s, tl := newTestServer(t, nil)

	do(t, s, http.MethodPost, "/api/v1/phone-issue", jsonBody(t, map[string]any{"text": phoneTicket}))
	tl.AssertNotContains(t, "jane@example.com", "Jane Doe")
}

func TestServer_BodyLimit(t *testing.T) {
	s, _ := newTestServer(t, &Config{Host: "127.0.0.1", Port: 9393, BodyLimit: "1K"})

	big := jsonBody(t, map[string]any{"text": strings.Repeat("a", 4096)})
	rec := do(t, s, http.MethodPost, "/api/v1/phone-issue", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_RateLimit(t *testing.T) {
	s, _ := newTestServer(t, &Config{Host: "127.0.0.1", Port: 9393, RateLimit: 1, RateBurst: 2})

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, do(t, s, http.MethodGet, "/health", "").Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Contains(t, codes[2:], http.StatusTooManyRequests)
}
