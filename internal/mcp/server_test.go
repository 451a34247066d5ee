package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/telemetry"
	"github.com/fyrsmithlabs/cectoolkit/internal/toolkit"
)

const (
	phoneTicket = "Name: Jane Doe\nPhone: 555-123-4567\nEmail: jane@example.com\nAgency: USDA\n"
	peopleBlock = "Name: Smith, John\nPhone: 555-0100\nEmail: john.smith@agency.gov\nSite: ABC12\n"
	notesBlock  = "Problem Details: needs admin privileges for Visio\n"
)

func newSession(t *testing.T, cfg *Config) *mcp.ClientSession {
	t.Helper()
	s, err := NewServer(cfg, toolkit.New(nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serverT, clientT := mcp.NewInMemoryTransports()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.RunTransport(ctx, serverT)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "cectoolkit-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)

	s, err := NewServer(nil, toolkit.New(nil))
	require.NoError(t, err)
	assert.NotNil(t, s.MCP())

	s, err = NewServer(&Config{}, toolkit.New(nil))
	require.NoError(t, err)
	assert.NotNil(t, s.logger)
}

func TestServer_ListTools(t *testing.T) {
	session := newSession(t, nil)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolProcessPhoneIssue, ToolProcessEscalation, ToolListTemplates}, names)
}

func TestTool_ProcessPhoneIssue(t *testing.T) {
	session := newSession(t, nil)

	res := callTool(t, session, ToolProcessPhoneIssue, map[string]any{"text": phoneTicket})
	require.False(t, res.IsError, text(t, res))

	lines := strings.Split(text(t, res), "\n")
	assert.Len(t, lines, len(patterns.PhoneFields))
	assert.Contains(t, lines, "Name: Jane Doe")

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content should decode to an object")
	assert.Equal(t, true, structured["success"])
	fields, ok := structured["extractedFields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", fields[patterns.FieldEmail])
}

func TestTool_ProcessPhoneIssue_EmptyText(t *testing.T) {
	session := newSession(t, nil)

	res := callTool(t, session, ToolProcessPhoneIssue, map[string]any{"text": "   "})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "empty")
}

func TestTool_ProcessEscalation(t *testing.T) {
	session := newSession(t, nil)

	res := callTool(t, session, ToolProcessEscalation, map[string]any{
		"people_record": peopleBlock,
		"notes":         notesBlock,
	})
	require.False(t, res.IsError, text(t, res))
	assert.Len(t, strings.Split(text(t, res), "\n"), len(patterns.EscalationFields))

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, patterns.ReasonCodeAdminPrivileges, structured["reasonCode"])
}

func TestTool_ProcessEscalation_ReportsBothBlocks(t *testing.T) {
	session := newSession(t, nil)

	res := callTool(t, session, ToolProcessEscalation, map[string]any{"people_record": "", "notes": ""})
	require.True(t, res.IsError)

	lines := strings.Split(text(t, res), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "people record: "))
	assert.True(t, strings.HasPrefix(lines[1], "notes: "))
}

func TestTool_ListTemplates(t *testing.T) {
	session := newSession(t, nil)

	res := callTool(t, session, ToolListTemplates, map[string]any{})
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), "Phone issue:")
	assert.Contains(t, text(t, res), "Escalation:")

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "User did not provide", structured["placeholder"])
}

func TestTool_RecordsMetrics(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	session := newSession(t, &Config{Meter: tt.Meter(instrumentationName)})

	callTool(t, session, ToolProcessPhoneIssue, map[string]any{"text": phoneTicket})
	callTool(t, session, ToolProcessPhoneIssue, map[string]any{"text": ""})

	names := tt.MetricNames(context.Background())
	assert.Contains(t, names, "cectoolkit.mcp.tool.invocations_total")
	assert.Contains(t, names, "cectoolkit.mcp.tool.errors_total")
}
