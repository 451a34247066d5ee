package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/cectoolkit/internal/processor"
	"github.com/fyrsmithlabs/cectoolkit/internal/toolkit"
)

// Tool names.
const (
	ToolProcessPhoneIssue = "process_phone_issue"
	ToolProcessEscalation = "process_escalation"
	ToolListTemplates     = "list_templates"
)

type phoneIssueInput struct {
	Text string `json:"text" jsonschema:"Raw phone-issue ticket text pasted from the CRM"`
}

type escalationInput struct {
	PeopleRecord string `json:"people_record" jsonschema:"People record block for the affected user"`
	Notes        string `json:"notes" jsonschema:"Agent notes block from the call"`
}

type listTemplatesInput struct{}

type listTemplatesOutput struct {
	Templates      toolkit.Templates `json:"templates" jsonschema:"Output labels per ticket type, in order"`
	Placeholder    string            `json:"placeholder" jsonschema:"Value written for fields that could not be extracted"`
	MaxInputLength int               `json:"max_input_length" jsonschema:"Maximum input length in characters"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolProcessPhoneIssue,
		Description: "Extract caller details from a phone-issue ticket and format them for the ticketing system",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args phoneIssueInput) (*mcp.CallToolResult, processor.Result, error) {
		return s.process(ctx, ToolProcessPhoneIssue, func(ctx context.Context) processor.Result {
			return s.svc.ProcessPhoneIssue(ctx, args.Text)
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolProcessEscalation,
		Description: "Combine a people record and agent notes into a formatted escalation ticket with an inferred escalation reason",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args escalationInput) (*mcp.CallToolResult, processor.Result, error) {
		return s.process(ctx, ToolProcessEscalation, func(ctx context.Context) processor.Result {
			return s.svc.ProcessEscalation(ctx, args.PeopleRecord, args.Notes)
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolListTemplates,
		Description: "List the output labels of the phone-issue and escalation templates",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ listTemplatesInput) (*mcp.CallToolResult, listTemplatesOutput, error) {
		out := listTemplatesOutput{
			Templates:      s.svc.Templates(),
			Placeholder:    s.svc.Table().Strings().Placeholder,
			MaxInputLength: s.svc.MaxInputLength(),
		}
		text := "Phone issue:\n  " + strings.Join(out.Templates.Phone, "\n  ") +
			"\nEscalation:\n  " + strings.Join(out.Templates.Escalation, "\n  ")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, out, nil
	})
}

// process runs fn with metrics and maps the result onto a tool result. A
// failed ticket is a tool error carrying the validation messages.
func (s *Server) process(ctx context.Context, tool string, fn func(context.Context) processor.Result) (*mcp.CallToolResult, processor.Result, error) {
	start := time.Now()
	s.metrics.IncrementActive(ctx, tool)

	res := fn(ctx)

	s.metrics.DecrementActive(ctx, tool)
	s.metrics.RecordInvocation(ctx, tool, time.Since(start), res)

	if !res.Success {
		msg := res.Error
		if len(res.Errors) > 0 {
			msg = strings.Join(res.Errors, "\n")
		}
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		}, res, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.FormattedText}},
	}, res, nil
}
