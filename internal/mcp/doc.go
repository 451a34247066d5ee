// Package mcp exposes the ticket processors as MCP tools.
//
// Tools:
//   - process_phone_issue: {text} to a formatted phone-issue ticket
//   - process_escalation: {people_record, notes} to a formatted escalation
//   - list_templates: the output labels of both ticket types
//
// Every tool returns the processing result as structured content and the
// formatted ticket (or the validation errors) as text content.
package mcp
