package http

import "github.com/fyrsmithlabs/cectoolkit/internal/toolkit"

// PhoneIssueRequest is the body of POST /api/v1/phone-issue. Text is left
// untyped so a non-string value is reported in the result like any other
// invalid input.
type PhoneIssueRequest struct {
	Text any `json:"text" validate:"required"`
}

// EscalationRequest is the body of POST /api/v1/escalation.
type EscalationRequest struct {
	PeopleRecord any `json:"people_record" validate:"required"`
	Notes        any `json:"notes" validate:"required"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// TemplatesResponse is the body of GET /api/v1/templates.
type TemplatesResponse struct {
	Templates      toolkit.Templates `json:"templates"`
	Placeholder    string            `json:"placeholder"`
	MaxInputLength int               `json:"max_input_length"`
}

// ErrorResponse is the body of a rejected request.
type ErrorResponse struct {
	Message string `json:"message"`
}
