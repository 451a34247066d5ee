// Package processor turns raw help-desk text into labeled ticket fields.
//
// Two processors share one compiled patterns.Table:
//
//   - PhoneIssueProcessor reads a single ticket block and renders 9 lines.
//   - EscalationProcessor reads a people record and a notes block and
//     renders 13 lines, inferring an escalation reason when none is stated.
//
// Every call validates, sanitizes, extracts, optionally redacts and formats.
// Any failure comes back as a Result with Success false; a field that cannot
// be extracted is rendered with the table's placeholder instead.
package processor
