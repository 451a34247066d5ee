package processor

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/cectoolkit/internal/format"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/sanitize"
	"go.uber.org/zap"
)

// KindPhoneIssue names phone-issue tickets in logs, metrics and events.
const KindPhoneIssue = "phone_issue"

// PhoneIssueProcessor extracts the fields of a phone-issue ticket.
// Safe for concurrent use.
type PhoneIssueProcessor struct {
	table *patterns.Table
	opts  options
}

// NewPhoneIssueProcessor returns a processor reading rules from table. A nil
// table means patterns.Default().
func NewPhoneIssueProcessor(table *patterns.Table, opts ...Option) *PhoneIssueProcessor {
	if table == nil {
		table = patterns.Default()
	}
	o := buildOptions(opts)
	o.logger = o.logger.Named("processor.phone")
	return &PhoneIssueProcessor{table: table, opts: o}
}

// Process validates raw, extracts every phone-issue field and formats them.
// raw is typically a string; any other type fails validation.
func (p *PhoneIssueProcessor) Process(ctx context.Context, raw any) (res Result) {
	ctx = logging.WithTicketKind(ctx, KindPhoneIssue)
	defer recoverUnexpected(ctx, p.opts.logger, &res)

	v := sanitize.ValidateAny(raw, p.opts.maxLen)
	if !v.Valid {
		p.opts.logger.Info(ctx, "ticket rejected", zap.Strings("errors", v.Errors))
		return validationFailure(v.Errors)
	}

	text := p.opts.sanitizer.Sanitize(raw.(string))
	fields := p.Extract(ctx, text)
	p.opts.redact(ctx, fields)
	logMissing(ctx, p.opts.logger, fields, patterns.PhoneFields)

	return Result{
		Success:         true,
		ExtractedFields: fields,
		FormattedText:   format.Lines(p.table.PhoneTemplate(), fields, p.table.Strings().Placeholder),
	}
}

// Extract applies the phone-issue rules to already sanitized text.
func (p *PhoneIssueProcessor) Extract(ctx context.Context, text string) Fields {
	e := p.opts.extractor
	rule := p.table.PhoneRule
	f := newFields(patterns.PhoneFields)

	f[patterns.FieldName] = e.Rule(ctx, rule(patterns.RuleName), text)
	if phones := e.RuleAll(ctx, rule(patterns.RulePhoneNumbers), text); len(phones) > 0 {
		f[patterns.FieldPhoneAffected] = phones[0]
	}
	f[patterns.FieldLocation] = e.Rule(ctx, rule(patterns.RuleLocation), text)
	f[patterns.FieldTroubleshootingPhone] = firstNonEmpty(
		e.Rule(ctx, rule(patterns.RuleTroubleshootingPhone), text),
		e.Rule(ctx, rule(patterns.RuleGenericPhone), text),
	)
	f[patterns.FieldEmail] = e.Rule(ctx, rule(patterns.RuleEmail), text)
	f[patterns.FieldAgency] = firstNonEmpty(
		e.Rule(ctx, rule(patterns.RuleAccountAgency), text),
		e.Rule(ctx, rule(patterns.RuleAgency), text),
	)
	f[patterns.FieldIssueDescription] = e.Rule(ctx, rule(patterns.RuleIssueDescription), text)
	f[patterns.FieldTroubleshootingSteps] = e.Rule(ctx, rule(patterns.RuleTroubleshootingSteps), text)
	f[patterns.FieldUsersAffected] = e.Rule(ctx, rule(patterns.RuleUsersAffected), text)

	return f
}

// recoverUnexpected turns a panic into the generic failure Result.
func recoverUnexpected(ctx context.Context, logger *logging.Logger, res *Result) {
	if r := recover(); r != nil {
		logger.Error(ctx, "ticket processing failed",
			zap.String("panic", fmt.Sprint(r)),
			zap.Stack("stack"))
		*res = unexpectedFailure()
	}
}

func logMissing(ctx context.Context, logger *logging.Logger, f Fields, keys []string) {
	if !logger.Enabled(zap.DebugLevel) {
		return
	}
	for _, k := range keys {
		if f[k] == "" {
			logger.Debug(ctx, "field not extracted", zap.String("field", k))
		}
	}
}
