package processor

import (
	"context"

	"github.com/fyrsmithlabs/cectoolkit/internal/extract"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/sanitize"
)

// Redactor masks sensitive extracted values before they are formatted.
type Redactor interface {
	Redact(ctx context.Context, field, value string) string
}

// Option configures a processor.
type Option func(*options)

type options struct {
	logger    *logging.Logger
	maxLen    int
	redactor  Redactor
	extractor *extract.Extractor
	sanitizer *sanitize.Sanitizer
}

// WithLogger sets the logger. Ticket text is never logged.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxInputLength sets the per-block character limit.
func WithMaxInputLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLen = n
		}
	}
}

// WithRedactor masks values between extraction and formatting.
func WithRedactor(r Redactor) Option {
	return func(o *options) { o.redactor = r }
}

func buildOptions(opts []Option) options {
	o := options{
		logger: logging.NewNop(),
		maxLen: sanitize.DefaultMaxInputLength,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.extractor = extract.New(o.logger)
	o.sanitizer = sanitize.New(o.maxLen)
	return o
}

// redact applies the configured Redactor to every non-empty value in place.
func (o options) redact(ctx context.Context, f Fields) {
	if o.redactor == nil {
		return
	}
	for k, v := range f {
		if v != "" {
			f[k] = o.redactor.Redact(ctx, k, v)
		}
	}
}
