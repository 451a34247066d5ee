package logging

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/cectoolkit/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxPatternLen = 256

// Secret returns a field that logs only the length of a configured secret.
func Secret(key string, val config.Secret) zap.Field {
	return zap.String(key, masked(val.Value()))
}

func masked(s string) string {
	return "[REDACTED:" + strconv.Itoa(utf8.RuneCountInString(s)) + "]"
}

// fieldScrubber rewrites fields whose key names ticket content or a
// credential, and masks value substrings matching any pattern.
type fieldScrubber struct {
	keys     map[string]struct{}
	patterns []*regexp.Regexp
}

func newFieldScrubber(cfg RedactionConfig) (*fieldScrubber, error) {
	s := &fieldScrubber{keys: make(map[string]struct{}, len(cfg.Fields))}
	for _, k := range cfg.Fields {
		s.keys[strings.ToLower(k)] = struct{}{}
	}
	for _, p := range cfg.Patterns {
		if len(p) > maxPatternLen {
			return nil, fmt.Errorf("redaction pattern too long (max %d chars): %q", maxPatternLen, p)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}

// sensitiveKey matches the whole key or its last dotted segment, so both
// "email" and "ticket.email" are caught.
func (s *fieldScrubber) sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if _, ok := s.keys[key]; ok {
		return true
	}
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		_, ok := s.keys[key[i+1:]]
		return ok
	}
	return false
}

func (s *fieldScrubber) scrub(f zapcore.Field) zapcore.Field {
	switch {
	case f.Type == zapcore.NamespaceType, f.Type == zapcore.SkipType:
		return f
	case f.Type == zapcore.StringType && strings.HasPrefix(f.String, "[REDACTED"):
		return f
	}
	if s.sensitiveKey(f.Key) {
		switch f.Type {
		case zapcore.StringType:
			return zap.String(f.Key, masked(f.String))
		case zapcore.ByteStringType, zapcore.BinaryType:
			if b, ok := f.Interface.([]byte); ok {
				return zap.String(f.Key, "[REDACTED:"+strconv.Itoa(len(b))+"]")
			}
		}
		return zap.String(f.Key, "[REDACTED]")
	}
	if f.Type == zapcore.StringType {
		v := f.String
		for _, re := range s.patterns {
			v = re.ReplaceAllString(v, "[REDACTED]")
		}
		if v != f.String {
			return zap.String(f.Key, v)
		}
	}
	return f
}

func (s *fieldScrubber) scrubAll(fields []zapcore.Field) []zapcore.Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		out[i] = s.scrub(f)
	}
	return out
}

// redactCore scrubs fields before they reach the wrapped core. Wrapping the
// core rather than the encoder covers per-entry fields and the OTEL bridge.
type redactCore struct {
	zapcore.Core
	s *fieldScrubber
}

func newRedactCore(inner zapcore.Core, cfg RedactionConfig) (zapcore.Core, error) {
	s, err := newFieldScrubber(cfg)
	if err != nil {
		return nil, err
	}
	return &redactCore{Core: inner, s: s}, nil
}

func (c *redactCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactCore{Core: c.Core.With(c.s.scrubAll(fields)), s: c.s}
}

func (c *redactCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *redactCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, c.s.scrubAll(fields))
}
