package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, zapcore.InfoLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Output.Stdout)
	assert.False(t, cfg.Output.OTEL)
	assert.True(t, cfg.Redaction.Enabled)
	assert.Contains(t, cfg.Redaction.Fields, "raw_text")
	for _, key := range []string{"people_record", "notes", "email", "phone"} {
		assert.Contains(t, cfg.Redaction.Fields, key)
	}
	assert.Equal(t, "cectoolkit", cfg.Fields["service"])
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"invalid format", func(c *Config) { c.Format = "xml" }, "format must be 'json' or 'console'"},
		{"no output enabled", func(c *Config) { c.Output = OutputConfig{} }, "at least one output must be enabled"},
		{"negative caller skip", func(c *Config) { c.Caller.Skip = -1 }, "caller skip must be >= 0"},
		{"bad redaction pattern", func(c *Config) { c.Redaction.Patterns = []string{"[invalid("} }, "invalid redaction pattern"},
		{"empty field key", func(c *Config) { c.Fields = map[string]string{"": "v"} }, "field key cannot be empty"},
		{"empty field value", func(c *Config) { c.Fields = map[string]string{"k": ""} }, "empty value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("bad pattern ignored when redaction disabled", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Redaction.Enabled = false
		cfg.Redaction.Patterns = []string{"[invalid("}
		assert.NoError(t, cfg.Validate())
	})
}

func TestFromSettings(t *testing.T) {
	cfg, err := FromSettings("debug", "console")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)

	cfg, err = FromSettings("warn", "")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	_, err = FromSettings("loud", "json")
	assert.Error(t, err)

	_, err = FromSettings("info", "xml")
	assert.Error(t, err)
}
