// Package config provides configuration loading for cectoolkit.
//
// Values come from built-in defaults, an optional YAML file and CECTK_
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete cectoolkit configuration.
type Config struct {
	Toolkit   ToolkitConfig   `koanf:"toolkit"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Events    EventsConfig    `koanf:"events"`
	Redaction RedactionConfig `koanf:"redaction"`
}

// ToolkitConfig controls the extraction engine.
type ToolkitConfig struct {
	MaxInputLength int    `koanf:"max_input_length"`
	Placeholder    string `koanf:"placeholder"`
	RulesFile      string `koanf:"rules_file"`  // optional TOML rule overrides
	WatchRules     bool   `koanf:"watch_rules"` // reload RulesFile on change (serve only)
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	BodyLimit       string   `koanf:"body_limit"`
	RateLimit       float64  `koanf:"rate_limit"` // requests per second per client, 0 disables
	RateBurst       int      `koanf:"rate_burst"`
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"` // grpc or http/protobuf
	ServiceName    string   `koanf:"service_name"`
	Insecure       bool     `koanf:"insecure"`
	SampleRate     float64  `koanf:"sample_rate"`
	ExportInterval Duration `koanf:"export_interval"`
}

// EventsConfig controls publication of ticket-processed events to NATS.
type EventsConfig struct {
	NATSURL string `koanf:"nats_url"` // empty disables NATS publishing
	Subject string `koanf:"subject"`
	Token   Secret `koanf:"token"`
}

// RedactionConfig controls masking of sensitive extracted values.
type RedactionConfig struct {
	Enabled  bool `koanf:"enabled"`
	Gitleaks bool `koanf:"gitleaks"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Toolkit: ToolkitConfig{
			MaxInputLength: 50000,
			Placeholder:    "User did not provide",
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            9393,
			ShutdownTimeout: Duration(10 * time.Second),
			BodyLimit:       "1M",
			RateLimit:       20,
			RateBurst:       40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			ServiceName:    "cectoolkit",
			Insecure:       true,
			SampleRate:     1.0,
			ExportInterval: Duration(15 * time.Second),
		},
		Events: EventsConfig{
			Subject: "cectoolkit.ticket.processed",
		},
		Redaction: RedactionConfig{
			Enabled: true,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Toolkit.MaxInputLength < 1 {
		errs = append(errs, fmt.Errorf("toolkit.max_input_length must be positive, got %d", c.Toolkit.MaxInputLength))
	}
	if strings.TrimSpace(c.Toolkit.Placeholder) == "" {
		errs = append(errs, errors.New("toolkit.placeholder cannot be empty"))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit cannot be negative"))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			errs = append(errs, errors.New("telemetry.endpoint is required when telemetry is enabled"))
		}
		if c.Telemetry.ServiceName == "" {
			errs = append(errs, errors.New("telemetry.service_name is required when telemetry is enabled"))
		}
		switch c.Telemetry.Protocol {
		case "", "grpc", "http/protobuf":
		default:
			errs = append(errs, fmt.Errorf("telemetry.protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol))
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			errs = append(errs, fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %f", c.Telemetry.SampleRate))
		}
	}

	if c.Events.NATSURL != "" {
		u, err := url.Parse(c.Events.NATSURL)
		if err != nil || (u.Scheme != "nats" && u.Scheme != "tls") || u.Host == "" {
			errs = append(errs, fmt.Errorf("events.nats_url must be a nats:// or tls:// URL, got %q", c.Events.NATSURL))
		}
		if c.Events.Subject == "" {
			errs = append(errs, errors.New("events.subject is required when nats_url is set"))
		}
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
