package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/log"

	"github.com/fyrsmithlabs/cectoolkit/internal/config"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/redact"
	"github.com/fyrsmithlabs/cectoolkit/internal/toolkit"
)

// errTicketFailed is returned when input was rejected. The reasons have been
// written to the command's error stream.
var errTicketFailed = errors.New("ticket processing failed")

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	rulesPath  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "cectk",
		Short: "Format CRM text into service-desk tickets",
		Long: `cectk extracts caller details from text pasted out of the CRM and writes
them as a fixed ticket template. Fields that cannot be found are filled with
a placeholder so the agent knows what to ask for.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/cectoolkit/config.yaml)")
	pf.StringVar(&flags.rulesPath, "rules", "", "TOML rule file merged over the built-in rules")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newPhoneCmd(flags),
		newEscalationCmd(flags),
		newTemplatesCmd(flags),
		newServeCmd(flags),
		newMCPCmd(flags),
		newVersionCmd(),
	)
	return root
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.rulesPath != "" {
		cfg.Toolkit.RulesFile = flags.rulesPath
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	return cfg, nil
}

// newLogger builds the application logger. Logs go to stderr so stdout stays
// free for tickets and the MCP stdio transport.
func newLogger(cfg *config.Config, provider log.LoggerProvider) (*logging.Logger, error) {
	lc, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	lc.Output.Stdout = false
	lc.Output.Stderr = true
	lc.Output.OTEL = provider != nil
	return logging.NewLogger(lc, provider)
}

// newService compiles the configured rules and builds a toolkit.Service.
func newService(cfg *config.Config, logger *logging.Logger, opts ...toolkit.Option) (*toolkit.Service, error) {
	def, err := toolkit.Definition(cfg.Toolkit)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	table, err := patterns.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}

	rc := redact.DefaultConfig()
	rc.Enabled = cfg.Redaction.Enabled
	rc.Gitleaks = cfg.Redaction.Gitleaks
	redactor, err := redact.New(rc, logger)
	if err != nil {
		return nil, fmt.Errorf("building redactor: %w", err)
	}

	base := []toolkit.Option{
		toolkit.WithLogger(logger),
		toolkit.WithRedactor(redactor),
		toolkit.WithMaxInputLength(cfg.Toolkit.MaxInputLength),
	}
	return toolkit.New(table, append(base, opts...)...), nil
}

// setup is loadConfig, newLogger and newService for the one-shot commands.
func setup(flags *globalFlags) (*toolkit.Service, *logging.Logger, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	svc, err := newService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

// readInput reads a named file, or stdin for "" and "-".
func readInput(in io.Reader, name string) (string, error) {
	if name == "" || name == "-" {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return string(b), nil
}
