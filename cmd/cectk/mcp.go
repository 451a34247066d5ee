package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/cectoolkit/internal/events"
	"github.com/fyrsmithlabs/cectoolkit/internal/mcp"
	"github.com/fyrsmithlabs/cectoolkit/internal/toolkit"
)

func newMCPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ticket tools over MCP on stdio",
		Long: `Serve process_phone_issue, process_escalation and list_templates as MCP
tools on stdin/stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, nil)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			bus := events.NewBus(logger)
			if err := bus.Subscribe("log", events.LogHandler(logger)); err != nil {
				return err
			}
			svc, err := newService(cfg, logger, toolkit.WithBus(bus))
			if err != nil {
				return err
			}

			srv, err := mcp.NewServer(&mcp.Config{
				Name:    "cectoolkit",
				Version: version,
				Logger:  logger.Underlying(),
			}, svc)
			if err != nil {
				return fmt.Errorf("failed to create mcp server: %w", err)
			}
			return srv.Run(cmd.Context())
		},
	}
}
