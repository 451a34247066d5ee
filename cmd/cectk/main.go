// Cectk turns text pasted from the CRM into formatted service-desk tickets.
//
// Usage:
//
//	# Format a phone-issue ticket from stdin
//	pbpaste | cectk phone
//
//	# Build an escalation from two saved blocks
//	cectk escalation --people people.txt --notes notes.txt
//
//	# Serve the HTTP API
//	cectk serve
//
//	# Serve MCP tools on stdio
//	cectk mcp
//
// Configuration is read from ~/.config/cectoolkit/config.yaml and CECTK_
// environment variables. See internal/config for details.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// A failed ticket has already reported its own errors.
		if !errors.Is(err, errTicketFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
