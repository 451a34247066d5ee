package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/processor"
)

// outputFlags select how a ticket is printed.
type outputFlags struct {
	json   bool
	pretty bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "highlight labels and missing fields")
	cmd.MarkFlagsMutuallyExclusive("json", "pretty")
}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func newPhoneCmd(flags *globalFlags) *cobra.Command {
	out := &outputFlags{}
	cmd := &cobra.Command{
		Use:   "phone [file|-]",
		Short: "Format a phone-issue ticket",
		Long: `Format a phone-issue ticket from a file or stdin.

Examples:
  # From the clipboard
  pbpaste | cectk phone

  # From a file, as JSON
  cectk phone --json ticket.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			text, err := readInput(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			svc, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			res := svc.ProcessPhoneIssue(cmd.Context(), text)
			return printResult(cmd, out, res, svc.Table().PhoneTemplate(), svc.Table().Strings().Placeholder)
		},
	}
	out.register(cmd)
	return cmd
}

func newEscalationCmd(flags *globalFlags) *cobra.Command {
	out := &outputFlags{}
	var peoplePath, notesPath string
	cmd := &cobra.Command{
		Use:   "escalation",
		Short: "Format an escalation ticket from a people record and agent notes",
		Long: `Format an escalation ticket from two blocks of text. Either block may be
read from stdin with "-", but not both.

Examples:
  cectk escalation --people people.txt --notes notes.txt
  pbpaste | cectk escalation --people people.txt --notes -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if peoplePath == "-" && notesPath == "-" {
				return errors.New("only one of --people and --notes can read stdin")
			}
			people, err := readInput(cmd.InOrStdin(), peoplePath)
			if err != nil {
				return err
			}
			notes, err := readInput(cmd.InOrStdin(), notesPath)
			if err != nil {
				return err
			}
			svc, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			res := svc.ProcessEscalation(cmd.Context(), people, notes)
			return printResult(cmd, out, res, svc.Table().EscalationTemplate(), svc.Table().Strings().Placeholder)
		},
	}
	cmd.Flags().StringVar(&peoplePath, "people", "", "people record file, or - for stdin")
	cmd.Flags().StringVar(&notesPath, "notes", "", "agent notes file, or - for stdin")
	_ = cmd.MarkFlagRequired("people")
	_ = cmd.MarkFlagRequired("notes")
	out.register(cmd)
	return cmd
}

func newTemplatesCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Show the output labels of each ticket type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			tmpl := svc.Templates()
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, tmpl)
			}
			printLabels(w, "Phone issue", tmpl.Phone)
			printLabels(w, "Escalation", tmpl.Escalation)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "cectk by Fyrsmith Labs\n")
			fmt.Fprintf(w, "Version:    %s\n", version)
			fmt.Fprintf(w, "Commit:     %s\n", gitCommit)
			fmt.Fprintf(w, "Build Date: %s\n", buildDate)
		},
	}
}

// printResult writes res in the selected format and returns errTicketFailed
// when the input was rejected.
func printResult(cmd *cobra.Command, out *outputFlags, res processor.Result, tmpl []patterns.TemplateField, placeholder string) error {
	w := cmd.OutOrStdout()
	switch {
	case out.json:
		if err := writeJSON(w, res); err != nil {
			return err
		}
	case !res.Success:
	case out.pretty:
		fmt.Fprintln(w, renderPretty(res, tmpl, placeholder))
	default:
		fmt.Fprintln(w, res.FormattedText)
	}

	if res.Success {
		return nil
	}
	ew := cmd.ErrOrStderr()
	msgs := res.Errors
	if len(msgs) == 0 {
		msgs = []string{res.Error}
	}
	for _, m := range msgs {
		if out.pretty {
			m = errorStyle.Render(m)
		}
		fmt.Fprintln(ew, m)
	}
	return errTicketFailed
}

// renderPretty styles each template line, dimming placeholder values.
func renderPretty(res processor.Result, tmpl []patterns.TemplateField, placeholder string) string {
	lines := make([]string, len(tmpl))
	for i, tf := range tmpl {
		v := res.ExtractedFields[tf.Field]
		style := valueStyle
		if strings.TrimSpace(v) == "" || v == placeholder {
			v = placeholder
			style = missingStyle
		}
		lines[i] = labelStyle.Render(tf.Label+":") + " " + style.Render(v)
	}
	return strings.Join(lines, "\n")
}

func printLabels(w io.Writer, title string, labels []string) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, l := range labels {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
