package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stockaudit/internal/application"
	"github.com/JonMunkholm/stockaudit/internal/core"
	"github.com/JonMunkholm/stockaudit/internal/logging"
)

func newAuditCmd(a *app) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "audit <file>",
		Short: "Run an interactive audit in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAudit(cmd, args[0], logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the UI is open")
	return cmd
}

// runAudit loads path and runs the terminal UI until the audit is finished
// or abandoned.
func (a *app) runAudit(cmd *cobra.Command, path, logFile string) error {
	// The UI owns the terminal; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	a.logger = logging.SetupWriter(logOut, a.cfg.Logging.Level, a.cfg.Logging.Format)

	var summary bytes.Buffer
	sess, err := a.openSession(path, core.SessionOptions{Out: &summary})
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(application.NewModel(sess, a.cfg.Audit.ExportDir), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}

	// Printed after the alternate screen is gone.
	io.Copy(cmd.OutOrStdout(), &summary)

	m := final.(application.Model)
	if m.Aborted() || !m.Outcome().Terminate {
		return &exitError{code: 1, msg: "audit abandoned; nothing was exported"}
	}
	return outcomeError(m.Outcome())
}
