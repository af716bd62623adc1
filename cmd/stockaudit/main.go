// Command stockaudit runs an inventory audit against a CSV, XLSX or JSON
// product table: count stock, reconcile against the recorded quantities and
// export the products with a variance.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stockaudit/internal/config"
	"github.com/JonMunkholm/stockaudit/internal/core"
	"github.com/JonMunkholm/stockaudit/internal/logging"
	"github.com/JonMunkholm/stockaudit/internal/store"
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// app holds state shared by all commands.
type app struct {
	envFile   string
	exportDir string
	dryRun    bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	root := newRootCmd(&app{})
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(os.Stderr, ee.msg)
		}
		return ee.code
	}
	if core.IsUserFacing(err) {
		fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "stockaudit [file]",
		Short:         "Count inventory and export the products with a variance",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runAudit(cmd, args[0], "")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file to load if present")
	pf.StringVarP(&a.exportDir, "export-dir", "o", "", "export directory (overrides AUDIT_EXPORT_DIR)")
	pf.BoolVar(&a.dryRun, "dry-run", false, "validate the export path without writing (overrides AUDIT_DRY_RUN)")

	root.AddCommand(
		newAuditCmd(a),
		newServeCmd(a),
		newBatchCmd(a),
		newInspectCmd(a),
	)
	return root
}

// setup loads .env and configuration, applies flag overrides and configures
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Overload(a.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("export-dir") {
		cfg.Audit.ExportDir = a.exportDir
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Audit.DryRun = a.dryRun
	}
	a.cfg = cfg
	a.logger = logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	a.logger.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// newStore builds the file store from configuration.
func (a *app) newStore() *store.FileStore {
	return store.New(store.Options{
		MaxFileSize: a.cfg.Audit.MaxFileSize,
		DryRun:      a.cfg.Audit.DryRun,
		Logger:      a.logger,
	})
}

// openSession creates a session and loads path into it.
func (a *app) openSession(path string, opts core.SessionOptions) (*core.Session, error) {
	if opts.Logger == nil {
		opts.Logger = a.logger
	}
	sess := core.NewSession(a.newStore(), opts)
	if err := sess.Initialize(path); err != nil {
		return nil, err
	}
	if dups := sess.DuplicateSKUs(); len(dups) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d SKU(s) appear more than once; the first row is used: %v\n", len(dups), dups)
	}
	return sess, nil
}

// outcomeError converts a non-terminal outcome into an exit error.
func outcomeError(outcome core.Outcome) error {
	if outcome.ExitCode != 0 {
		return &exitError{code: outcome.ExitCode}
	}
	return nil
}
