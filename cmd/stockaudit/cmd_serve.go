package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stockaudit/internal/core"
	"github.com/JonMunkholm/stockaudit/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve <file>",
		Short: "Run the audit from a browser",
		Long: "Load the product table and serve a browser UI and JSON API for counting.\n" +
			"The server exits once the audit is finished and exported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, args[0])
		},
	}
}

func (a *app) runServe(cmd *cobra.Command, path string) error {
	sess, err := a.openSession(path, core.SessionOptions{Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	srv := web.NewServer(sess, web.Options{
		ExportDir:   a.cfg.Audit.ExportDir,
		ReadTimeout: a.cfg.Server.ReadTimeout,
		APIKey:      a.cfg.Server.APIKey,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(a.cfg.Server.Addr())
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Audit UI on http://%s\n", a.cfg.Server.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var result error
	select {
	case outcome := <-srv.Done():
		a.logger.Info("audit finished", "export_path", outcome.ExportPath)
		result = outcomeError(outcome)
	case sig := <-sigCh:
		a.logger.Info("shutting down", "signal", sig.String())
		result = &exitError{code: 1, msg: "audit abandoned; nothing was exported"}
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown error", "error", err)
	}
	return result
}
