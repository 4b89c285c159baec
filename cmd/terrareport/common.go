package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/config"
	"github.com/nao1215/terrareport/internal/database"
	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/log"
	"github.com/nao1215/terrareport/internal/pipeline"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig builds a Config from the persistent flags, the project file
// and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Project, err = flags.GetString("project"); err != nil {
		return nil, err
	}
	if cfg.Credentials, err = flags.GetString("credentials"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Load(os.Getenv); err != nil {
		if cfg.ConfigFilePath != "" {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfg.ConfigFilePath, err)
		}
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the redacting logger for cfg and installs it as the
// default.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var logger *slog.Logger
	if cfg.LogJSON {
		logger = log.NewSecureJSONLogger(w, cfg.Verbose)
	} else {
		logger = log.NewSecureLogger(w, cfg.Verbose)
	}
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// newEarthEngineClient authenticates and returns a client bound to the
// configured project, falling back to the project of the credentials.
func newEarthEngineClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ee.Client, error) {
	hc, credProject, err := ee.NewHTTPClient(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	hc.Timeout = cfg.Timeout
	if cfg.Project == "" {
		cfg.Project = credProject
	}
	if err := cfg.RequireProject(); err != nil {
		return nil, err
	}
	opts := []ee.Option{ee.WithHTTPClient(hc), ee.WithLogger(logger)}
	if cfg.Endpoint != "" {
		opts = append(opts, ee.WithBaseURL(cfg.Endpoint))
	}
	return ee.NewClient(cfg.Project, opts...)
}

// openDB opens the task ledger, creating it when needed.
func openDB(cfg *config.Config) (*database.TaskDB, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open task ledger: %w", err)
	}
	return db, nil
}

// resolveJobs resolves the named analysis and returns one job per output.
func resolveJobs(cfg *config.Config, name string) (*config.Analysis, []*pipeline.Job, error) {
	a, err := cfg.File.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	jobs, err := pipeline.NewJobs(a)
	if err != nil {
		return nil, nil, err
	}
	return a, jobs, nil
}

// failedJobs counts jobs that ended with an error and logs each one.
func failedJobs(jobs []*pipeline.Job, logger *slog.Logger) int {
	n := 0
	for _, job := range jobs {
		if job.Err != nil {
			n++
			logger.Error("output failed", "output", job.Stem(), "error", job.Err)
		}
	}
	return n
}
