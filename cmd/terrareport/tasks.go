package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/export"
)

// NewTasksCmd creates the tasks command.
func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List export jobs recorded in the task ledger",
		Long: `Tasks lists the export jobs recorded by 'terrareport export'.

The recorded state is whatever the service reported when the job was
submitted or last refreshed. With --refresh every job that has not
finished is checked once against the service before listing; nothing
waits for jobs to complete.

Examples:
  terrareport tasks
  terrareport tasks --analysis germany-ndvi --refresh`,
		Args: cobra.NoArgs,
		RunE: runTasksCmd,
	}

	cmd.Flags().String("analysis", "", "Only list tasks of this analysis")
	cmd.Flags().Bool("refresh", false, "Ask the service once for the state of unfinished tasks")

	return cmd
}

// runTasksCmd executes the tasks command.
func runTasksCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name, err := cmd.Flags().GetString("analysis")
	if err != nil {
		return err
	}
	refresh, err := cmd.Flags().GetBool("refresh")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close task ledger", "error", err)
		}
	}()

	tasks, err := db.ListTasks(ctx, name)
	if err != nil {
		return err
	}

	if refresh {
		client, err := newEarthEngineClient(ctx, cfg, logger)
		if err != nil {
			return err
		}
		exporter := export.NewExporter(client, db, export.WithLogger(logger))
		failed := 0
		for _, t := range tasks {
			if t.State.Done() {
				continue
			}
			if _, err := exporter.Refresh(ctx, t.Operation); err != nil {
				failed++
				logger.Error("refresh failed", "operation", t.Operation, "error", err)
			}
		}
		if tasks, err = db.ListTasks(ctx, name); err != nil {
			return err
		}
		if failed > 0 {
			printTasks(cmd.OutOrStdout(), tasks)
			return fmt.Errorf("%d task(s) could not be refreshed", failed)
		}
	}

	printTasks(cmd.OutOrStdout(), tasks)
	return nil
}
