package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gradebench/internal/app"
	"gradebench/internal/domain"
	"gradebench/internal/infrastructure"
)

const workerCommandName = "worker"

// newWorkerCommand is the entry point of the process backend's children.
// The assignment comes from the environment, never from the user.
func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:    workerCommandName,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := app.WorkerSpecFromEnv()
			if err != nil {
				return err
			}

			logger := initLogger(spec.LogLevel, spec.LogFile).With(
				zap.String("run_id", spec.RunID),
				zap.String("group", domain.GroupLabel(spec.Group)),
				zap.Int("pid", os.Getpid()))
			defer logger.Sync()

			sink := infrastructure.NewTXTReportWriter(logger, 0)
			if err := app.RunProcessWorker(logger, spec, sink); err != nil {
				logger.Error("Worker failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
