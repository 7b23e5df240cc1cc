package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gradebench/internal/app"
	"gradebench/internal/domain"
	"gradebench/internal/infrastructure"
	"gradebench/pkg/dataset"
)

// cli holds what the persistent pre-run resolves for the subcommands.
type cli struct {
	configPath string
	overrides  domain.Config

	config *domain.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	return (&cli{}).rootCommand()
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "gradebench",
		Short:         "Compare threads and processes on a partitioned score classification",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Path to config file")
	flags.IntVar(&c.overrides.Workers, "workers", 0, "Number of workers")
	flags.IntVar(&c.overrides.TotalScores, "total-scores", 0, "Number of scores to generate")
	flags.Int64Var(&c.overrides.Seed, "seed", 0, "Dataset seed (0 = current time)")
	flags.StringVar(&c.overrides.LogLevel, "log-level", "", "Log level")
	flags.StringVar(&c.overrides.LogFile, "log-file", "", "Log file")
	flags.StringVar(&c.overrides.MetricsFile, "metrics-file", "", "Prometheus textfile to write after each run")
	flags.StringVar(&c.overrides.ShmDir, "shm-dir", "", "Directory holding the named shared resources")

	root.AddCommand(
		c.runCommand("processes", []string{"procesos"}, "Run the workload on worker processes", c.runProcesses),
		c.runCommand("threads", []string{"hilos"}, "Run the workload on goroutines", c.runThreads),
		c.runCommand("both", []string{"ambos"}, "Run both backends and compare their total time", c.runBoth),
		newWorkerCommand(),
	)
	return root
}

func (c *cli) runCommand(use string, aliases []string, short string, run func(*cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer c.logger.Sync()
			if err := run(cmd); err != nil {
				c.logger.Error("Run failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

// load reads the config file and applies the flags that were set.
func (c *cli) load(cmd *cobra.Command) error {
	// Чтение конфигурации
	configReader := infrastructure.NewYAMLConfigReader(initLogger("info"))
	config, err := configReader.ReadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	// Применяем аргументы командной строки
	flags := cmd.Flags()
	if flags.Changed("workers") {
		config.Workers = c.overrides.Workers
	}
	if flags.Changed("total-scores") {
		config.TotalScores = c.overrides.TotalScores
	}
	if flags.Changed("seed") {
		config.Seed = c.overrides.Seed
	}
	if flags.Changed("log-level") {
		config.LogLevel = c.overrides.LogLevel
	}
	if flags.Changed("log-file") {
		config.LogFile = c.overrides.LogFile
	}
	if flags.Changed("metrics-file") {
		config.MetricsFile = c.overrides.MetricsFile
	}
	if flags.Changed("shm-dir") {
		config.ShmDir = c.overrides.ShmDir
	}
	if err := config.Validate(); err != nil {
		return err
	}
	// Один датасет на весь вызов: в режиме both оба бэкенда считают одно и то же
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	c.config = config
	c.logger = initLogger(config.LogLevel, config.LogFile)
	return nil
}

func (c *cli) orchestrator() *app.Orchestrator {
	return app.NewOrchestrator(c.logger, c.config, app.Deps{
		Generator: c.generator(),
		Sink:      infrastructure.NewTXTReportWriter(c.logger, c.config.ReportMaxLines),
		Reader:    infrastructure.NewTXTReportReader(c.logger),
		Printer:   infrastructure.NewConsolePrinter(),
		Metrics:   infrastructure.NewPromTextfileWriter(c.logger),
		Out:       os.Stdout,
	})
}

// generator uses the seed resolved by load, so every backend of one
// invocation gets the same dataset.
func (c *cli) generator() *dataset.UniformGenerator {
	return dataset.NewUniformGenerator(c.logger, c.config.MaxScore, c.config.Seed)
}

func (c *cli) processBackend() (*app.ProcessBackend, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return app.NewProcessBackend(c.logger, c.config, exe, workerCommandName), nil
}

func (c *cli) runProcesses(cmd *cobra.Command) error {
	backend, err := c.processBackend()
	if err != nil {
		return err
	}
	_, err = c.orchestrator().Run(backend, c.config.ProcessReport)
	return err
}

func (c *cli) runThreads(cmd *cobra.Command) error {
	_, err := c.orchestrator().Run(app.NewThreadBackend(c.logger), c.config.ThreadReport)
	return err
}

func (c *cli) runBoth(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "\n===== Lanzando %s =====\n", app.ProcessBackendName)
	if err := c.runProcesses(cmd); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n===== Lanzando %s =====\n", app.ThreadBackendName)
	if err := c.runThreads(cmd); err != nil {
		return err
	}

	comparator := app.NewComparator(c.logger, infrastructure.NewTXTReportReader(c.logger))
	return comparator.Compare(cmd.OutOrStdout(), c.config.ProcessReport, c.config.ThreadReport)
}
