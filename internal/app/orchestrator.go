package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gradebench/internal/domain"
)

// MetricsWriter persists the metrics of a finished run.
type MetricsWriter interface {
	WriteRun(path string, report *domain.RunReport) error
}

// Deps are the collaborators of an Orchestrator. Metrics may be nil.
type Deps struct {
	Generator domain.DatasetGenerator
	Sink      domain.ResultSink
	Reader    domain.ReportReader
	Printer   domain.Printer
	Metrics   MetricsWriter
	Out       io.Writer
}

// Orchestrator drives one run: plan, execute on a backend, persist, verify
// and print.
type Orchestrator struct {
	logger *zap.Logger
	config *domain.Config
	deps   Deps
}

func NewOrchestrator(logger *zap.Logger, config *domain.Config, deps Deps) *Orchestrator {
	return &Orchestrator{logger: logger, config: config, deps: deps}
}

// Run executes the full workload on backend and writes reportPath. Any
// failure aborts the run; nothing is retried.
func (o *Orchestrator) Run(backend Backend, reportPath string) (*domain.RunReport, error) {
	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run_id", runID), zap.String("backend", backend.Name()))

	data := o.deps.Generator.Generate(o.config.TotalScores)
	parts, err := domain.PlanPartitions(len(data), o.config.Workers)
	if err != nil {
		return nil, err
	}

	mode, err := o.deps.Sink.Prepare(reportPath)
	if err != nil {
		return nil, fmt.Errorf("prepare report: %w", err)
	}

	logger.Info("Starting run",
		zap.Int("scores", len(data)),
		zap.Int("workers", len(parts)),
		zap.String("report", reportPath),
		zap.Stringer("mode", mode))

	// Воркеры-процессы пишут во временный файл, он попадает в отчёт только после успешного прогона
	jobPath := reportPath
	if backend.WritesResults() {
		jobPath = StagingPath(reportPath, runID)
		defer func() {
			if err := o.deps.Sink.Discard(jobPath); err != nil {
				logger.Warn("Failed to remove staged report", zap.Error(err))
			}
		}()
	}

	start := time.Now()
	results, summary, err := backend.Execute(Job{
		RunID:      runID,
		Data:       data,
		Partitions: parts,
		ReportPath: jobPath,
	})
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", backend.Name(), err)
	}
	end := time.Now()
	timing := domain.RunTiming{Start: start, End: end, Total: end.Sub(start)}

	if err := verifySummary(data, results, summary); err != nil {
		return nil, err
	}

	// Запись результатов
	if backend.WritesResults() {
		err = o.deps.Sink.AppendTiming(jobPath, timing)
		if err == nil {
			err = o.deps.Sink.Commit(jobPath, reportPath)
		}
	} else {
		err = o.deps.Sink.WriteRun(reportPath, results, timing)
	}
	if err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	readback, err := o.deps.Reader.Tail(reportPath, len(results)+3)
	if err != nil {
		return nil, fmt.Errorf("read back report: %w", err)
	}

	report := &domain.RunReport{
		RunID:      runID,
		Backend:    backend.Name(),
		ReportPath: reportPath,
		Mode:       mode,
		Results:    results,
		Summary:    summary,
		Timing:     timing,
		Readback:   readback,
	}

	if err := o.deps.Printer.PrintRun(o.deps.Out, report); err != nil {
		return nil, err
	}

	if o.config.MetricsFile != "" && o.deps.Metrics != nil {
		path := MetricsPath(o.config.MetricsFile, backend.Name())
		if err := o.deps.Metrics.WriteRun(path, report); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
	}

	logger.Info("Run completed",
		zap.Duration("total", timing.Total),
		zap.Int64("low", summary.Low),
		zap.Int64("mid", summary.Mid),
		zap.Int64("high", summary.High))
	return report, nil
}

// verifySummary checks that the shared counters saw every worker's counts
// exactly once and that they classify the whole dataset.
func verifySummary(data domain.Dataset, results []domain.WorkerResult, summary domain.Counts) error {
	if sum := domain.SumCounts(results); sum != summary {
		return fmt.Errorf("%w: summary %+v, workers %+v", domain.ErrSummaryMismatch, summary, sum)
	}
	if all := domain.CountAll(data); all != summary {
		return fmt.Errorf("%w: summary %+v, dataset %+v", domain.ErrSummaryMismatch, summary, all)
	}
	return nil
}

// StagingPath is where the worker lines of run go before the run is known
// to have succeeded. It sits next to reportPath.
func StagingPath(reportPath, runID string) string {
	return reportPath + "." + runID + ".part"
}

// MetricsPath inserts the backend name before the extension of path, so
// both backends of one launcher call keep their own file.
func MetricsPath(path, backend string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + backend + ext
}
