//go:build unix

package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gradebench/internal/domain"
	"gradebench/internal/ipc"
)

const ProcessBackendName = "procesos"

// ProcessBackend runs every worker as a separate OS process started from
// executable with args. The workers share the run through named resources:
// the dataset (read-only), the summary counters, the result slots and one
// semaphore guarding both the counters and the report file.
type ProcessBackend struct {
	logger     *zap.Logger
	config     *domain.Config
	executable string
	args       []string
}

func NewProcessBackend(logger *zap.Logger, config *domain.Config, executable string, args ...string) *ProcessBackend {
	return &ProcessBackend{
		logger:     logger,
		config:     config,
		executable: executable,
		args:       args,
	}
}

func (b *ProcessBackend) Name() string {
	return ProcessBackendName
}

func (b *ProcessBackend) WritesResults() bool {
	return true
}

func (b *ProcessBackend) Execute(job Job) (results []domain.WorkerResult, summary domain.Counts, err error) {
	cfg := b.config
	dir := cfg.ShmDir
	logger := b.logger.With(zap.String("run_id", job.RunID))

	// Ресурсы освобождаются в обратном порядке, имена удаляет только родитель
	var cleanups []func() error
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			if cerr := cleanups[i](); cerr != nil {
				logger.Error("Failed to release shared resource", zap.Error(cerr))
				err = errors.Join(err, cerr)
			}
		}
	}()

	sem, err := ipc.CreateSemaphore(dir, cfg.SemaphoreName)
	if err != nil {
		return nil, summary, err
	}
	cleanups = append(cleanups, func() error { return ipc.UnlinkSemaphore(dir, cfg.SemaphoreName) })

	summarySeg, err := ipc.CreateSegment(dir, cfg.SummaryName, ipc.SummarySize)
	if err != nil {
		sem.Close()
		return nil, summary, err
	}
	counters := ipc.NewSharedCounters(sem, summarySeg)
	cleanups = append(cleanups,
		func() error { return ipc.UnlinkSegment(dir, cfg.SummaryName) },
		counters.Close)

	dataSeg, err := ipc.PublishDataset(dir, cfg.DatasetName, job.Data)
	if err != nil {
		return nil, summary, err
	}
	cleanups = append(cleanups,
		func() error { return ipc.UnlinkSegment(dir, cfg.DatasetName) },
		dataSeg.Detach)

	slotsSeg, err := ipc.CreateSegment(dir, cfg.ResultsName, ipc.SlotsSize(len(job.Partitions)))
	if err != nil {
		return nil, summary, err
	}
	slots := ipc.NewResultSlots(slotsSeg)
	cleanups = append(cleanups,
		func() error { return ipc.UnlinkSegment(dir, cfg.ResultsName) },
		slots.Detach)

	logger.Debug("Shared resources created",
		zap.String("dir", dir),
		zap.Int("scores", len(job.Data)),
		zap.Int("workers", len(job.Partitions)))

	if err := b.spawnAndReap(logger, job); err != nil {
		return nil, summary, err
	}

	results = make([]domain.WorkerResult, len(job.Partitions))
	for i := range job.Partitions {
		results[i] = slots.Get(i)
	}
	summary, err = counters.Snapshot()
	if err != nil {
		return nil, summary, err
	}
	return results, summary, nil
}

// spawnAndReap starts one process per partition and waits for all of them.
// If any worker cannot be started or fails, the others are killed.
func (b *ProcessBackend) spawnAndReap(logger *zap.Logger, job Job) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	for _, p := range job.Partitions {
		label := domain.GroupLabel(p.Group)
		cmd, err := b.command(ctx, job, p)
		if err == nil {
			err = cmd.Start()
		}
		if err != nil {
			cancel()
			g.Wait()
			return fmt.Errorf("spawn worker %s: %w", label, err)
		}

		logger.Debug("Worker process started",
			zap.String("group", label),
			zap.Int("pid", cmd.Process.Pid))

		g.Go(func() error {
			if err := cmd.Wait(); err != nil {
				return fmt.Errorf("worker %s: %w", label, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (b *ProcessBackend) command(ctx context.Context, job Job, p domain.Partition) (*exec.Cmd, error) {
	cfg := b.config
	spec := WorkerSpec{
		RunID:         job.RunID,
		LogLevel:      cfg.LogLevel,
		LogFile:       cfg.LogFile,
		Group:         p.Group,
		Start:         p.Start,
		Length:        p.Length,
		TotalScores:   len(job.Data),
		Workers:       len(job.Partitions),
		ShmDir:        cfg.ShmDir,
		SemaphoreName: cfg.SemaphoreName,
		SummaryName:   cfg.SummaryName,
		DatasetName:   cfg.DatasetName,
		ResultsName:   cfg.ResultsName,
		ReportPath:    job.ReportPath,
	}
	encoded, err := spec.Encode()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, b.executable, b.args...)
	cmd.Env = append(os.Environ(), WorkerSpecEnv+"="+encoded)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.WaitDelay = time.Second
	return cmd, nil
}
