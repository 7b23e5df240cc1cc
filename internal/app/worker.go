package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gradebench/internal/domain"
)

// runWorker scans one partition, times the scan and adds its counts to agg.
// Both backends run every worker through here.
func runWorker(logger *zap.Logger, data domain.Dataset, p domain.Partition, agg domain.Aggregator) (domain.WorkerResult, error) {
	start := time.Now()
	res, err := domain.ScanPartition(data, p)
	res.Elapsed = time.Since(start)

	label := domain.GroupLabel(p.Group)
	if errors.Is(err, domain.ErrDegenerateChunk) {
		logger.Warn("Degenerate chunk, average left undefined",
			zap.String("group", label),
			zap.Int("start", p.Start))
	}

	if err := agg.Add(res.Counts); err != nil {
		return res, fmt.Errorf("group %s: publish counts: %w", label, err)
	}

	logger.Debug("Worker finished",
		zap.String("group", label),
		zap.Int("scores", p.Length),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}
