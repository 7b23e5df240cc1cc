package app

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"gradebench/internal/domain"
)

const ThreadBackendName = "hilos"

// ThreadBackend runs the workers as goroutines sharing the dataset slice.
// Workers never touch the report; the caller writes it after the join.
type ThreadBackend struct {
	logger *zap.Logger
}

func NewThreadBackend(logger *zap.Logger) *ThreadBackend {
	return &ThreadBackend{logger: logger}
}

func (b *ThreadBackend) Name() string {
	return ThreadBackendName
}

func (b *ThreadBackend) WritesResults() bool {
	return false
}

func (b *ThreadBackend) Execute(job Job) ([]domain.WorkerResult, domain.Counts, error) {
	agg := NewLocalAggregator()
	defer agg.Close()

	logger := b.logger.With(zap.String("run_id", job.RunID))
	results := make([]domain.WorkerResult, len(job.Partitions))
	errs := make([]error, len(job.Partitions))

	var wg sync.WaitGroup

	// Запускаем воркеры
	for i, p := range job.Partitions {
		wg.Add(1)
		logger.Debug("Starting worker", zap.Int("id", i))
		go b.worker(logger, job.Data, p, agg, &results[i], &errs[i], &wg)
	}

	// Ждём завершения всех воркеров
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, domain.Counts{}, err
	}

	summary, err := agg.Snapshot()
	if err != nil {
		return nil, domain.Counts{}, err
	}
	return results, summary, nil
}

// worker writes only its own slot and error cell.
func (b *ThreadBackend) worker(logger *zap.Logger, data domain.Dataset, p domain.Partition, agg domain.Aggregator,
	slot *domain.WorkerResult, errSlot *error, wg *sync.WaitGroup) {
	defer wg.Done()
	*slot, *errSlot = runWorker(logger, data, p, agg)
}
