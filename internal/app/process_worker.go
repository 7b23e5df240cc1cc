//go:build unix

package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gradebench/internal/domain"
	"gradebench/internal/ipc"
)

const (
	turnPollMin = 100 * time.Microsecond
	turnPollMax = 10 * time.Millisecond
)

// RunProcessWorker is the body of one worker process. It attaches to the
// named resources of the run, scans its partition, publishes the result to
// its slot and the shared counters, appends its report line when its turn
// comes, and detaches everything before returning.
func RunProcessWorker(logger *zap.Logger, spec WorkerSpec, sink domain.ResultSink) (err error) {
	dir := spec.ShmDir

	sem, err := ipc.OpenSemaphore(dir, spec.SemaphoreName)
	if err != nil {
		return err
	}
	summarySeg, err := ipc.AttachSegment(dir, spec.SummaryName, ipc.SummarySize, false)
	if err != nil {
		sem.Close()
		return err
	}
	counters := ipc.NewSharedCounters(sem, summarySeg)
	defer func() { err = errors.Join(err, counters.Close()) }()

	data, dataSeg, err := ipc.AttachDataset(dir, spec.DatasetName, spec.TotalScores)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, dataSeg.Detach()) }()

	slotsSeg, err := ipc.AttachSegment(dir, spec.ResultsName, ipc.SlotsSize(spec.Workers), false)
	if err != nil {
		return err
	}
	slots := ipc.NewResultSlots(slotsSeg)
	defer func() { err = errors.Join(err, slots.Detach()) }()

	res, err := runWorker(logger, data, spec.Partition(), counters)
	if err != nil {
		return err
	}
	slots.Put(res)

	return writeInTurn(sem, slots, sink, spec.ReportPath, res)
}

// writeInTurn appends the worker's line once every lower group has written
// its own, so the report stays in group order whatever order workers finish.
func writeInTurn(sem *ipc.Semaphore, slots *ipc.ResultSlots, sink domain.ResultSink, path string, res domain.WorkerResult) error {
	wait := turnPollMin
	for {
		written := false
		err := sem.Do(func() error {
			if slots.Turn() != res.Group {
				return nil
			}
			if err := sink.AppendResult(path, res); err != nil {
				return err
			}
			slots.Advance()
			written = true
			return nil
		})
		if err != nil {
			return fmt.Errorf("group %s: write report: %w", res.Label(), err)
		}
		if written {
			return nil
		}
		time.Sleep(wait)
		wait = min(2*wait, turnPollMax)
	}
}
