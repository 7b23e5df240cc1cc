//go:build unix

package ipc

import (
	"encoding/binary"
	"errors"

	"gradebench/internal/domain"
)

// SummarySize is the byte size of the shared counter vector: three int64.
const SummarySize = 3 * 8

// SharedCounters is the cross-process domain.Aggregator: a three-slot
// counter segment guarded by a named semaphore.
type SharedCounters struct {
	sem *Semaphore
	seg *Segment
}

// NewSharedCounters wraps an already created or attached semaphore and
// summary segment. Close releases both handles.
func NewSharedCounters(sem *Semaphore, seg *Segment) *SharedCounters {
	return &SharedCounters{sem: sem, seg: seg}
}

func (c *SharedCounters) Add(delta domain.Counts) error {
	if c.seg == nil {
		return domain.ErrChannelClosed
	}
	return c.sem.Do(func() error {
		cur := decodeCounts(c.seg.Bytes())
		encodeCounts(c.seg.Bytes(), cur.Add(delta))
		return nil
	})
}

func (c *SharedCounters) Snapshot() (domain.Counts, error) {
	if c.seg == nil {
		return domain.Counts{}, domain.ErrChannelClosed
	}
	var snap domain.Counts
	err := c.sem.Do(func() error {
		snap = decodeCounts(c.seg.Bytes())
		return nil
	})
	return snap, err
}

// Close detaches the segment and closes the semaphore handle. It does not
// unlink either name.
func (c *SharedCounters) Close() error {
	if c.seg == nil {
		return nil
	}
	err := c.seg.Detach()
	c.seg = nil
	return errors.Join(err, c.sem.Close())
}

func decodeCounts(b []byte) domain.Counts {
	return domain.Counts{
		Low:  int64(binary.NativeEndian.Uint64(b[0:8])),
		Mid:  int64(binary.NativeEndian.Uint64(b[8:16])),
		High: int64(binary.NativeEndian.Uint64(b[16:24])),
	}
}

func encodeCounts(b []byte, c domain.Counts) {
	binary.NativeEndian.PutUint64(b[0:8], uint64(c.Low))
	binary.NativeEndian.PutUint64(b[8:16], uint64(c.Mid))
	binary.NativeEndian.PutUint64(b[16:24], uint64(c.High))
}
