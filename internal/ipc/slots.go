//go:build unix

package ipc

import (
	"encoding/binary"
	"math"
	"time"

	"gradebench/internal/domain"
)

const (
	slotHeaderSize = 8
	slotSize       = 6 * 8
)

// SlotsSize is the byte size of a results segment for w workers.
func SlotsSize(w int) int {
	return slotHeaderSize + w*slotSize
}

// ResultSlots is a results segment: a report turn cursor followed by one
// fixed-size record per worker. Each worker writes only its own record, so
// Put needs no locking. The cursor is read and advanced only while holding
// the run semaphore.
type ResultSlots struct {
	seg *Segment
}

func NewResultSlots(seg *Segment) *ResultSlots {
	return &ResultSlots{seg: seg}
}

// Put stores r in the record of r.Group.
func (s *ResultSlots) Put(r domain.WorkerResult) {
	b := s.record(r.Group)
	var flags uint64
	if r.Degenerate {
		flags = 1
	}
	binary.NativeEndian.PutUint64(b[0:8], math.Float64bits(r.Average))
	binary.NativeEndian.PutUint64(b[8:16], uint64(r.Counts.Low))
	binary.NativeEndian.PutUint64(b[16:24], uint64(r.Counts.Mid))
	binary.NativeEndian.PutUint64(b[24:32], uint64(r.Counts.High))
	binary.NativeEndian.PutUint64(b[32:40], uint64(r.Elapsed))
	binary.NativeEndian.PutUint64(b[40:48], flags)
}

// Get reads the record of group.
func (s *ResultSlots) Get(group int) domain.WorkerResult {
	b := s.record(group)
	return domain.WorkerResult{
		Group:   group,
		Average: math.Float64frombits(binary.NativeEndian.Uint64(b[0:8])),
		Counts: domain.Counts{
			Low:  int64(binary.NativeEndian.Uint64(b[8:16])),
			Mid:  int64(binary.NativeEndian.Uint64(b[16:24])),
			High: int64(binary.NativeEndian.Uint64(b[24:32])),
		},
		Elapsed:    time.Duration(binary.NativeEndian.Uint64(b[32:40])),
		Degenerate: binary.NativeEndian.Uint64(b[40:48]) == 1,
	}
}

// Turn returns the group whose report line is due next.
func (s *ResultSlots) Turn() int {
	return int(binary.NativeEndian.Uint64(s.seg.Bytes()[0:slotHeaderSize]))
}

// Advance moves the report turn to the next group.
func (s *ResultSlots) Advance() {
	binary.NativeEndian.PutUint64(s.seg.Bytes()[0:slotHeaderSize], uint64(s.Turn()+1))
}

func (s *ResultSlots) Detach() error {
	return s.seg.Detach()
}

func (s *ResultSlots) record(group int) []byte {
	off := slotHeaderSize + group*slotSize
	return s.seg.Bytes()[off : off+slotSize]
}
