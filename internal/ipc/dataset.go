//go:build unix

package ipc

import (
	"unsafe"

	"gradebench/internal/domain"
)

const scoreSize = int(unsafe.Sizeof(int32(0)))

// DatasetSize is the byte size of a dataset segment holding n scores.
func DatasetSize(n int) int {
	return n * scoreSize
}

// PublishDataset copies data into a new named segment. Workers map it
// read-only; nobody writes it after this call.
func PublishDataset(dir, name string, data domain.Dataset) (*Segment, error) {
	seg, err := CreateSegment(dir, name, DatasetSize(len(data)))
	if err != nil {
		return nil, err
	}
	copy(DatasetView(seg, len(data)), data)
	return seg, nil
}

// AttachDataset maps a published dataset of n scores read-only and returns
// a view over it. The view is invalid after the segment is detached.
func AttachDataset(dir, name string, n int) (domain.Dataset, *Segment, error) {
	seg, err := AttachSegment(dir, name, DatasetSize(n), true)
	if err != nil {
		return nil, nil, err
	}
	return DatasetView(seg, n), seg, nil
}

// DatasetView reinterprets the segment bytes as n scores without copying.
func DatasetView(seg *Segment, n int) domain.Dataset {
	b := seg.Bytes()
	if n == 0 || len(b) == 0 {
		return domain.Dataset{}
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&b[0])), n)
}
