//go:build unix

package ipc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Segment is a named, memory-mapped region of fixed size.
type Segment struct {
	name     string
	path     string
	data     []byte
	readOnly bool
}

// SegmentPath returns the file backing the segment called name in dir.
func SegmentPath(dir, name string) string {
	return filepath.Join(dir, strings.TrimLeft(name, "/"))
}

// CreateSegment creates (or resets a leaked) segment of size bytes, zeroed,
// and maps it read-write.
func CreateSegment(dir, name string, size int) (*Segment, error) {
	path := SegmentPath(dir, name)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("create segment %s: %w", name, err)
	}
	defer file.Close()

	// Обнуляем содержимое, оставшееся от прерванного прогона
	fd := int(file.Fd())
	if err := unix.Ftruncate(fd, 0); err != nil {
		return nil, fmt.Errorf("reset segment %s: %w", name, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, fmt.Errorf("size segment %s: %w", name, err)
	}

	return mapSegment(file, name, path, size, false)
}

// AttachSegment maps an existing segment. size must match the size it was
// created with.
func AttachSegment(dir, name string, size int, readOnly bool) (*Segment, error) {
	path := SegmentPath(dir, name)
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("attach segment %s: %w", name, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat segment %s: %w", name, err)
	}
	if info.Size() != int64(size) {
		return nil, fmt.Errorf("attach segment %s: size %d, want %d", name, info.Size(), size)
	}

	return mapSegment(file, name, path, size, readOnly)
}

func mapSegment(file *os.File, name, path string, size int, readOnly bool) (*Segment, error) {
	seg := &Segment{name: name, path: path, readOnly: readOnly}
	if size == 0 {
		// mmap не принимает нулевую длину
		return seg, nil
	}

	prot := unix.PROT_READ
	if !readOnly {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(file.Fd()), 0, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map segment %s: %w", name, err)
	}
	seg.data = data
	return seg, nil
}

// Bytes exposes the mapping. Writing to a read-only segment faults.
func (s *Segment) Bytes() []byte {
	return s.data
}

func (s *Segment) Name() string {
	return s.name
}

// Detach unmaps the segment. The name stays in the namespace.
func (s *Segment) Detach() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("unmap segment %s: %w", s.name, err)
	}
	return nil
}

// UnlinkSegment removes the segment name from dir. Existing mappings stay
// valid until they are detached.
func UnlinkSegment(dir, name string) error {
	if err := os.Remove(SegmentPath(dir, name)); err != nil {
		return fmt.Errorf("unlink segment %s: %w", name, err)
	}
	return nil
}
