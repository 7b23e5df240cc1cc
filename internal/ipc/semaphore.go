//go:build unix

package ipc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Semaphore is a named binary semaphore with one initial permit.
type Semaphore struct {
	name string
	file *os.File
	// mu keeps goroutines sharing this handle out of each other's way;
	// flock alone does not, since they share one open file description.
	mu sync.Mutex
}

// SemaphorePath returns the file backing the semaphore called name in dir.
func SemaphorePath(dir, name string) string {
	return filepath.Join(dir, "sem."+strings.TrimLeft(name, "/"))
}

// CreateSemaphore creates the named semaphore, or reuses a leaked one.
func CreateSemaphore(dir, name string) (*Semaphore, error) {
	file, err := os.OpenFile(SemaphorePath(dir, name), os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("create semaphore %s: %w", name, err)
	}
	return &Semaphore{name: name, file: file}, nil
}

// OpenSemaphore opens a semaphore created by another process.
func OpenSemaphore(dir, name string) (*Semaphore, error) {
	file, err := os.OpenFile(SemaphorePath(dir, name), os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open semaphore %s: %w", name, err)
	}
	return &Semaphore{name: name, file: file}, nil
}

// Acquire blocks until the permit is available.
func (s *Semaphore) Acquire() error {
	s.mu.Lock()
	for {
		err := unix.Flock(int(s.file.Fd()), unix.LOCK_EX)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EINTR) {
			s.mu.Unlock()
			return fmt.Errorf("acquire semaphore %s: %w", s.name, err)
		}
	}
}

// Release returns the permit taken by Acquire.
func (s *Semaphore) Release() error {
	defer s.mu.Unlock()
	if err := unix.Flock(int(s.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("release semaphore %s: %w", s.name, err)
	}
	return nil
}

// Do runs fn while holding the permit.
func (s *Semaphore) Do(fn func() error) error {
	if err := s.Acquire(); err != nil {
		return err
	}
	fnErr := fn()
	if err := s.Release(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// Close releases this handle. It waits for any Acquire/Release in flight on
// the same handle. The name stays in the namespace.
func (s *Semaphore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// UnlinkSemaphore removes the semaphore name from dir.
func UnlinkSemaphore(dir, name string) error {
	if err := os.Remove(SemaphorePath(dir, name)); err != nil {
		return fmt.Errorf("unlink semaphore %s: %w", name, err)
	}
	return nil
}
