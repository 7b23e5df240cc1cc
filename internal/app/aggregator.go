package app

import (
	"sync"

	"gradebench/internal/domain"
)

// LocalAggregator is the in-process domain.Aggregator. It lives from
// NewLocalAggregator until Close.
type LocalAggregator struct {
	mu     sync.Mutex
	counts domain.Counts
	closed bool
}

func NewLocalAggregator() *LocalAggregator {
	return &LocalAggregator{}
}

func (a *LocalAggregator) Add(c domain.Counts) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.ErrChannelClosed
	}
	a.counts = a.counts.Add(c)
	return nil
}

func (a *LocalAggregator) Snapshot() (domain.Counts, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.Counts{}, domain.ErrChannelClosed
	}
	return a.counts, nil
}

func (a *LocalAggregator) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}
