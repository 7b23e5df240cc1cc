package app

import "gradebench/internal/domain"

// Job is one run handed to a Backend.
type Job struct {
	RunID      string
	Data       domain.Dataset
	Partitions []domain.Partition
	ReportPath string
}

// Backend runs one worker per partition and returns once every worker has
// finished, with the results in group order and the aggregated summary.
// It owns the aggregation channel and releases it before returning.
type Backend interface {
	Name() string
	Execute(job Job) ([]domain.WorkerResult, domain.Counts, error)
	// WritesResults reports whether worker lines reach the report during
	// Execute. Otherwise the caller writes them afterwards.
	WritesResults() bool
}
