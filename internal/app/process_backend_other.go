//go:build !unix

package app

import (
	"errors"

	"go.uber.org/zap"

	"gradebench/internal/domain"
)

const ProcessBackendName = "procesos"

var errProcessesUnsupported = errors.New("process backend needs a unix system")

type ProcessBackend struct{}

func NewProcessBackend(*zap.Logger, *domain.Config, string, ...string) *ProcessBackend {
	return &ProcessBackend{}
}

func (b *ProcessBackend) Name() string { return ProcessBackendName }

func (b *ProcessBackend) WritesResults() bool { return true }

func (b *ProcessBackend) Execute(Job) ([]domain.WorkerResult, domain.Counts, error) {
	return nil, domain.Counts{}, errProcessesUnsupported
}

func RunProcessWorker(*zap.Logger, WorkerSpec, domain.ResultSink) error {
	return errProcessesUnsupported
}
