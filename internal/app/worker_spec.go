package app

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gradebench/internal/domain"
)

// WorkerSpecEnv carries the YAML-encoded WorkerSpec to a worker process.
const WorkerSpecEnv = "GRADEBENCH_WORKER_SPEC"

var ErrNoWorkerSpec = errors.New(WorkerSpecEnv + " is not set")

// WorkerSpec is everything a worker process needs to find its partition and
// the named resources of the run.
type WorkerSpec struct {
	RunID         string `yaml:"run_id"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	Group         int    `yaml:"group"`
	Start         int    `yaml:"start"`
	Length        int    `yaml:"length"`
	TotalScores   int    `yaml:"total_scores"`
	Workers       int    `yaml:"workers"`
	ShmDir        string `yaml:"shm_dir"`
	SemaphoreName string `yaml:"semaphore_name"`
	SummaryName   string `yaml:"summary_name"`
	DatasetName   string `yaml:"dataset_name"`
	ResultsName   string `yaml:"results_name"`
	ReportPath    string `yaml:"report_path"`
}

func (s WorkerSpec) Partition() domain.Partition {
	return domain.Partition{Group: s.Group, Start: s.Start, Length: s.Length}
}

// Encode returns the value to place in WorkerSpecEnv.
func (s WorkerSpec) Encode() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WorkerSpecFromEnv decodes the spec passed by the parent process.
func WorkerSpecFromEnv() (WorkerSpec, error) {
	raw, ok := os.LookupEnv(WorkerSpecEnv)
	if !ok {
		return WorkerSpec{}, ErrNoWorkerSpec
	}
	var spec WorkerSpec
	if err := yaml.Unmarshal([]byte(raw), &spec); err != nil {
		return WorkerSpec{}, fmt.Errorf("decode %s: %w", WorkerSpecEnv, err)
	}
	if spec.Group < 0 || spec.Group >= spec.Workers || spec.Start < 0 || spec.Length < 0 ||
		spec.Start+spec.Length > spec.TotalScores {
		return WorkerSpec{}, fmt.Errorf("%w: worker spec out of range: %+v", domain.ErrInvalidConfig, spec)
	}
	return spec, nil
}
