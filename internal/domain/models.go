package domain

import (
	"errors"
	"fmt"
	"time"
)

// Пороговые значения категорий
const (
	MidThreshold  = 18
	HighThreshold = 28
)

// Config представляет конфигурацию приложения
type Config struct {
	Workers        int    `yaml:"workers"`
	TotalScores    int    `yaml:"total_scores"`
	MaxScore       int    `yaml:"max_score"`
	Seed           int64  `yaml:"seed"`
	LogLevel       string `yaml:"log_level"`
	LogFile        string `yaml:"log_file"`
	ThreadReport   string `yaml:"thread_report"`
	ProcessReport  string `yaml:"process_report"`
	ReportMaxLines int    `yaml:"report_max_lines"`
	ShmDir         string `yaml:"shm_dir"`
	SemaphoreName  string `yaml:"semaphore_name"`
	SummaryName    string `yaml:"summary_name"`
	DatasetName    string `yaml:"dataset_name"`
	ResultsName    string `yaml:"results_name"`
	MetricsFile    string `yaml:"metrics_file"`
}

// Validate checks the values setDefaults cannot repair.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	case c.TotalScores < 0:
		return fmt.Errorf("%w: total_scores must be >= 0, got %d", ErrInvalidConfig, c.TotalScores)
	case c.MaxScore < 0:
		return fmt.Errorf("%w: max_score must be >= 0, got %d", ErrInvalidConfig, c.MaxScore)
	case c.ReportMaxLines < 0:
		return fmt.Errorf("%w: report_max_lines must be >= 0, got %d", ErrInvalidConfig, c.ReportMaxLines)
	}
	return nil
}

// Dataset is the full set of scores. It is never written after generation.
type Dataset []int32

// Partition представляет непрерывный диапазон индексов одного воркера
type Partition struct {
	Group  int
	Start  int
	Length int
}

// End returns the exclusive upper bound of the partition.
func (p Partition) End() int {
	return p.Start + p.Length
}

// Counts holds the three category counters.
type Counts struct {
	Low  int64
	Mid  int64
	High int64
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{Low: c.Low + o.Low, Mid: c.Mid + o.Mid, High: c.High + o.High}
}

// Total returns Low+Mid+High.
func (c Counts) Total() int64 {
	return c.Low + c.Mid + c.High
}

// WorkerResult представляет результат одного воркера
type WorkerResult struct {
	Group      int
	Average    float64
	Counts     Counts
	Elapsed    time.Duration
	Degenerate bool
}

// Label returns the report label of the worker's group.
func (r WorkerResult) Label() string {
	return GroupLabel(r.Group)
}

// RunTiming представляет временные метки прогона
type RunTiming struct {
	Start time.Time
	End   time.Time
	Total time.Duration
}

var (
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")
	ErrInvalidDatasetSize = errors.New("dataset size must not be negative")
	ErrDegenerateChunk    = errors.New("degenerate chunk: partition has no scores")
	ErrChannelClosed      = errors.New("aggregation channel is closed")
	ErrSummaryMismatch    = errors.New("global summary does not match worker results")
	ErrInvalidConfig      = errors.New("invalid config")
)
