package domain

import "io"

// ConfigReader интерфейс для чтения конфигурации
type ConfigReader interface {
	ReadConfig(path string) (*Config, error)
}

// WriteMode is the outcome of the report line-count check.
type WriteMode int

const (
	ModeAppend WriteMode = iota
	ModeRewrite
)

func (m WriteMode) String() string {
	if m == ModeRewrite {
		return "rewrite"
	}
	return "append"
}

// ResultSink интерфейс для записи отчёта
type ResultSink interface {
	Prepare(path string) (WriteMode, error)
	WriteRun(path string, results []WorkerResult, timing RunTiming) error
	AppendResult(path string, result WorkerResult) error
	AppendTiming(path string, timing RunTiming) error
	// Commit appends the staged block to path and removes staged.
	Commit(staged, path string) error
	// Discard removes staged. A missing file is not an error.
	Discard(staged string) error
}

// ReportReader интерфейс для чтения отчёта
type ReportReader interface {
	Tail(path string, n int) ([]string, error)
	LastTotalDuration(path string) (float64, error)
}

// DatasetGenerator produces the scores of one run.
type DatasetGenerator interface {
	Generate(n int) Dataset
}

// Printer renders the console summary of a run.
type Printer interface {
	PrintRun(w io.Writer, report *RunReport) error
}
