package domain

// Aggregator is a mutually exclusive counter vector shared by every worker
// of a run. Add is atomic with respect to every other Add and Snapshot never
// observes a partially applied Add.
type Aggregator interface {
	Add(c Counts) error
	Snapshot() (Counts, error)
	Close() error
}

// RunReport is everything a finished run hands back to its caller.
type RunReport struct {
	RunID      string
	Backend    string
	ReportPath string
	Mode       WriteMode
	Results    []WorkerResult
	Summary    Counts
	Timing     RunTiming
	// Readback holds the lines of this run's block as read from the report.
	Readback []string
}
