package infrastructure

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"gradebench/internal/domain"
)

// ConsolePrinter prints the run summary in the same layout as the report.
type ConsolePrinter struct{}

func NewConsolePrinter() *ConsolePrinter {
	return &ConsolePrinter{}
}

func (p *ConsolePrinter) PrintRun(w io.Writer, report *domain.RunReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== %s ===\n", strings.ToUpper(report.Backend))
	for _, line := range report.Readback {
		fmt.Fprintln(&b, line)
	}

	fmt.Fprintf(&b, "\n=== Totales Globales ===\n")
	fmt.Fprintf(&b, "Reprobados: %d\n", report.Summary.Low)
	fmt.Fprintf(&b, "Aprobados (18-27.99): %d\n", report.Summary.Mid)
	fmt.Fprintf(&b, "Aprobados (28-40): %d\n", report.Summary.High)
	if avg, ok := GlobalAverage(report.Results); ok {
		fmt.Fprintf(&b, "Promedio global: %.2f\n", avg)
	}
	mean, std := WorkerTimeSpread(report.Results)
	fmt.Fprintf(&b, "Tiempo por grupo: %.6f s ± %.6f s\n", mean, std)

	fmt.Fprintf(&b, "\n=== Resumen (%s) ===\n", strings.ToUpper(report.Backend))
	b.WriteString(FormatTiming(report.Timing))

	_, err := io.WriteString(w, b.String())
	return err
}

// GlobalAverage is the length-weighted mean of the worker averages,
// skipping degenerate workers. ok is false when no worker saw any score.
func GlobalAverage(results []domain.WorkerResult) (float64, bool) {
	var avgs, weights []float64
	for _, r := range results {
		if r.Degenerate || math.IsNaN(r.Average) {
			continue
		}
		avgs = append(avgs, r.Average)
		weights = append(weights, float64(r.Counts.Total()))
	}
	if len(avgs) == 0 {
		return 0, false
	}
	return stat.Mean(avgs, weights), true
}

// WorkerTimeSpread returns the mean and standard deviation of the worker
// scan times in seconds.
func WorkerTimeSpread(results []domain.WorkerResult) (float64, float64) {
	if len(results) == 0 {
		return 0, 0
	}
	secs := make([]float64, len(results))
	for i, r := range results {
		secs[i] = r.Elapsed.Seconds()
	}
	if len(secs) == 1 {
		return secs[0], 0
	}
	return stat.MeanStdDev(secs, nil)
}
