package app

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"gradebench/internal/domain"
)

// Comparator reads the newest total duration of each backend's report and
// prints which backend was faster.
type Comparator struct {
	logger *zap.Logger
	reader domain.ReportReader
}

func NewComparator(logger *zap.Logger, reader domain.ReportReader) *Comparator {
	return &Comparator{logger: logger, reader: reader}
}

func (c *Comparator) Compare(w io.Writer, processReport, threadReport string) error {
	tProc, errProc := c.reader.LastTotalDuration(processReport)
	tThread, errThread := c.reader.LastTotalDuration(threadReport)
	if errProc != nil || errThread != nil || tProc <= 0 || tThread <= 0 {
		c.logger.Warn("Could not extract durations",
			zap.NamedError("process_error", errProc),
			zap.NamedError("thread_error", errThread))
		_, err := fmt.Fprintf(w, "\nNo se pudo extraer el tiempo de ambos resultados.\n")
		return err
	}

	_, err := fmt.Fprintf(w, "\n=== Comparativa de tiempos ===\nProcesos: %.6f s\nHilos   : %.6f s\n\n%s\n",
		tProc, tThread, Verdict(tProc, tThread))
	return err
}

// Verdict names the faster backend.
func Verdict(tProc, tThread float64) string {
	switch {
	case tProc < tThread:
		return "Procesos fue más rápido."
	case tThread < tProc:
		return "Hilos fue más rápido."
	default:
		return "Ambos tuvieron el mismo tiempo."
	}
}
