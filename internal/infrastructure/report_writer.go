package infrastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"gradebench/internal/domain"
)

const stampLayout = "Mon Jan 02 15:04:05"

// TXTReportWriter writes the flat text report shared with the comparison
// tooling. The line layout must not change.
type TXTReportWriter struct {
	logger   *zap.Logger
	maxLines int
}

func NewTXTReportWriter(logger *zap.Logger, maxLines int) *TXTReportWriter {
	return &TXTReportWriter{logger: logger, maxLines: maxLines}
}

// Prepare counts the lines already in path. Above maxLines the file is
// truncated so the run starts a fresh report; otherwise new lines are
// appended after the existing history.
func (w *TXTReportWriter) Prepare(path string) (domain.WriteMode, error) {
	lines, err := countLines(path)
	if err != nil {
		return domain.ModeAppend, err
	}

	mode := domain.ModeAppend
	if lines > w.maxLines {
		mode = domain.ModeRewrite
		if err := os.Truncate(path, 0); err != nil {
			return mode, fmt.Errorf("truncate report %s: %w", path, err)
		}
	}

	w.logger.Debug("Report prepared",
		zap.String("file", path),
		zap.Int("existing_lines", lines),
		zap.Stringer("mode", mode))
	return mode, nil
}

// WriteRun appends every result in group order followed by the timing block.
func (w *TXTReportWriter) WriteRun(path string, results []domain.WorkerResult, timing domain.RunTiming) error {
	return appendTo(path, func(out io.Writer) error {
		for _, r := range results {
			if _, err := io.WriteString(out, FormatResult(r)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(out, FormatTiming(timing))
		return err
	})
}

// AppendResult appends a single worker line. Callers running in separate
// processes must serialize it themselves.
func (w *TXTReportWriter) AppendResult(path string, result domain.WorkerResult) error {
	return appendTo(path, func(out io.Writer) error {
		_, err := io.WriteString(out, FormatResult(result))
		return err
	})
}

func (w *TXTReportWriter) AppendTiming(path string, timing domain.RunTiming) error {
	return appendTo(path, func(out io.Writer) error {
		_, err := io.WriteString(out, FormatTiming(timing))
		return err
	})
}

func (w *TXTReportWriter) Commit(staged, path string) error {
	src, err := os.Open(staged)
	if err != nil {
		return fmt.Errorf("open staged report %s: %w", staged, err)
	}
	defer src.Close()

	if err := appendTo(path, func(out io.Writer) error {
		_, err := io.Copy(out, src)
		return err
	}); err != nil {
		return err
	}
	w.logger.Debug("Staged report committed", zap.String("staged", staged), zap.String("file", path))
	return w.Discard(staged)
}

func (w *TXTReportWriter) Discard(staged string) error {
	if err := os.Remove(staged); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove staged report %s: %w", staged, err)
	}
	return nil
}

// FormatResult renders one worker line including the trailing newline.
func FormatResult(r domain.WorkerResult) string {
	return fmt.Sprintf("Grupo %s | Promedio: %.2f | Reprobados: %d | Aprobados (18-27.99): %d | Aprobados (28-40): %d | Tiempo: %.6f s\n",
		r.Label(), r.Average, r.Counts.Low, r.Counts.Mid, r.Counts.High, r.Elapsed.Seconds())
}

// FormatTiming renders the three-line timing block.
func FormatTiming(t domain.RunTiming) string {
	return fmt.Sprintf("Inicio: %s\nFin: %s\nDuración total: %.6f segundos\n",
		FormatStamp(t.Start), FormatStamp(t.End), t.Total.Seconds())
}

// FormatStamp renders "Mon Jan 02 15:04:05:000000000 2006" in local time.
func FormatStamp(ts time.Time) string {
	ts = ts.Local()
	return fmt.Sprintf("%s:%09d %d", ts.Format(stampLayout), ts.Nanosecond(), ts.Year())
}

func appendTo(path string, write func(io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open report %s: %w", path, err)
	}

	writer := bufio.NewWriter(file)
	if err := write(writer); err != nil {
		file.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush report %s: %w", path, err)
	}
	return file.Close()
}

func countLines(path string) (int, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open report %s: %w", path, err)
	}
	defer file.Close()

	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read report %s: %w", path, err)
	}
	return lines, nil
}
