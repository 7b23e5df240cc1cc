package infrastructure

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const totalDurationPrefix = "Duración total"

// ErrDurationNotFound is returned when a report has no total duration line.
var ErrDurationNotFound = errors.New("total duration line not found")

type TXTReportReader struct {
	logger *zap.Logger
}

func NewTXTReportReader(logger *zap.Logger) *TXTReportReader {
	return &TXTReportReader{logger: logger}
}

// Tail returns the last n lines of path.
func (r *TXTReportReader) Tail(path string, n int) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// LastTotalDuration returns the seconds of the most recent
// "Duración total" line in path.
func (r *TXTReportReader) LastTotalDuration(path string) (float64, error) {
	lines, err := readLines(path)
	if err != nil {
		return 0, err
	}

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.HasPrefix(line, totalDurationPrefix) {
			continue
		}
		// Число после ':' и до " segundos"
		_, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		value, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			r.logger.Warn("Malformed duration line", zap.String("file", path), zap.String("line", line))
			continue
		}
		return value, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrDurationNotFound)
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
