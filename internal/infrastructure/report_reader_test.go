package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLastTotalDurationPicksNewestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	content := "Grupo A | Promedio: 1.00 | Reprobados: 1 | Aprobados (18-27.99): 0 | Aprobados (28-40): 0 | Tiempo: 0.000001 s\n" +
		"Duración total: 2.500000 segundos\n" +
		"Grupo A | Promedio: 1.00 | Reprobados: 1 | Aprobados (18-27.99): 0 | Aprobados (28-40): 0 | Tiempo: 0.000001 s\n" +
		"Duración total: 0.750000 segundos\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewTXTReportReader(zap.NewNop()).LastTotalDuration(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-9)
}

func TestLastTotalDurationMissingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("Grupo A\n"), 0o644))

	_, err := NewTXTReportReader(zap.NewNop()).LastTotalDuration(path)
	assert.ErrorIs(t, err, ErrDurationNotFound)
}

func TestLastTotalDurationReadsWriterOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, NewTXTReportWriter(zap.NewNop(), 12).WriteRun(path, sampleResults(), sampleTiming()))

	got, err := NewTXTReportReader(zap.NewNop()).LastTotalDuration(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got, 1e-9)
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\n"), 0o644))

	r := NewTXTReportReader(zap.NewNop())
	lines, err := r.Tail(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, lines)

	lines, err = r.Tail(path, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
}
