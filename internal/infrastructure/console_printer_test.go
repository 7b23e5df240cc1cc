package infrastructure

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebench/internal/domain"
)

func TestGlobalAverageIsWeighted(t *testing.T) {
	results := []domain.WorkerResult{
		{Average: 10, Counts: domain.Counts{Low: 1}},
		{Average: 30, Counts: domain.Counts{High: 3}},
		{Degenerate: true},
	}
	avg, ok := GlobalAverage(results)
	require.True(t, ok)
	assert.InDelta(t, 25.0, avg, 1e-9)

	_, ok = GlobalAverage([]domain.WorkerResult{{Degenerate: true}})
	assert.False(t, ok)
}

func TestConsolePrinter(t *testing.T) {
	results := sampleResults()
	report := &domain.RunReport{
		Backend:  "hilos",
		Results:  results,
		Summary:  domain.SumCounts(results),
		Timing:   sampleTiming(),
		Readback: []string{"Grupo A | ...", "Grupo B | ..."},
	}

	var out bytes.Buffer
	require.NoError(t, NewConsolePrinter().PrintRun(&out, report))

	text := out.String()
	assert.Contains(t, text, "=== HILOS ===\nGrupo A | ...\nGrupo B | ...\n")
	assert.Contains(t, text, "Reprobados: 3\n")
	assert.Contains(t, text, "Aprobados (18-27.99): 2\n")
	assert.Contains(t, text, "Aprobados (28-40): 3\n")
	assert.Contains(t, text, "=== Resumen (HILOS) ===\n")
	assert.Contains(t, text, "Duración total: 1.500000 segundos\n")
}
