package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebench/internal/domain"
	"gradebench/internal/infrastructure"
)

// writeConfig writes a config that keeps every report inside dir.
func writeConfig(t *testing.T, dir string, extra string) string {
	t.Helper()
	content := fmt.Sprintf(`workers: 5
total_scores: 100
log_level: error
thread_report: %s
process_report: %s
shm_dir: %s
%s`,
		filepath.Join(dir, "resultados_hilos.txt"),
		filepath.Join(dir, "resultados_procesos.txt"),
		dir, extra)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(c *cli, args ...string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestLoadKeepsFileValuesWithoutFlags(t *testing.T) {
	dir := t.TempDir()
	c := &cli{}

	require.NoError(t, execute(c, "--config", writeConfig(t, dir, ""), "threads"))

	assert.Equal(t, 5, c.config.Workers)
	assert.Equal(t, 100, c.config.TotalScores)

	lines, err := infrastructure.NewTXTReportReader(c.logger).Tail(c.config.ThreadReport, 100)
	require.NoError(t, err)
	assert.Len(t, lines, 5+3)
}

func TestLoadFlagsOverrideFileValues(t *testing.T) {
	dir := t.TempDir()
	c := &cli{}

	require.NoError(t, execute(c, "--config", writeConfig(t, dir, ""), "--workers", "3", "hilos"))

	assert.Equal(t, 3, c.config.Workers)
	assert.Equal(t, 100, c.config.TotalScores, "unset flag must not clobber the file value")

	lines, err := infrastructure.NewTXTReportReader(c.logger).Tail(c.config.ThreadReport, 100)
	require.NoError(t, err)
	assert.Len(t, lines, 3+3)
}

func TestLoadExplicitZeroFlagIsValidated(t *testing.T) {
	dir := t.TempDir()
	c := &cli{}

	err := execute(c, "--config", writeConfig(t, dir, ""), "--workers", "0", "threads")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.NoFileExists(t, filepath.Join(dir, "resultados_hilos.txt"))
}

func TestLoadResolvesSeedOnce(t *testing.T) {
	dir := t.TempDir()
	c := &cli{}

	require.NoError(t, execute(c, "--config", writeConfig(t, dir, ""), "threads"))
	require.NotZero(t, c.config.Seed)

	first := c.generator().Generate(c.config.TotalScores)
	second := c.generator().Generate(c.config.TotalScores)
	assert.Equal(t, first, second)
}

func TestLoadKeepsConfiguredSeed(t *testing.T) {
	dir := t.TempDir()
	c := &cli{}

	require.NoError(t, execute(c, "--config", writeConfig(t, dir, "seed: 42\n"), "--seed", "7", "threads"))
	assert.EqualValues(t, 7, c.config.Seed)

	c = &cli{}
	require.NoError(t, execute(c, "--config", writeConfig(t, dir, "seed: 42\n"), "threads"))
	assert.EqualValues(t, 42, c.config.Seed)
}
