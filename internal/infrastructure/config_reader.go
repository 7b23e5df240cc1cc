package infrastructure

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"gradebench/internal/domain"
)

type YAMLConfigReader struct {
	logger *zap.Logger
}

func NewYAMLConfigReader(logger *zap.Logger) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger}
}

// ReadConfig loads path and fills in defaults. An empty path yields the
// default configuration.
func (r *YAMLConfigReader) ReadConfig(path string) (*domain.Config, error) {
	var config domain.Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, path, err)
		}
		r.logger.Debug("Config file loaded", zap.String("path", path))
	}

	// Устанавливаем значения по умолчанию
	SetDefaults(&config)

	return &config, nil
}

// SetDefaults fills every zero field of config with its default.
func SetDefaults(config *domain.Config) {
	if config.Workers == 0 {
		config.Workers = 8
	}
	if config.TotalScores == 0 {
		config.TotalScores = 20_000_000
	}
	if config.MaxScore == 0 {
		config.MaxScore = 40
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ThreadReport == "" {
		config.ThreadReport = "resultados_hilos.txt"
	}
	if config.ProcessReport == "" {
		config.ProcessReport = "resultados_procesos.txt"
	}
	if config.ReportMaxLines == 0 {
		config.ReportMaxLines = 12
	}
	if config.ShmDir == "" {
		config.ShmDir = defaultShmDir()
	}
	if config.SemaphoreName == "" {
		config.SemaphoreName = "file_sem"
	}
	if config.SummaryName == "" {
		config.SummaryName = "resumen_global"
	}
	if config.DatasetName == "" {
		config.DatasetName = "notas_dataset"
	}
	if config.ResultsName == "" {
		config.ResultsName = "resultados_grupos"
	}
}

// defaultShmDir prefers the tmpfs that backs POSIX shared memory on Linux.
func defaultShmDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}
