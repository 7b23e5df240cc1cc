package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"gradebench/internal/domain"
)

// PromTextfileWriter dumps the metrics of a run in the Prometheus text
// exposition format, ready for a node_exporter textfile collector.
type PromTextfileWriter struct {
	logger *zap.Logger
}

func NewPromTextfileWriter(logger *zap.Logger) *PromTextfileWriter {
	return &PromTextfileWriter{logger: logger}
}

func (w *PromTextfileWriter) WriteRun(path string, report *domain.RunReport) error {
	registry := prometheus.NewRegistry()

	workerSeconds := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gradebench",
		Name:      "worker_elapsed_seconds",
		Help:      "Scan time of one worker.",
	}, []string{"backend", "group"})
	workerAverage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gradebench",
		Name:      "worker_average_score",
		Help:      "Average score of one worker partition.",
	}, []string{"backend", "group"})
	scores := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gradebench",
		Name:      "scores",
		Help:      "Classified scores of the run by category.",
	}, []string{"backend", "category"})
	runSeconds := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gradebench",
		Name:      "run_duration_seconds",
		Help:      "Wall time from spawn to join.",
	}, []string{"backend"})
	degenerate := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gradebench",
		Name:      "degenerate_chunks",
		Help:      "Workers that received an empty partition.",
	}, []string{"backend"})

	registry.MustRegister(workerSeconds, workerAverage, scores, runSeconds, degenerate)

	backend := report.Backend
	empty := 0
	for _, r := range report.Results {
		workerSeconds.WithLabelValues(backend, r.Label()).Set(r.Elapsed.Seconds())
		if r.Degenerate {
			empty++
			continue
		}
		workerAverage.WithLabelValues(backend, r.Label()).Set(r.Average)
	}
	scores.WithLabelValues(backend, "low").Set(float64(report.Summary.Low))
	scores.WithLabelValues(backend, "mid").Set(float64(report.Summary.Mid))
	scores.WithLabelValues(backend, "high").Set(float64(report.Summary.High))
	runSeconds.WithLabelValues(backend).Set(report.Timing.Total.Seconds())
	degenerate.WithLabelValues(backend).Set(float64(empty))

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return err
	}
	w.logger.Info("Metrics written", zap.String("file", path))
	return nil
}
