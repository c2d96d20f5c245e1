// Package metrics counts what a classification run did and exports the
// counters in the Prometheus text format.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zpam/sentiment/pkg/dataset"
	"github.com/zpam/sentiment/pkg/evaluation"
	"github.com/zpam/sentiment/pkg/learning"
)

// Recorder holds the run's metrics in its own registry
type Recorder struct {
	registry *prometheus.Registry

	trainingRecords *prometheus.CounterVec
	skippedRecords  *prometheus.CounterVec
	predictions     *prometheus.CounterVec
	vocabulary      *prometheus.GaugeVec
	words           *prometheus.GaugeVec
	accuracy        prometheus.Gauge
	evaluated       *prometheus.GaugeVec
}

// NewRecorder creates a recorder with all metrics registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		trainingRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_training_records_total",
				Help: "Training records accepted, by label",
			},
			[]string{"label"},
		),
		skippedRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_skipped_records_total",
				Help: "Rows that did not reach the model, by stage and reason",
			},
			[]string{"stage", "reason"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiment_predictions_total",
				Help: "Predictions made, by predicted label",
			},
			[]string{"label"},
		),
		vocabulary: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentiment_vocabulary_words",
				Help: "Distinct tokens in each class table",
			},
			[]string{"label"},
		),
		words: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentiment_class_words",
				Help: "Total tokens counted in each class table",
			},
			[]string{"label"},
		),
		accuracy: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentiment_evaluation_accuracy",
				Help: "Share of correct predictions among posts with ground truth",
			},
		),
		evaluated: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentiment_evaluation_records",
				Help: "Evaluated posts, by outcome",
			},
			[]string{"outcome"},
		),
	}

	r.registry.MustRegister(
		r.trainingRecords,
		r.skippedRecords,
		r.predictions,
		r.vocabulary,
		r.words,
		r.accuracy,
		r.evaluated,
	)

	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRead records the rows a reader dropped at the given stage
func (r *Recorder) ObserveRead(stage string, stats dataset.Stats) {
	r.skippedRecords.WithLabelValues(stage, "short_row").Add(float64(stats.ShortRows))
	r.skippedRecords.WithLabelValues(stage, "bad_field").Add(float64(stats.BadFields))
}

// ObserveTraining records the trainer's counters and the model's table sizes
func (r *Recorder) ObserveTraining(model *learning.Model) {
	info := model.Info()

	r.trainingRecords.WithLabelValues(learning.Positive.String()).Add(float64(info.PositiveRecords))
	r.trainingRecords.WithLabelValues(learning.Negative.String()).Add(float64(info.NegativeRecords))
	r.skippedRecords.WithLabelValues("training", "unrecognized_label").Add(float64(info.SkippedRecords))

	r.vocabulary.WithLabelValues(learning.Positive.String()).Set(float64(info.PositiveVocabulary))
	r.vocabulary.WithLabelValues(learning.Negative.String()).Set(float64(info.NegativeVocabulary))
	r.words.WithLabelValues(learning.Positive.String()).Set(float64(info.PositiveWords))
	r.words.WithLabelValues(learning.Negative.String()).Set(float64(info.NegativeWords))
}

// ObservePrediction counts one prediction
func (r *Recorder) ObservePrediction(p evaluation.Prediction) {
	r.predictions.WithLabelValues(p.Label.String()).Inc()
}

// ObserveResult records the evaluation outcome
func (r *Recorder) ObserveResult(result *evaluation.Result) {
	r.accuracy.Set(result.Accuracy())
	r.evaluated.WithLabelValues("correct").Set(float64(result.Correct))
	r.evaluated.WithLabelValues("incorrect").Set(float64(result.Total - result.Correct))
	r.evaluated.WithLabelValues("missing_ground_truth").Set(float64(result.Missing))
}

// WriteTextfile writes all metrics to path for node_exporter's textfile
// collector
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
