package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpam/sentiment/pkg/dataset"
	"github.com/zpam/sentiment/pkg/evaluation"
	"github.com/zpam/sentiment/pkg/learning"
)

func TestRecorderObservations(t *testing.T) {
	r := NewRecorder()

	trainer := learning.NewTrainer()
	trainer.TrainAll([]learning.Record{
		{Label: learning.Positive, Text: "good good day"},
		{Label: learning.Negative, Text: "bad day"},
		{Label: 2, Text: "meh"},
	})
	r.ObserveTraining(trainer.Finalize())
	r.ObserveRead("training", dataset.Stats{Rows: 5, Records: 3, ShortRows: 1, BadFields: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.trainingRecords.WithLabelValues("positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.skippedRecords.WithLabelValues("training", "unrecognized_label")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.skippedRecords.WithLabelValues("training", "short_row")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.vocabulary.WithLabelValues("positive")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.words.WithLabelValues("positive")))

	r.ObservePrediction(evaluation.Prediction{ID: 1, Label: learning.Positive})
	r.ObservePrediction(evaluation.Prediction{ID: 2, Label: learning.Positive})
	assert.Equal(t, 2.0, testutil.ToFloat64(r.predictions.WithLabelValues("positive")))

	r.ObserveResult(&evaluation.Result{Total: 4, Correct: 3, Missing: 1})
	assert.Equal(t, 0.75, testutil.ToFloat64(r.accuracy))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluated.WithLabelValues("incorrect")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveResult(&evaluation.Result{Total: 2, Correct: 1})

	path := filepath.Join(t.TempDir(), "sentiment.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sentiment_evaluation_accuracy 0.5")
}

func TestWriteTextfileBadPath(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
