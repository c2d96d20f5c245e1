// Package evaluation scores a classifier's predictions against ground truth.
package evaluation

import (
	"github.com/zpam/sentiment/pkg/dataset"
	"github.com/zpam/sentiment/pkg/learning"
)

// Predictor labels a post. *learning.Model satisfies it.
type Predictor interface {
	Predict(text string) learning.Label
}

// Prediction is one entry of the prediction stream
type Prediction struct {
	ID    int64
	Label learning.Label
}

// Misclassification records the actual label of a post that was predicted
// wrong
type Misclassification struct {
	Actual learning.Label
	ID     int64
}

// Result is the outcome of an evaluation run
type Result struct {
	Predicted int // every record seen
	Total     int // records with ground truth
	Correct   int
	Missing   int // records without ground truth

	Errors    []Misclassification
	Confusion Confusion
}

// Accuracy returns Correct/Total, or 0 when no record had ground truth
func (r *Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Evaluator accumulates a Result one test record at a time
type Evaluator struct {
	predictor Predictor
	truth     dataset.GroundTruth
	result    Result
}

// NewEvaluator creates an evaluator; truth is only read
func NewEvaluator(p Predictor, truth dataset.GroundTruth) *Evaluator {
	return &Evaluator{
		predictor: p,
		truth:     truth,
		result:    Result{Confusion: newConfusion()},
	}
}

// Observe predicts rec and, when its id has ground truth, scores the
// prediction.
func (e *Evaluator) Observe(rec dataset.TestRecord) Prediction {
	label := e.predictor.Predict(rec.Text)
	e.result.Predicted++

	actual, ok := e.truth.Lookup(rec.ID)
	if !ok {
		e.result.Missing++
		return Prediction{ID: rec.ID, Label: label}
	}

	e.result.Total++
	e.result.Confusion.add(actual, label)
	if label == actual {
		e.result.Correct++
	} else {
		e.result.Errors = append(e.result.Errors, Misclassification{Actual: actual, ID: rec.ID})
	}

	return Prediction{ID: rec.ID, Label: label}
}

// Result returns the result accumulated so far
func (e *Evaluator) Result() *Result {
	r := e.result
	r.Errors = append([]Misclassification(nil), e.result.Errors...)
	r.Confusion = e.result.Confusion.clone()
	return &r
}

// Evaluate predicts every test record in order, hands each prediction to emit
// and scores it against truth. An emit error stops the run and is returned.
// emit may be nil.
func Evaluate(p Predictor, tests []dataset.TestRecord, truth dataset.GroundTruth, emit func(Prediction) error) (*Result, error) {
	e := NewEvaluator(p, truth)
	for _, rec := range tests {
		prediction := e.Observe(rec)
		if emit == nil {
			continue
		}
		if err := emit(prediction); err != nil {
			return e.Result(), err
		}
	}
	return e.Result(), nil
}
