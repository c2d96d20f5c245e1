package learning

import (
	"time"

	"github.com/zpam/sentiment/pkg/tokenizer"
)

// Record is one labeled training post
type Record struct {
	Label Label
	Text  string
}

// TrainingStats summarizes what a trainer has accumulated so far
type TrainingStats struct {
	PositiveRecords int `json:"positive_records"`
	NegativeRecords int `json:"negative_records"`
	SkippedRecords  int `json:"skipped_records"`
	PositiveWords   int `json:"positive_words"`
	NegativeWords   int `json:"negative_words"`
}

// TrainerOption customizes a trainer
type TrainerOption func(*trainerOptions)

type trainerOptions struct {
	tokenize tokenizer.Func
	now      func() time.Time
}

// WithTokenizer replaces the default tokenizer
func WithTokenizer(fn tokenizer.Func) TrainerOption {
	return func(o *trainerOptions) {
		if fn != nil {
			o.tokenize = fn
		}
	}
}

func buildOptions(opts []TrainerOption) trainerOptions {
	o := trainerOptions{
		tokenize: tokenizer.Tokenize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Trainer accumulates per-class word frequencies. It is the only type that
// mutates frequency tables; Finalize hands out an immutable Model.
type Trainer struct {
	opts trainerOptions

	positive *FrequencyTable
	negative *FrequencyTable

	positiveRecords int
	negativeRecords int
	skipped         int

	lastTrained time.Time
}

// NewTrainer creates an empty trainer
func NewTrainer(opts ...TrainerOption) *Trainer {
	return &Trainer{
		opts:     buildOptions(opts),
		positive: NewFrequencyTable(),
		negative: NewFrequencyTable(),
	}
}

// Train adds one record to the tables. Records whose label is not Positive or
// Negative are skipped and Train returns false.
func (t *Trainer) Train(rec Record) bool {
	var table *FrequencyTable
	switch rec.Label {
	case Positive:
		table = t.positive
		t.positiveRecords++
	case Negative:
		table = t.negative
		t.negativeRecords++
	default:
		t.skipped++
		return false
	}

	for _, token := range t.opts.tokenize(rec.Text) {
		table.Add(token)
	}
	t.lastTrained = t.opts.now()

	return true
}

// TrainAll trains on every record and returns how many were accepted
func (t *Trainer) TrainAll(recs []Record) int {
	var accepted int
	for _, rec := range recs {
		if t.Train(rec) {
			accepted++
		}
	}
	return accepted
}

// Stats returns the current training counters
func (t *Trainer) Stats() TrainingStats {
	return TrainingStats{
		PositiveRecords: t.positiveRecords,
		NegativeRecords: t.negativeRecords,
		SkippedRecords:  t.skipped,
		PositiveWords:   t.positive.Total(),
		NegativeWords:   t.negative.Total(),
	}
}

// Finalize snapshots the tables into a Model. Training may continue afterwards
// without affecting the returned model.
func (t *Trainer) Finalize() *Model {
	return newModel(t.opts.tokenize, t.positive.clone(), t.negative.clone(), t.Stats(), t.lastTrained)
}
