package learning

import "context"

// Accumulator is the training phase of the classifier, independent of where
// the frequency tables live while they are being built.
type Accumulator interface {
	Learn(ctx context.Context, rec Record) (bool, error)
	Model(ctx context.Context) (*Model, error)
	Stats() TrainingStats
}

// Learn implements Accumulator for the in-memory trainer
func (t *Trainer) Learn(_ context.Context, rec Record) (bool, error) {
	return t.Train(rec), nil
}

// Model implements Accumulator for the in-memory trainer
func (t *Trainer) Model(_ context.Context) (*Model, error) {
	return t.Finalize(), nil
}

var _ Accumulator = (*Trainer)(nil)      // In-memory tables
var _ Accumulator = (*RedisTrainer)(nil) // Redis hashes scoped to one run
