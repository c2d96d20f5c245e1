package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zpam/sentiment/pkg/config"
	"github.com/zpam/sentiment/pkg/dataset"
	"github.com/zpam/sentiment/pkg/learning"
	"github.com/zpam/sentiment/pkg/logging"
)

// loadSettings loads the configuration named by --config and builds the
// logger. --verbose forces debug logging.
func loadSettings() (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, closer, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logging: %v", err)
	}

	return cfg, logger, closer, nil
}

// newAccumulator returns the training backend selected in cfg. The returned
// release func must be called once the model has been built.
func newAccumulator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (learning.Accumulator, func(), error) {
	switch cfg.Learning.Backend {
	case "redis":
		rt, err := learning.NewRedisTrainer(ctx, cfg.Learning.Redis.LearningRedisConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis trainer: %v", err)
		}
		logger.Debug("using redis training backend", "run_id", rt.RunID())

		release := func() {
			if err := rt.Close(context.Background()); err != nil {
				logger.Warn("failed to clean up redis run", "run_id", rt.RunID(), "error", err)
			}
		}
		return rt, release, nil
	default:
		return learning.NewTrainer(), func() {}, nil
	}
}

// trainModel streams the training file into the configured backend and
// returns the finished model.
func trainModel(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) (*learning.Model, dataset.Stats, error) {
	f, err := dataset.OpenInput(path)
	if err != nil {
		return nil, dataset.Stats{}, err
	}
	defer f.Close()

	acc, release, err := newAccumulator(ctx, cfg, logger)
	if err != nil {
		return nil, dataset.Stats{}, err
	}
	defer release()

	stats, err := dataset.ReadTraining(f, cfg.Dataset.Training.Layout(), func(rec learning.Record) error {
		learned, err := acc.Learn(ctx, rec)
		if err != nil {
			return err
		}
		if !learned {
			logger.Debug("skipping training record", "label", int(rec.Label))
		}
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read training data: %v", err)
	}

	model, err := acc.Model(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to build model: %v", err)
	}

	logger.Debug("training data read",
		"rows", stats.Rows,
		"records", stats.Records,
		"short_rows", stats.ShortRows,
		"bad_fields", stats.BadFields,
	)

	return model, stats, nil
}
