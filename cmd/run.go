package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/sentiment/pkg/config"
	"github.com/zpam/sentiment/pkg/dataset"
	"github.com/zpam/sentiment/pkg/evaluation"
	"github.com/zpam/sentiment/pkg/learning"
	"github.com/zpam/sentiment/pkg/metrics"
	"github.com/zpam/sentiment/pkg/profiler"
)

var (
	runProfile     bool
	runMetricsFile string
	runBackend     string
)

// runPaths names the five files of one run
type runPaths struct {
	Training    string
	Testing     string
	GroundTruth string
	Results     string
	Accuracy    string
}

var runCmd = &cobra.Command{
	Use:   "run <train.csv> <test.csv> <truth.csv> <results.txt> <accuracy.txt>",
	Short: "Train, classify the test set and score it",
	Long: `Train on a labelled CSV file, classify every post of the test CSV file and
compare the predictions with the ground truth.

results.txt receives one "<label>, <id>" line per test post. accuracy.txt
receives the accuracy on its first line followed by one "<actual>, <id>"
line per misclassified post.`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := loadSettings()
		if err != nil {
			return err
		}
		defer closer.Close()

		if runBackend != "" {
			cfg.Learning.Backend = runBackend
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid backend: %v", err)
			}
		}
		if runMetricsFile != "" {
			cfg.Metrics.TextfilePath = runMetricsFile
		}

		paths := runPaths{
			Training:    args[0],
			Testing:     args[1],
			GroundTruth: args[2],
			Results:     args[3],
			Accuracy:    args[4],
		}

		prof := profiler.NewProfiler()
		recorder := metrics.NewRecorder()

		result, model, err := runPipeline(cmd.Context(), cfg, logger, paths, prof, recorder)
		if err != nil {
			return err
		}

		printRunSummary(paths, model, result, cfg.Output.AccuracyPrecision)

		if runProfile {
			fmt.Println()
			prof.Report(os.Stdout)
		}

		if cfg.Metrics.TextfilePath != "" {
			if err := recorder.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
				return fmt.Errorf("failed to write metrics: %v", err)
			}
			logger.Info("metrics written", "path", cfg.Metrics.TextfilePath)
		}

		return nil
	},
}

// runPipeline trains on paths.Training, classifies paths.Testing while
// writing paths.Results and finally writes the accuracy report.
func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, paths runPaths, prof *profiler.Profiler, recorder *metrics.Recorder) (*evaluation.Result, *learning.Model, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	timer := prof.Start(profiler.PhaseTraining)
	model, trainStats, err := trainModel(ctx, cfg, logger, paths.Training)
	if err != nil {
		return nil, nil, err
	}
	timer.Stop(trainStats.Records)
	recorder.ObserveRead("training", trainStats)
	recorder.ObserveTraining(model)

	info := model.Info()
	logger.Info("model trained",
		"positive_records", info.PositiveRecords,
		"negative_records", info.NegativeRecords,
		"skipped_records", info.SkippedRecords+trainStats.Skipped(),
		"vocabulary", info.VocabularySize,
	)

	timer = prof.Start(profiler.PhaseGroundTruth)
	truth, truthStats, err := readGroundTruth(cfg, paths.GroundTruth)
	if err != nil {
		return nil, nil, err
	}
	timer.Stop(truthStats.Records)
	recorder.ObserveRead("ground_truth", truthStats)
	logger.Debug("ground truth read", "labels", len(truth), "skipped", truthStats.Skipped())

	timer = prof.Start(profiler.PhaseEvaluation)
	result, testStats, err := classifyTests(cfg, paths, model, truth, recorder)
	if err != nil {
		return nil, nil, err
	}
	timer.Stop(testStats.Records)
	recorder.ObserveRead("testing", testStats)
	logger.Info("test set classified",
		"predicted", result.Predicted,
		"scored", result.Total,
		"missing_ground_truth", result.Missing,
		"skipped_rows", testStats.Skipped(),
	)

	timer = prof.Start(profiler.PhaseReport)
	if err := writeAccuracy(paths.Accuracy, result, cfg.Output.AccuracyPrecision); err != nil {
		return nil, nil, err
	}
	timer.Stop(len(result.Errors) + 1)
	recorder.ObserveResult(result)

	logger.Info("accuracy report written",
		"path", paths.Accuracy,
		"accuracy", result.Accuracy(),
		"errors", len(result.Errors),
	)

	return result, model, nil
}

func readGroundTruth(cfg *config.Config, path string) (dataset.GroundTruth, dataset.Stats, error) {
	f, err := dataset.OpenInput(path)
	if err != nil {
		return nil, dataset.Stats{}, err
	}
	defer f.Close()

	truth, stats, err := dataset.ReadGroundTruth(f, cfg.Dataset.GroundTruth.Layout())
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read ground truth: %v", err)
	}
	return truth, stats, nil
}

func classifyTests(cfg *config.Config, paths runPaths, model *learning.Model, truth dataset.GroundTruth, recorder *metrics.Recorder) (*evaluation.Result, dataset.Stats, error) {
	in, err := dataset.OpenInput(paths.Testing)
	if err != nil {
		return nil, dataset.Stats{}, err
	}
	defer in.Close()

	out, err := dataset.CreateOutput(paths.Results)
	if err != nil {
		return nil, dataset.Stats{}, err
	}
	defer out.Close()

	writer := dataset.NewPredictionWriter(out)
	evaluator := evaluation.NewEvaluator(model, truth)

	stats, err := dataset.ReadTests(in, cfg.Dataset.Testing.Layout(), func(rec dataset.TestRecord) error {
		prediction := evaluator.Observe(rec)
		recorder.ObservePrediction(prediction)
		return writer.Write(prediction.Label, prediction.ID)
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to classify test data: %v", err)
	}

	if err := writer.Flush(); err != nil {
		return nil, stats, err
	}
	if err := out.Close(); err != nil {
		return nil, stats, fmt.Errorf("failed to close %s: %v", paths.Results, err)
	}

	return evaluator.Result(), stats, nil
}

func writeAccuracy(path string, result *evaluation.Result, precision int) error {
	f, err := dataset.CreateOutput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := result.WriteReport(f, precision); err != nil {
		return err
	}
	return f.Close()
}

func printRunSummary(paths runPaths, model *learning.Model, result *evaluation.Result, precision int) {
	info := model.Info()

	fmt.Printf("🧠 Sentiment Run\n")
	fmt.Printf("═══════════════════════════════════════\n")
	fmt.Printf("📚 Training: %d positive, %d negative, %d skipped\n",
		info.PositiveRecords, info.NegativeRecords, info.SkippedRecords)
	fmt.Printf("🔤 Vocabulary: %d words\n", info.VocabularySize)
	fmt.Printf("🔍 Classified: %d posts (%d without ground truth)\n", result.Predicted, result.Missing)
	fmt.Printf("\n📊 Results:\n")
	fmt.Printf("  Accuracy:  %.*f (%d/%d)\n", precision, result.Accuracy(), result.Correct, result.Total)
	for _, label := range []learning.Label{learning.Positive, learning.Negative} {
		fmt.Printf("  %-9s precision %.3f, recall %.3f\n",
			label.String()+":", result.Confusion.Precision(label), result.Confusion.Recall(label))
	}
	fmt.Printf("\n📄 Predictions: %s\n", paths.Results)
	fmt.Printf("📄 Accuracy:    %s\n", paths.Accuracy)
}

func init() {
	runCmd.Flags().BoolVar(&runProfile, "profile", false, "Print a per-phase timing report")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	runCmd.Flags().StringVar(&runBackend, "backend", "", "Training backend: memory or redis (overrides config)")
}
