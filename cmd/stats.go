package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zpam/sentiment/pkg/learning"
)

var (
	statsTop      int
	statsMinCount int
	statsJSON     bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <train.csv>",
	Short: "Show what the model learned from a training file",
	Long: `Train on a labelled CSV file and print record counts, vocabulary sizes and
the words most indicative of each class.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, logger, closer, err := loadSettings()
		if err != nil {
			return err
		}
		defer closer.Close()

		model, readStats, err := trainModel(cmd.Context(), cfg, logger, args[0])
		if err != nil {
			return err
		}

		top := cfg.Learning.TopWords
		if cmd.Flags().Changed("top") {
			top = statsTop
		}
		minCount := cfg.Learning.MinWordCount
		if cmd.Flags().Changed("min-count") {
			minCount = statsMinCount
		}

		if statsJSON {
			report := struct {
				*learning.ModelInfo
				SkippedRows int                   `json:"skipped_rows"`
				Positive    []*learning.WordStats `json:"top_positive"`
				Negative    []*learning.WordStats `json:"top_negative"`
			}{
				ModelInfo:   model.Info(),
				SkippedRows: readStats.Skipped(),
				Positive:    model.TopWords(learning.Positive, top, minCount),
				Negative:    model.TopWords(learning.Negative, top, minCount),
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Fprintf(out, "📁 Training file: %s\n", args[0])
		if readStats.Skipped() > 0 {
			fmt.Fprintf(out, "⚠️  Skipped rows: %d (%d short, %d unparsable)\n",
				readStats.Skipped(), readStats.ShortRows, readStats.BadFields)
		}
		model.PrintStats(out, top, minCount)

		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "Number of words to list per class")
	statsCmd.Flags().IntVar(&statsMinCount, "min-count", 2, "Minimum occurrences for a listed word")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON instead of a table")
}
