package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var classifyExplain bool

var classifyCmd = &cobra.Command{
	Use:   "classify <train.csv> <text...>",
	Short: "Classify a single post",
	Long: `Train on a labelled CSV file and classify the given text.

The remaining arguments are joined with spaces and classified as one post.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, logger, closer, err := loadSettings()
		if err != nil {
			return err
		}
		defer closer.Close()

		model, _, err := trainModel(cmd.Context(), cfg, logger, args[0])
		if err != nil {
			return err
		}

		text := strings.Join(args[1:], " ")
		positive, negative := model.Scores(text)
		label := model.Predict(text)

		fmt.Fprintf(out, "🔍 %q\n", text)
		fmt.Fprintf(out, "  Label:    %d (%s)\n", int(label), label)
		fmt.Fprintf(out, "  Positive: %.6f\n", positive)
		fmt.Fprintf(out, "  Negative: %.6f\n", negative)

		if classifyExplain {
			fmt.Fprintf(out, "\n📖 Word breakdown:\n")
			fmt.Fprintf(out, "  %-20s %8s %8s %10s\n", "Word", "Pos", "Neg", "Positivity")
			for _, word := range strings.Fields(text) {
				ws := model.WordStats(word)
				if ws == nil {
					continue
				}
				fmt.Fprintf(out, "  %-20s %8d %8d %10.3f\n",
					ws.Word, ws.PositiveCount, ws.NegativeCount, ws.Positivity)
			}
		}

		return nil
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyExplain, "explain", false, "Show per-word counts")
}
