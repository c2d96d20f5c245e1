package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns what it printed.
// Flag values live in package variables, so they are reset before each run.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type statsReport struct {
	PositiveRecords int `json:"positive_records"`
	NegativeRecords int `json:"negative_records"`
	SkippedRecords  int `json:"skipped_records"`
	SkippedRows     int `json:"skipped_rows"`
	TopPositive     []struct {
		Word string `json:"word"`
	} `json:"top_positive"`
	TopNegative []struct {
		Word string `json:"word"`
	} `json:"top_negative"`
}

func runStatsJSON(t *testing.T, args ...string) statsReport {
	t.Helper()

	out, err := executeCommand(t, args...)
	require.NoError(t, err, out)

	var report statsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	return report
}

func TestStatsCommandJSON(t *testing.T) {
	paths := writeRunFiles(t)

	report := runStatsJSON(t, "stats", paths.Training, "--json")

	assert.Equal(t, 2, report.PositiveRecords)
	assert.Equal(t, 2, report.NegativeRecords)
	assert.Equal(t, 1, report.SkippedRecords)
	assert.Equal(t, 1, report.SkippedRows)

	// Defaults: top 10, words seen at least twice
	require.Len(t, report.TopPositive, 1)
	assert.Equal(t, "great", report.TopPositive[0].Word)
	require.Len(t, report.TopNegative, 1)
	assert.Equal(t, "awful", report.TopNegative[0].Word)
}

func TestStatsCommandFlagPrecedence(t *testing.T) {
	paths := writeRunFiles(t)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("learning:\n  top_words: 1\n  min_word_count: 1\n"), 0o644))

	tests := []struct {
		name     string
		args     []string
		positive []string
	}{
		{
			name:     "Config values",
			args:     []string{"--config", cfgPath, "stats", paths.Training, "--json"},
			positive: []string{"great"},
		},
		{
			name:     "Top flag overrides config",
			args:     []string{"--config", cfgPath, "stats", paths.Training, "--json", "--top", "3"},
			positive: []string{"great", "fun", "love"},
		},
		{
			name:     "Min count flag overrides config",
			args:     []string{"--config", cfgPath, "stats", paths.Training, "--json", "--top", "3", "--min-count", "2"},
			positive: []string{"great"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := runStatsJSON(t, tt.args...)

			var words []string
			for _, w := range report.TopPositive {
				words = append(words, w.Word)
			}
			assert.Equal(t, tt.positive, words)
		})
	}
}

func TestStatsCommandTable(t *testing.T) {
	paths := writeRunFiles(t)

	out, err := executeCommand(t, "stats", paths.Training)
	require.NoError(t, err)
	assert.Contains(t, out, "Training file: "+paths.Training)
	assert.Contains(t, out, "Skipped rows: 1 (1 short, 0 unparsable)")
	assert.Contains(t, out, "great")
}

func TestClassifyCommand(t *testing.T) {
	paths := writeRunFiles(t)

	out, err := executeCommand(t, "classify", paths.Training, "love", "it", "great")
	require.NoError(t, err)
	assert.Contains(t, out, `"love it great"`)
	assert.Contains(t, out, "Label:    4 (positive)")
	assert.NotContains(t, out, "Word breakdown")

	out, err = executeCommand(t, "classify", "--explain", paths.Training, "awful", "rain")
	require.NoError(t, err)
	assert.Contains(t, out, "Label:    0 (negative)")
	assert.Contains(t, out, "Word breakdown")
	assert.Contains(t, out, "awful")
}

func TestClassifyCommandErrors(t *testing.T) {
	paths := writeRunFiles(t)

	_, err := executeCommand(t, "classify", paths.Training)
	assert.Error(t, err, "text argument is required")

	_, err = executeCommand(t, "classify", filepath.Join(t.TempDir(), "missing.csv"), "hello")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sentiment.yaml")

	out, err := executeCommand(t, "config", "generate", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file generated")
	assert.FileExists(t, cfgPath)

	_, err = executeCommand(t, "config", "generate", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCommand(t, "config", "generate", cfgPath, "--force")
	require.NoError(t, err)

	out, err = executeCommand(t, "config", "validate", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Backend: memory")

	out, err = executeCommand(t, "config", "show", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Backend: memory")
	assert.Contains(t, out, "Accuracy precision: 3")
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("learning:\n  backend: sqlite\n"), 0o644))

	_, err := executeCommand(t, "config", "validate", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
