package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/sentiment/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage sentiment configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a default configuration file with all options`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		fmt.Fprintf(out, "✅ Configuration file generated: %s\n", configPath)
		fmt.Fprintf(out, "📝 Edit the file to describe your CSV column layouts\n")
		fmt.Fprintf(out, "🚀 Use 'sentiment run --config %s ...' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		warnings := validateConfigLogic(cfg)

		fmt.Fprintf(out, "✅ Configuration is valid: %s\n", configPath)

		if len(warnings) > 0 {
			fmt.Fprintf(out, "\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Fprintf(out, "  - %s\n", warning)
			}
		}

		fmt.Fprintf(out, "\n📊 Configuration Summary:\n")
		fmt.Fprintf(out, "  Backend: %s\n", cfg.Learning.Backend)
		fmt.Fprintf(out, "  Accuracy precision: %d\n", cfg.Output.AccuracyPrecision)
		fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the current configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %v", err)
			}
			fmt.Fprintf(out, "Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Fprintf(out, "Default Configuration:\n\n")
		}

		fmt.Fprintf(out, "📂 Dataset columns:\n")
		printColumns(out, "training", cfg.Dataset.Training)
		printColumns(out, "testing", cfg.Dataset.Testing)
		printColumns(out, "ground truth", cfg.Dataset.GroundTruth)

		fmt.Fprintf(out, "\n🧠 Learning:\n")
		fmt.Fprintf(out, "  Backend: %s\n", cfg.Learning.Backend)
		if cfg.Learning.Backend == "redis" {
			fmt.Fprintf(out, "  Redis: %s (db %d, prefix %s, batch %d, ttl %s)\n",
				cfg.Learning.Redis.RedisURL, cfg.Learning.Redis.DatabaseNum,
				cfg.Learning.Redis.KeyPrefix, cfg.Learning.Redis.BatchSize, cfg.Learning.Redis.KeyTTL)
		}
		fmt.Fprintf(out, "  Top words: %d (min count %d)\n", cfg.Learning.TopWords, cfg.Learning.MinWordCount)

		fmt.Fprintf(out, "\n📄 Output:\n")
		fmt.Fprintf(out, "  Accuracy precision: %d\n", cfg.Output.AccuracyPrecision)

		fmt.Fprintf(out, "\n📝 Logging:\n")
		fmt.Fprintf(out, "  Level: %s, format: %s\n", cfg.Logging.Level, cfg.Logging.Format)
		if cfg.Logging.File != "" {
			fmt.Fprintf(out, "  File: %s (%d MB, %d backups)\n", cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
		}

		if cfg.Metrics.TextfilePath != "" {
			fmt.Fprintf(out, "\n📈 Metrics textfile: %s\n", cfg.Metrics.TextfilePath)
		}

		return nil
	},
}

func printColumns(out io.Writer, name string, cc config.ColumnsConfig) {
	delimiter := cc.Delimiter
	if delimiter == "" {
		delimiter = ","
	}
	fmt.Fprintf(out, "  %-13s label=%d text=%d id=%d header=%v delimiter=%q\n",
		name+":", cc.LabelColumn, cc.TextColumn, cc.IDColumn, cc.Header, delimiter)
}

// validateConfigLogic performs additional logical validation
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Output.AccuracyPrecision < 3 {
		warnings = append(warnings, "Accuracy precision below 3 decimals hides small differences between runs")
	}

	if cfg.Learning.Backend == "redis" && cfg.Learning.Redis.KeyTTL == "" {
		warnings = append(warnings, "Redis keys have no TTL - an interrupted run leaves its tables behind")
	}

	if cfg.Learning.Backend == "redis" && cfg.Learning.Redis.BatchSize <= 0 {
		warnings = append(warnings, "Redis batch size is not positive - every record is sent in its own round trip")
	}

	columns := []struct {
		name string
		cc   config.ColumnsConfig
	}{
		{"training", cfg.Dataset.Training},
		{"testing", cfg.Dataset.Testing},
		{"ground_truth", cfg.Dataset.GroundTruth},
	}
	for _, c := range columns {
		name, cc := c.name, c.cc
		if !cc.Header && (cc.LabelName != "" || cc.TextName != "" || cc.IDName != "") {
			warnings = append(warnings, fmt.Sprintf("%s has column names but header is false - names are ignored", name))
		}
	}

	if cfg.Logging.File != "" && cfg.Logging.MaxSizeMB <= 0 {
		warnings = append(warnings, "Log file max size is not positive - lumberjack's 100 MB default applies")
	}

	return warnings
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
