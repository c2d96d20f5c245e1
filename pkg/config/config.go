package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zpam/sentiment/pkg/dataset"
	"github.com/zpam/sentiment/pkg/learning"
)

// Config represents the classifier configuration
type Config struct {
	// Input file layouts
	Dataset DatasetConfig `yaml:"dataset"`

	// Output artifact settings
	Output OutputConfig `yaml:"output"`

	// Training backend settings
	Learning LearningConfig `yaml:"learning"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Metrics settings
	Metrics MetricsConfig `yaml:"metrics"`
}

// DatasetConfig describes the three input CSV files
type DatasetConfig struct {
	Training    ColumnsConfig `yaml:"training"`
	Testing     ColumnsConfig `yaml:"testing"`
	GroundTruth ColumnsConfig `yaml:"ground_truth"`
}

// ColumnsConfig locates fields within a CSV row. Positions are zero based and
// -1 means unused. Names are only consulted when header is true.
type ColumnsConfig struct {
	Header    bool   `yaml:"header"`
	Delimiter string `yaml:"delimiter"` // single character, default ","

	LabelColumn int `yaml:"label_column"`
	TextColumn  int `yaml:"text_column"`
	IDColumn    int `yaml:"id_column"`

	LabelName string `yaml:"label_name,omitempty"`
	TextName  string `yaml:"text_name,omitempty"`
	IDName    string `yaml:"id_name,omitempty"`
}

// OutputConfig contains result formatting settings
type OutputConfig struct {
	AccuracyPrecision int `yaml:"accuracy_precision"`
}

// LearningConfig contains training backend settings
type LearningConfig struct {
	// Backend selection: "memory" or "redis"
	Backend string `yaml:"backend"`

	// Redis-based backend settings
	Redis RedisBackendConfig `yaml:"redis"`

	// Word listing for the stats command
	TopWords     int `yaml:"top_words"`
	MinWordCount int `yaml:"min_word_count"`
}

// RedisBackendConfig contains Redis-based training settings
type RedisBackendConfig struct {
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num"`
	BatchSize   int    `yaml:"batch_size"`
	KeyTTL      string `yaml:"key_ttl"` // Duration string like "1h"
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	File       string `yaml:"file"`   // log file path, empty = stderr only
	Format     string `yaml:"format"` // json, text
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// MetricsConfig contains Prometheus textfile export settings
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"` // empty = disabled
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Training: ColumnsConfig{
				LabelColumn: 0,
				TextColumn:  5,
				IDColumn:    -1,
			},
			Testing: ColumnsConfig{
				LabelColumn: -1,
				TextColumn:  4,
				IDColumn:    0,
			},
			GroundTruth: ColumnsConfig{
				LabelColumn: 0,
				TextColumn:  -1,
				IDColumn:    1,
			},
		},
		Output: OutputConfig{
			AccuracyPrecision: 3,
		},
		Learning: LearningConfig{
			Backend: "memory",
			Redis: RedisBackendConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "sentiment:train",
				DatabaseNum: 0,
				BatchSize:   500,
				KeyTTL:      "1h",
			},
			TopWords:     10,
			MinWordCount: 2,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Dataset.Training.validate("training", true, true, false); err != nil {
		return err
	}
	if err := c.Dataset.Testing.validate("testing", false, true, true); err != nil {
		return err
	}
	if err := c.Dataset.GroundTruth.validate("ground_truth", true, false, true); err != nil {
		return err
	}

	if c.Output.AccuracyPrecision < 0 || c.Output.AccuracyPrecision > 10 {
		return fmt.Errorf("accuracy_precision must be between 0 and 10")
	}

	if c.Learning.Backend != "memory" && c.Learning.Backend != "redis" {
		return fmt.Errorf("learning backend must be 'memory' or 'redis'")
	}
	if c.Learning.Backend == "redis" {
		if c.Learning.Redis.RedisURL == "" {
			return fmt.Errorf("redis_url cannot be empty when the redis backend is selected")
		}
		if _, err := c.Learning.Redis.ttl(); err != nil {
			return fmt.Errorf("invalid redis key_ttl: %v", err)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'text' or 'json'")
	}

	return nil
}

func (cc ColumnsConfig) validate(name string, label, text, id bool) error {
	check := func(field string, needed bool, column int, columnName string) error {
		if column < -1 {
			return fmt.Errorf("%s %s_column must be >= -1", name, field)
		}
		if needed && column < 0 && (columnName == "" || !cc.Header) {
			return fmt.Errorf("%s needs a %s column", name, field)
		}
		return nil
	}

	if err := check("label", label, cc.LabelColumn, cc.LabelName); err != nil {
		return err
	}
	if err := check("text", text, cc.TextColumn, cc.TextName); err != nil {
		return err
	}
	if err := check("id", id, cc.IDColumn, cc.IDName); err != nil {
		return err
	}

	if len([]rune(cc.Delimiter)) > 1 {
		return fmt.Errorf("%s delimiter must be a single character", name)
	}

	return nil
}

// Layout converts the column settings into a dataset layout
func (cc ColumnsConfig) Layout() dataset.Layout {
	layout := dataset.Layout{
		Header:      cc.Header,
		LabelColumn: cc.LabelColumn,
		TextColumn:  cc.TextColumn,
		IDColumn:    cc.IDColumn,
		LabelName:   cc.LabelName,
		TextName:    cc.TextName,
		IDName:      cc.IDName,
	}
	if r := []rune(cc.Delimiter); len(r) == 1 {
		layout.Comma = r[0]
	}
	return layout
}

// LearningRedisConfig converts the backend settings for the learning package
func (rc RedisBackendConfig) LearningRedisConfig() *learning.RedisConfig {
	ttl, _ := rc.ttl()
	return &learning.RedisConfig{
		RedisURL:    rc.RedisURL,
		KeyPrefix:   rc.KeyPrefix,
		DatabaseNum: rc.DatabaseNum,
		BatchSize:   rc.BatchSize,
		KeyTTL:      ttl,
	}
}

func (rc RedisBackendConfig) ttl() (time.Duration, error) {
	if rc.KeyTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(rc.KeyTTL)
}
