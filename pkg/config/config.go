package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelConfig holds the base-learner hyperparameters.
type ModelConfig struct {
	// LearningRate for SGD updates
	LearningRate float64 `yaml:"learning_rate"`

	// Epochs is the number of passes over the training data
	Epochs int `yaml:"epochs"`

	// BatchSize for mini-batch gradient descent (0 = full batch)
	BatchSize int `yaml:"batch_size"`
}

// GridConfig controls the constrained sweep.
type GridConfig struct {
	// Size is the number of grid points (candidate models produced)
	Size int `yaml:"size"`

	// Limit bounds the Lagrange multiplier swept over [-limit, limit]
	Limit float64 `yaml:"limit"`
}

// Config represents the full workflow configuration.
type Config struct {
	// DataPath is the diabetes CSV file
	DataPath string `yaml:"data_path"`

	// OutputDir receives transient model files and rendered plots
	OutputDir string `yaml:"output_dir"`

	// StorePath is the SQLite database backing the registry and tracker
	StorePath string `yaml:"store_path"`

	// TestRatio is the held-out fraction of rows
	TestRatio float64 `yaml:"test_ratio"`

	// Seed drives the train/test shuffle
	Seed int64 `yaml:"seed"`

	// TrainWithoutSensitive additionally trains and audits a model with the
	// Age column dropped from the inputs
	TrainWithoutSensitive bool `yaml:"train_without_sensitive"`

	Model ModelConfig `yaml:"model"`
	Grid  GridConfig  `yaml:"grid"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		DataPath:  "data/diabetes.csv",
		OutputDir: "outputs",
		StorePath: "outputs/platform.db",
		TestRatio: 0.3,
		Seed:      0,
		Model: ModelConfig{
			LearningRate: 0.1,
			Epochs:       200,
			BatchSize:    64,
		},
		Grid: GridConfig{
			Size:  40,
			Limit: 2,
		},
	}
}

// DefaultPath is the config file looked for when the user names none.
const DefaultPath = "fairlab.yaml"

// Load reads a YAML config file over the defaults. Only the implicit
// DefaultPath may be absent; a missing user-supplied path is an error so a
// typoed --config never silently runs on defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the workflow cannot run with.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("config: data_path is required")
	}
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return fmt.Errorf("config: test_ratio %v must be in (0, 1)", c.TestRatio)
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("config: learning_rate %v must be positive", c.Model.LearningRate)
	}
	if c.Model.Epochs <= 0 {
		return fmt.Errorf("config: epochs %d must be positive", c.Model.Epochs)
	}
	if c.Grid.Size < 1 {
		return fmt.Errorf("config: grid size %d must be at least 1", c.Grid.Size)
	}
	if c.Grid.Limit <= 0 {
		return fmt.Errorf("config: grid limit %v must be positive", c.Grid.Limit)
	}
	return nil
}
