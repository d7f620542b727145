package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoad_MissingExplicitPathIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDefaultPathReturnsDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir())) // no fairlab.yaml here
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fairlab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_path: /tmp/diabetes.csv
test_ratio: 0.2
train_without_sensitive: true
model:
  learning_rate: 0.05
  epochs: 50
grid:
  size: 11
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/diabetes.csv", cfg.DataPath)
	assert.Equal(t, 0.2, cfg.TestRatio)
	assert.True(t, cfg.TrainWithoutSensitive)
	assert.Equal(t, 0.05, cfg.Model.LearningRate)
	assert.Equal(t, 50, cfg.Model.Epochs)
	assert.Equal(t, 11, cfg.Grid.Size)

	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultConfig().Grid.Limit, cfg.Grid.Limit)
	assert.Equal(t, DefaultConfig().Model.BatchSize, cfg.Model.BatchSize)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::chaos\n\t"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data path", func(c *Config) { c.DataPath = "" }},
		{"test ratio zero", func(c *Config) { c.TestRatio = 0 }},
		{"test ratio one", func(c *Config) { c.TestRatio = 1 }},
		{"non-positive learning rate", func(c *Config) { c.Model.LearningRate = 0 }},
		{"non-positive epochs", func(c *Config) { c.Model.Epochs = 0 }},
		{"grid size zero", func(c *Config) { c.Grid.Size = 0 }},
		{"grid limit zero", func(c *Config) { c.Grid.Limit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
