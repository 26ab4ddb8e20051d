package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all stepwise configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig selects how session logs are discovered.
type SourceConfig struct {
	Provider string `yaml:"provider"` // "file" or "dir"
	Path     string `yaml:"path"`
	Suffix   string `yaml:"suffix"` // directory scans only
}

// OutputConfig selects the document destination.
type OutputConfig struct {
	Format     string `yaml:"format"` // "stdout", "file", "store", "webhook"
	Pretty     bool   `yaml:"pretty"`
	Dir        string `yaml:"dir"`         // file output artifact directory
	WebhookURL string `yaml:"webhook_url"` // agent-workflow callback
	DBPath     string `yaml:"db_path"`     // sqlite archive path
	Verbosity  string `yaml:"verbosity"`   // "minimal", "standard", "full"
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load layers configuration: defaults, then the YAML file at path (or
// ~/.stepwise/config.yaml when path is empty), then STEPWISE_* environment
// overrides. A missing default-location file is fine; a missing explicit
// file is an error.
func Load(path string) (Config, error) {
	cfg := defaults()

	explicit := path != ""
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".stepwise", "config.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// No config file; defaults apply.
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Source: SourceConfig{Provider: "file"},
		Output: OutputConfig{
			Format:    "stdout",
			Dir:       ".",
			Verbosity: "standard",
		},
		Log: LogConfig{Level: "info"},
	}
}

func applyEnv(cfg *Config) {
	setenv(&cfg.Source.Provider, "STEPWISE_SOURCE")
	setenv(&cfg.Source.Path, "STEPWISE_PATH")
	setenv(&cfg.Source.Suffix, "STEPWISE_SUFFIX")
	setenv(&cfg.Output.Format, "STEPWISE_OUTPUT")
	setenv(&cfg.Output.Dir, "STEPWISE_OUTPUT_DIR")
	setenv(&cfg.Output.WebhookURL, "STEPWISE_WEBHOOK_URL")
	setenv(&cfg.Output.DBPath, "STEPWISE_DB_PATH")
	setenv(&cfg.Output.Verbosity, "STEPWISE_VERBOSITY")
	setenv(&cfg.Log.Level, "STEPWISE_LOG_LEVEL")
	if v := os.Getenv("STEPWISE_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Output.Pretty = b
		}
	}
}

func setenv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
