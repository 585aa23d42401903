package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRenderConfig returns the baseline configuration used when no
// config file is present.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		PDF: PDFConfig{
			OutputDirectory: "./output",
			TempDirectory:   "./temp",
			Timeout:         2 * time.Minute,
			MaxFileSize:     50 * 1024 * 1024, // 50MB
			ComplianceLevel: "none",
			SpillThreshold:  64,
		},
		Worker: WorkerConfig{
			PoolSize:   4,
			QueueSize:  100,
			Timeout:    5 * time.Minute,
			RetryCount: 3,
			RetryDelay: 10 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load builds a RenderConfig starting from defaults, overlaying an optional
// YAML file, then overlaying environment variables, and finally validating
// the result.
func Load() (*RenderConfig, error) {
	cfg := DefaultRenderConfig()

	if path := configFilePath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func configFilePath() string {
	if f := os.Getenv("FULLBLEED_CONFIG_FILE"); f != "" {
		return f
	}
	for _, path := range []string{"fullbleed.yaml", "fullbleed.yml", "config.yaml", "config.yml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadFromFile(cfg *RenderConfig, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

func loadFromEnv(cfg *RenderConfig) {
	if v := os.Getenv("FULLBLEED_WORKER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Worker.PoolSize = n
		}
	}
	if v := os.Getenv("FULLBLEED_OUTPUT_DIRECTORY"); v != "" {
		cfg.PDF.OutputDirectory = v
	}
	if v := os.Getenv("FULLBLEED_TEMP_DIRECTORY"); v != "" {
		cfg.PDF.TempDirectory = v
	}
	if v := os.Getenv("FULLBLEED_COMPLIANCE_LEVEL"); v != "" {
		cfg.PDF.ComplianceLevel = strings.ToLower(v)
	}
	if v := os.Getenv("FULLBLEED_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = strings.ToLower(v)
	}
	if v := os.Getenv("FULLBLEED_LOG_FORMAT"); v != "" {
		cfg.Logger.Format = strings.ToLower(v)
	}
}
