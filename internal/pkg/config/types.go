package config

import (
	"time"
)

// RenderConfig is the top-level configuration for a fullbleed render job:
// PDF writer behavior, the paint worker pool, and logging. There is no
// server/queue/cache section because this module has no HTTP or queue
// surface to configure.
type RenderConfig struct {
	PDF    PDFConfig    `yaml:"pdf" json:"pdf"`
	Worker WorkerConfig `yaml:"worker" json:"worker"`
	Logger LoggerConfig `yaml:"logger" json:"logger"`
}

// PDFConfig controls the writer stage: output destination, compliance
// profile, and spill behavior for large jobs.
type PDFConfig struct {
	OutputDirectory string        `yaml:"output_directory" json:"output_directory"`
	TempDirectory   string        `yaml:"temp_directory" json:"temp_directory"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	MaxFileSize     int64         `yaml:"max_file_size" json:"max_file_size"`
	ComplianceLevel string        `yaml:"compliance_level" json:"compliance_level"` // none, pdfa-2b, pdfx-4
	SpillThreshold  int           `yaml:"spill_threshold" json:"spill_threshold"`   // pages before a doc spills to disk
}

// WorkerConfig controls the parallel page-paint pool.
type WorkerConfig struct {
	PoolSize   int           `yaml:"pool_size" json:"pool_size"`
	QueueSize  int           `yaml:"queue_size" json:"queue_size"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	RetryCount int           `yaml:"retry_count" json:"retry_count"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// LoggerConfig controls the structured logger.
type LoggerConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // json, console
	Output string `yaml:"output" json:"output"` // stdout, stderr, file
	File   string `yaml:"file" json:"file"`
}
