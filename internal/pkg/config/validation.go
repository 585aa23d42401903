package config

import (
	"fmt"
	"os"
)

// ValidationError names the offending field alongside the problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every ValidationError found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%d configuration validation errors: %s (and %d more)", len(e), e[0].Error(), len(e)-1)
}

// Validate checks every section of c, creating PDF.OutputDirectory if it
// doesn't yet exist; PDF.TempDirectory is neither checked nor created.
func (c *RenderConfig) Validate() error {
	var errs ValidationErrors
	errs = append(errs, c.validatePDF()...)
	errs = append(errs, c.validateWorker()...)
	errs = append(errs, c.validateLogger()...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *RenderConfig) validatePDF() ValidationErrors {
	var errs ValidationErrors

	if c.PDF.OutputDirectory == "" {
		errs = append(errs, ValidationError{Field: "pdf.output_directory", Message: "output directory cannot be empty"})
	} else if err := os.MkdirAll(c.PDF.OutputDirectory, 0o755); err != nil {
		errs = append(errs, ValidationError{Field: "pdf.output_directory", Message: fmt.Sprintf("cannot create output directory: %v", err)})
	}

	if c.PDF.MaxFileSize <= 0 {
		errs = append(errs, ValidationError{Field: "pdf.max_file_size", Message: "max file size must be positive"})
	}
	if c.PDF.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "pdf.timeout", Message: "timeout must be positive"})
	}

	validCompliance := map[string]bool{"none": true, "pdfa-2b": true, "pdfx-4": true}
	if !validCompliance[c.PDF.ComplianceLevel] {
		errs = append(errs, ValidationError{Field: "pdf.compliance_level", Message: "must be one of: none, pdfa-2b, pdfx-4"})
	}

	return errs
}

func (c *RenderConfig) validateWorker() ValidationErrors {
	var errs ValidationErrors
	if c.Worker.PoolSize <= 0 {
		errs = append(errs, ValidationError{Field: "worker.pool_size", Message: "pool size must be positive"})
	}
	if c.Worker.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "worker.timeout", Message: "timeout must be positive"})
	}
	if c.Worker.RetryCount < 0 {
		errs = append(errs, ValidationError{Field: "worker.retry_count", Message: "retry count cannot be negative"})
	}
	return errs
}

func (c *RenderConfig) validateLogger() ValidationErrors {
	var errs ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if !validLevels[c.Logger.Level] {
		errs = append(errs, ValidationError{Field: "logger.level", Message: "level must be one of: debug, info, warn, error, fatal"})
	}

	validOutputs := map[string]bool{"stdout": true, "stderr": true, "file": true}
	if !validOutputs[c.Logger.Output] {
		errs = append(errs, ValidationError{Field: "logger.output", Message: "output must be one of: stdout, stderr, file"})
	}

	if c.Logger.Output == "file" && c.Logger.File == "" {
		errs = append(errs, ValidationError{Field: "logger.file", Message: "file path is required when output is 'file'"})
	}

	return errs
}
