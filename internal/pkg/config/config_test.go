package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRenderConfigValidates(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.PDF.OutputDirectory = t.TempDir()
	cfg.PDF.TempDirectory = t.TempDir()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadComplianceLevel(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.PDF.OutputDirectory = t.TempDir()
	cfg.PDF.ComplianceLevel = "bogus"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "compliance_level")
}

func TestValidateRejectsFileOutputWithoutPath(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.PDF.OutputDirectory = t.TempDir()
	cfg.Logger.Output = "file"
	cfg.Logger.File = ""
	err := cfg.Validate()
	assert.Error(t, err)
}
