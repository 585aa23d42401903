package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedRegistriesParseCleanly(t *testing.T) {
	require.NoError(t, validateEmbeddedRegistries())
}

func TestRegistryCanonicalJSONIsValidAndStable(t *testing.T) {
	for _, id := range []string{auditRegistryID, wcag20aaRegistryID, section508HTMLRegistryID} {
		data, ok := RegistryJSON(id)
		require.True(t, ok, id)
		var v any
		require.NoError(t, json.Unmarshal(data, &v))
		again, ok := RegistryJSON(id)
		require.True(t, ok)
		assert.Equal(t, data, again, "canonical JSON must be stable across calls")
	}
}

func TestRegistryJSONUnknownIDReturnsFalse(t *testing.T) {
	_, ok := RegistryJSON("no.such.registry")
	assert.False(t, ok)
}

func TestContractFingerprintIsStableAndNonEmpty(t *testing.T) {
	m1 := BuildMetadata()
	m2 := BuildMetadata()
	assert.NotEmpty(t, m1.ContractFingerprintSHA256)
	assert.Equal(t, m1.ContractFingerprintSHA256, m2.ContractFingerprintSHA256)
	assert.Len(t, m1.ContractFingerprintSHA256, 64)
	assert.Equal(t, ContractID, m1.ContractID)
	assert.Equal(t, auditRegistryID, m1.AuditRegistryID)
	assert.Equal(t, wcag20aaRegistryID, m1.WCAG20AARegistryID)
	assert.Equal(t, section508HTMLRegistryID, m1.Section508HTMLRegistryID)
}

func TestContractFingerprintChangesWithRegistryContent(t *testing.T) {
	base := hexSHA256(AuditRegistryV1JSON())
	other := hexSHA256([]byte(`{"not":"the same document"}`))
	assert.NotEqual(t, base, other)
}
