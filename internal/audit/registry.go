// Package audit implements the compiled-in PMR/WCAG/Section 508 audit
// contract: category and audit-rule definitions, per-profile gate-level
// resolution, and coverage-summary folding over a document's rule
// verdicts. The registries are authored as YAML, embedded at build time,
// and hashed (after a round-trip through canonical JSON) into a stable
// contract fingerprint so a consumer can detect when the compiled-in
// policy has drifted from what it last saw.
package audit

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"fullbleed/internal/ferrors"
)

//go:embed registrydata/*.yaml
var registryFS embed.FS

const (
	// ContractID and ContractVersion identify this package's audit
	// contract independent of any one registry's own schema version.
	ContractID      = "fullbleed.audit_contract"
	ContractVersion = "1"

	auditRegistryID          = "fullbleed.audit_registry.v1"
	wcag20aaRegistryID       = "wcag20aa_registry.v1"
	section508HTMLRegistryID = "section508_html_registry.v1"

	auditRegistryPath          = "registrydata/fullbleed.audit_registry.v1.yaml"
	wcag20aaRegistryPath       = "registrydata/wcag20aa_registry.v1.yaml"
	section508HTMLRegistryPath = "registrydata/section508_html_registry.v1.yaml"
)

// Metadata describes the compiled-in audit contract: its own identity
// plus a content hash for every registry it bundles.
type Metadata struct {
	ContractID                       string
	ContractVersion                  string
	ContractFingerprintSHA256        string
	AuditRegistryID                  string
	AuditRegistryHashSHA256          string
	WCAG20AARegistryID               string
	WCAG20AARegistryHashSHA256       string
	Section508HTMLRegistryID         string
	Section508HTMLRegistryHashSHA256 string
}

func mustReadEmbedded(path string) []byte {
	data, err := registryFS.ReadFile(path)
	if err != nil {
		// The registry files are embedded at build time; a missing file
		// here means the module itself failed to build correctly, not a
		// runtime condition a caller can recover from.
		panic(fmt.Sprintf("audit: embedded registry %q missing: %v", path, err))
	}
	return data
}

// canonicalJSON round-trips YAML bytes through a generic value and back
// out as JSON, matching spec's "JSON-formatted YAML payload" framing:
// encoding/json sorts map keys when marshaling map[string]any, so the
// result is deterministic regardless of the source YAML's key order.
func canonicalJSON(yamlBytes []byte) []byte {
	var v any
	if err := yaml.Unmarshal(yamlBytes, &v); err != nil {
		panic(fmt.Sprintf("audit: embedded registry is not valid YAML: %v", err))
	}
	out, err := json.Marshal(stringifyKeys(v))
	if err != nil {
		panic(fmt.Sprintf("audit: embedded registry could not round-trip to JSON: %v", err))
	}
	return out
}

// stringifyKeys converts the map[interface{}]interface{} nodes yaml.v3
// can produce into map[string]interface{}, which encoding/json requires.
func stringifyKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = stringifyKeys(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringifyKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringifyKeys(val)
		}
		return out
	default:
		return v
	}
}

// mustUnmarshalYAML parses embedded registry bytes into a typed struct.
// A parse failure here means a bundled registry file is malformed, which
// is a build-time defect, not a condition a caller can recover from.
func mustUnmarshalYAML(data []byte, out any) {
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("audit: embedded registry does not match its schema: %v", err))
	}
}

func hexSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var (
	auditRegistryJSONOnce    sync.Once
	auditRegistryJSONCache   []byte
	wcagRegistryJSONOnce     sync.Once
	wcagRegistryJSONCache    []byte
	section508JSONOnce       sync.Once
	section508JSONCache      []byte
	contractFingerprintOnce  sync.Once
	contractFingerprintCache string
)

func auditRegistryCanonicalJSON() []byte {
	auditRegistryJSONOnce.Do(func() {
		auditRegistryJSONCache = canonicalJSON(mustReadEmbedded(auditRegistryPath))
	})
	return auditRegistryJSONCache
}

func wcag20aaRegistryCanonicalJSON() []byte {
	wcagRegistryJSONOnce.Do(func() {
		wcagRegistryJSONCache = canonicalJSON(mustReadEmbedded(wcag20aaRegistryPath))
	})
	return wcagRegistryJSONCache
}

func section508HTMLRegistryCanonicalJSON() []byte {
	section508JSONOnce.Do(func() {
		section508JSONCache = canonicalJSON(mustReadEmbedded(section508HTMLRegistryPath))
	})
	return section508JSONCache
}

// AuditRegistryV1JSON returns the canonical JSON rendering of the PMR
// audit registry.
func AuditRegistryV1JSON() []byte { return auditRegistryCanonicalJSON() }

// WCAG20AARegistryV1JSON returns the canonical JSON rendering of the
// WCAG 2.0 AA registry.
func WCAG20AARegistryV1JSON() []byte { return wcag20aaRegistryCanonicalJSON() }

// Section508HTMLRegistryV1JSON returns the canonical JSON rendering of
// the Section 508 HTML registry.
func Section508HTMLRegistryV1JSON() []byte { return section508HTMLRegistryCanonicalJSON() }

// RegistryJSON resolves a registry id to its canonical JSON bytes, or
// (nil, false) for an id this contract doesn't bundle.
func RegistryJSON(id string) ([]byte, bool) {
	switch id {
	case auditRegistryID:
		return AuditRegistryV1JSON(), true
	case wcag20aaRegistryID:
		return WCAG20AARegistryV1JSON(), true
	case section508HTMLRegistryID:
		return Section508HTMLRegistryV1JSON(), true
	default:
		return nil, false
	}
}

func contractFingerprint() string {
	contractFingerprintOnce.Do(func() {
		h := sha256.New()
		write := func(s string) { h.Write([]byte(s)); h.Write([]byte{'\n'}) }
		write(ContractID)
		write(ContractVersion)
		write(auditRegistryID)
		write(hexSHA256(AuditRegistryV1JSON()))
		write(wcag20aaRegistryID)
		write(hexSHA256(WCAG20AARegistryV1JSON()))
		write(section508HTMLRegistryID)
		write(hexSHA256(Section508HTMLRegistryV1JSON()))
		contractFingerprintCache = hex.EncodeToString(h.Sum(nil))
	})
	return contractFingerprintCache
}

// BuildMetadata returns the audit contract's own identity and a content
// hash for every registry it bundles, for embedding into a document's own
// audit-report metadata so a later reader can detect policy drift.
func BuildMetadata() Metadata {
	return Metadata{
		ContractID:                       ContractID,
		ContractVersion:                  ContractVersion,
		ContractFingerprintSHA256:        contractFingerprint(),
		AuditRegistryID:                  auditRegistryID,
		AuditRegistryHashSHA256:          hexSHA256(AuditRegistryV1JSON()),
		WCAG20AARegistryID:               wcag20aaRegistryID,
		WCAG20AARegistryHashSHA256:       hexSHA256(WCAG20AARegistryV1JSON()),
		Section508HTMLRegistryID:         section508HTMLRegistryID,
		Section508HTMLRegistryHashSHA256: hexSHA256(Section508HTMLRegistryV1JSON()),
	}
}

// validateEmbeddedRegistries re-reads every embedded registry file and
// reports a missing or unparsable one as a structural error; this
// package's tests call it. The package-level registry variables already
// parse these files at init and panic on a malformed one.
func validateEmbeddedRegistries() error {
	for _, path := range []string{auditRegistryPath, wcag20aaRegistryPath, section508HTMLRegistryPath} {
		data, err := registryFS.ReadFile(path)
		if err != nil {
			return ferrors.Wrap(ferrors.KindStructural, "audit.missing_registry", path, err)
		}
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return ferrors.Wrap(ferrors.KindStructural, "audit.invalid_registry", path, err)
		}
	}
	return nil
}
