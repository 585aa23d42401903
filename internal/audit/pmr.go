package audit

import "fmt"

// PmrCategoryDef is one weighted scoring category in the PMR audit
// registry; category weights sum to 100 across the registry.
type PmrCategoryDef struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Weight int    `yaml:"weight" json:"weight"`
}

// PmrAuditDef is one auditable rule within a PMR category.
type PmrAuditDef struct {
	ID               string `yaml:"id" json:"id"`
	System           string `yaml:"system" json:"system"`
	Category         string `yaml:"category" json:"category"`
	Weight           int    `yaml:"weight" json:"weight"`
	Class            string `yaml:"class" json:"class"`
	VerificationMode string `yaml:"verification_mode" json:"verification_mode"`
	Severity         string `yaml:"severity" json:"severity"`
	Stage            string `yaml:"stage" json:"stage"`
	Scored           bool   `yaml:"scored" json:"scored"`
	DefaultGateLevel string `yaml:"default_gate_level" json:"default_gate_level"`
}

type pmrGateOverride struct {
	ID    string `yaml:"id"`
	Level string `yaml:"level"`
}

type pmrProfileOverrides struct {
	Overrides []pmrGateOverride `yaml:"overrides"`
}

type pmrAuditRegistryDoc struct {
	Schema        string                         `yaml:"schema"`
	Version       int                            `yaml:"version"`
	PmrCategories []PmrCategoryDef               `yaml:"pmr_categories"`
	Entries       []PmrAuditDef                  `yaml:"entries"`
	Profiles      map[string]pmrProfileOverrides `yaml:"profiles"`
}

var pmrRegistry = mustParsePmrRegistry()

func mustParsePmrRegistry() pmrAuditRegistryDoc {
	var doc pmrAuditRegistryDoc
	mustUnmarshalYAML(mustReadEmbedded(auditRegistryPath), &doc)
	return doc
}

// PMRCategoryDefsV1 returns the registry's weighted scoring categories.
func PMRCategoryDefsV1() []PmrCategoryDef {
	return append([]PmrCategoryDef(nil), pmrRegistry.PmrCategories...)
}

// PMRAuditDefsV1 returns every PMR audit rule definition.
func PMRAuditDefsV1() []PmrAuditDef {
	return append([]PmrAuditDef(nil), pmrRegistry.Entries...)
}

// PMRAuditDef looks up a single audit rule definition by id.
func PMRAuditDef(id string) (PmrAuditDef, bool) {
	for _, e := range pmrRegistry.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return PmrAuditDef{}, false
}

// PMRDefaultGateLevel returns the registry's unconditional gate level for
// an audit id, independent of output profile.
func PMRDefaultGateLevel(id string) (string, bool) {
	def, ok := PMRAuditDef(id)
	if !ok {
		return "", false
	}
	return def.DefaultGateLevel, true
}

// PMRProfileGateOverride returns the gate level a named output profile
// overrides for an audit id, if any.
func PMRProfileGateOverride(profile, id string) (string, bool) {
	overrides, ok := pmrRegistry.Profiles[profile]
	if !ok {
		return "", false
	}
	for _, o := range overrides.Overrides {
		if o.ID == id {
			return o.Level, true
		}
	}
	return "", false
}

// PMREffectiveGateLevel resolves the gate level that actually applies to
// an audit id under a given output profile: a profile override wins over
// the audit's own default.
func PMREffectiveGateLevel(profile, id string) (string, error) {
	if level, ok := PMRProfileGateOverride(profile, id); ok {
		return level, nil
	}
	if level, ok := PMRDefaultGateLevel(id); ok {
		return level, nil
	}
	return "", fmt.Errorf("audit: unknown PMR audit id %q", id)
}
