package audit

// wcagRuleMapping ties a registry entry to one fullbleed rule id and the
// maturity of that rule's support for the entry (implemented, supporting,
// or planned). It's shared verbatim between the WCAG and Section 508
// registries since both use the same mapping shape.
type wcagRuleMapping struct {
	ID     string `yaml:"id"`
	Status string `yaml:"status"`
}

type wcagScope struct {
	TotalEntries                 int `yaml:"total_entries"`
	TotalSuccessCriteria         int `yaml:"total_success_criteria"`
	TotalConformanceRequirements int `yaml:"total_conformance_requirements"`
}

type wcagEntry struct {
	ID                   string            `yaml:"id"`
	Kind                 string            `yaml:"kind"`
	FullbleedRuleMapping []wcagRuleMapping `yaml:"fullbleed_rule_mapping"`
}

type wcagRegistryDoc struct {
	Schema      string      `yaml:"schema"`
	Version     int         `yaml:"version"`
	WcagVersion string      `yaml:"wcag_version"`
	TargetLevel string      `yaml:"target_level"`
	Scope       wcagScope   `yaml:"scope"`
	Entries     []wcagEntry `yaml:"entries"`
}

var wcagRegistry = mustParseWcagRegistry()

func mustParseWcagRegistry() wcagRegistryDoc {
	var doc wcagRegistryDoc
	mustUnmarshalYAML(mustReadEmbedded(wcag20aaRegistryPath), &doc)
	return doc
}

type section508Scope struct {
	TotalEntries            int `yaml:"total_entries"`
	TotalSpecificEntries    int `yaml:"total_specific_entries"`
	InheritedWcagEntryCount int `yaml:"inherited_wcag_entry_count"`
}

type section508Entry struct {
	ID                   string            `yaml:"id"`
	FullbleedRuleMapping []wcagRuleMapping `yaml:"fullbleed_rule_mapping"`
}

type section508RegistryDoc struct {
	Schema    string            `yaml:"schema"`
	Version   int               `yaml:"version"`
	ProfileID string            `yaml:"profile_id"`
	Scope     section508Scope   `yaml:"scope"`
	Entries   []section508Entry `yaml:"entries"`
}

var section508Registry = mustParseSection508Registry()

func mustParseSection508Registry() section508RegistryDoc {
	var doc section508RegistryDoc
	mustUnmarshalYAML(mustReadEmbedded(section508HTMLRegistryPath), &doc)
	return doc
}
