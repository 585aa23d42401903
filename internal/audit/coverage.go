package audit

// Verdict is the outcome of evaluating a single machine-checkable rule
// against a rendered document.
type Verdict string

const (
	VerdictPass          Verdict = "pass"
	VerdictFail          Verdict = "fail"
	VerdictWarn          Verdict = "warn"
	VerdictManualNeeded  Verdict = "manual_needed"
	VerdictNotApplicable Verdict = "not_applicable"
	VerdictUnknown       Verdict = "unknown"
)

func verdictRank(v Verdict) int {
	switch v {
	case VerdictFail:
		return 5
	case VerdictWarn:
		return 4
	case VerdictManualNeeded:
		return 3
	case VerdictPass:
		return 2
	case VerdictNotApplicable:
		return 1
	default:
		return 0
	}
}

// WorstVerdict folds a set of rule verdicts down to the single most
// severe one: fail outranks warn, which outranks manual_needed, which
// outranks pass, which outranks not_applicable, which outranks an
// unrecognized/empty verdict. Called with no verdicts, it returns
// VerdictUnknown.
func WorstVerdict(verdicts ...Verdict) Verdict {
	worst := VerdictUnknown
	worstRank := verdictRank(VerdictUnknown)
	for _, v := range verdicts {
		if r := verdictRank(v); r > worstRank {
			worst, worstRank = v, r
		}
	}
	return worst
}

// RuleVerdict pairs a fullbleed rule id with its evaluated verdict, the
// unit coverage folding works from.
type RuleVerdict struct {
	RuleID  string
	Verdict Verdict
}

func verdictIndex(verdicts []RuleVerdict) map[string][]Verdict {
	idx := make(map[string][]Verdict, len(verdicts))
	for _, rv := range verdicts {
		idx[rv.RuleID] = append(idx[rv.RuleID], rv.Verdict)
	}
	return idx
}

// WcagImplementedMappedResultCounts tallies, across every mapped registry
// entry that received at least one verdict (whatever the status of its
// rule mappings), how many entries folded to each worst verdict.
type WcagImplementedMappedResultCounts struct {
	Pass          int
	Fail          int
	Warn          int
	ManualNeeded  int
	NotApplicable int
	Unknown       int
}

func (c *WcagImplementedMappedResultCounts) record(v Verdict) {
	switch v {
	case VerdictPass:
		c.Pass++
	case VerdictFail:
		c.Fail++
	case VerdictWarn:
		c.Warn++
	case VerdictManualNeeded:
		c.ManualNeeded++
	case VerdictNotApplicable:
		c.NotApplicable++
	default:
		c.Unknown++
	}
}

// Wcag20AaCoverageSummary folds a document's rule verdicts against the
// compiled-in WCAG 2.0 AA registry into entry-level coverage counts.
type Wcag20AaCoverageSummary struct {
	TotalEntries                  int
	TotalSuccessCriteria          int
	TotalConformanceRequirements  int
	MappedEntries                 int
	UnmappedEntries               int
	EvaluatedEntries              int
	ImplementedOnlyEntries        int
	SupportingOnlyEntries         int
	PlanningOnlyEntries           int
	ImplementedMappedResultCounts WcagImplementedMappedResultCounts
}

func foldEntryStatus(mappings []wcagRuleMapping, verdicts map[string][]Verdict) (hasImplemented, hasSupporting, hasPlanned, evaluated bool, folded Verdict) {
	var collected []Verdict
	for _, m := range mappings {
		switch m.Status {
		case "implemented":
			hasImplemented = true
		case "supporting":
			hasSupporting = true
		case "planned":
			hasPlanned = true
		}
		if vs, ok := verdicts[m.ID]; ok {
			collected = append(collected, vs...)
		}
	}
	if len(collected) > 0 {
		evaluated = true
		folded = WorstVerdict(collected...)
	}
	return
}

// Wcag20AACoverageFromRuleVerdicts folds the given rule verdicts into a
// coverage summary over the compiled-in WCAG 2.0 AA registry.
func Wcag20AACoverageFromRuleVerdicts(verdicts ...RuleVerdict) Wcag20AaCoverageSummary {
	idx := verdictIndex(verdicts)
	summary := Wcag20AaCoverageSummary{
		TotalEntries:                 wcagRegistry.Scope.TotalEntries,
		TotalSuccessCriteria:         wcagRegistry.Scope.TotalSuccessCriteria,
		TotalConformanceRequirements: wcagRegistry.Scope.TotalConformanceRequirements,
	}
	for _, e := range wcagRegistry.Entries {
		if len(e.FullbleedRuleMapping) == 0 {
			summary.UnmappedEntries++
			continue
		}
		summary.MappedEntries++
		hasImplemented, hasSupporting, hasPlanned, evaluated, folded := foldEntryStatus(e.FullbleedRuleMapping, idx)
		switch {
		case evaluated:
			summary.EvaluatedEntries++
			summary.ImplementedMappedResultCounts.record(folded)
		case hasImplemented:
			summary.ImplementedOnlyEntries++
		case hasSupporting:
			summary.SupportingOnlyEntries++
		case hasPlanned:
			summary.PlanningOnlyEntries++
		}
	}
	return summary
}

// Section508HtmlCoverageSummary folds a document's rule verdicts against
// the compiled-in Section 508 HTML registry. Its inherited_wcag_* fields
// mirror the WCAG coverage a Section 508 profile pulls in alongside its
// own HTML-specific entries.
type Section508HtmlCoverageSummary struct {
	TotalEntries                  int
	TotalSpecificEntries          int
	InheritedWcagEntryCount       int
	MappedEntries                 int
	UnmappedEntries               int
	EvaluatedEntries              int
	ImplementedOnlyEntries        int
	SupportingOnlyEntries         int
	PlanningOnlyEntries           int
	ImplementedMappedResultCounts WcagImplementedMappedResultCounts
	InheritedWcag                 Wcag20AaCoverageSummary
}

// Section508HTMLCoverageFromRuleVerdicts folds the given rule verdicts
// into a coverage summary over the compiled-in Section 508 HTML registry,
// including the WCAG coverage it inherits.
func Section508HTMLCoverageFromRuleVerdicts(verdicts ...RuleVerdict) Section508HtmlCoverageSummary {
	idx := verdictIndex(verdicts)
	summary := Section508HtmlCoverageSummary{
		TotalEntries:            section508Registry.Scope.TotalEntries,
		TotalSpecificEntries:    section508Registry.Scope.TotalSpecificEntries,
		InheritedWcagEntryCount: section508Registry.Scope.InheritedWcagEntryCount,
		InheritedWcag:           Wcag20AACoverageFromRuleVerdicts(verdicts...),
	}
	for _, e := range section508Registry.Entries {
		if len(e.FullbleedRuleMapping) == 0 {
			summary.UnmappedEntries++
			continue
		}
		summary.MappedEntries++
		hasImplemented, hasSupporting, hasPlanned, evaluated, folded := foldEntryStatus(e.FullbleedRuleMapping, idx)
		switch {
		case evaluated:
			summary.EvaluatedEntries++
			summary.ImplementedMappedResultCounts.record(folded)
		case hasImplemented:
			summary.ImplementedOnlyEntries++
		case hasSupporting:
			summary.SupportingOnlyEntries++
		case hasPlanned:
			summary.PlanningOnlyEntries++
		}
	}
	return summary
}
