package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorstVerdictRanksFailHighest(t *testing.T) {
	assert.Equal(t, VerdictFail, WorstVerdict(VerdictPass, VerdictWarn, VerdictFail))
	assert.Equal(t, VerdictWarn, WorstVerdict(VerdictPass, VerdictWarn))
	assert.Equal(t, VerdictManualNeeded, WorstVerdict(VerdictNotApplicable, VerdictManualNeeded))
	assert.Equal(t, VerdictNotApplicable, WorstVerdict(VerdictNotApplicable))
	assert.Equal(t, VerdictUnknown, WorstVerdict())
}

func TestWcag20AACoverageFromRuleVerdictsCountsScope(t *testing.T) {
	summary := Wcag20AACoverageFromRuleVerdicts()
	assert.Equal(t, 10, summary.TotalEntries)
	assert.Equal(t, 8, summary.TotalSuccessCriteria)
	assert.Equal(t, 2, summary.TotalConformanceRequirements)
	assert.Equal(t, 9, summary.MappedEntries, "every entry but wcag.conformance.complete_processes has a mapping")
	assert.Equal(t, 1, summary.UnmappedEntries)
}

func TestWcag20AACoverageFoldsRuleVerdictsIntoWorstResult(t *testing.T) {
	summary := Wcag20AACoverageFromRuleVerdicts(
		RuleVerdict{RuleID: "fb.a11y.images.alt_text_present", Verdict: VerdictPass},
		RuleVerdict{RuleID: "fb.a11y.structure.single_main", Verdict: VerdictPass},
		RuleVerdict{RuleID: "fb.a11y.ids.duplicate_id", Verdict: VerdictFail},
	)
	assert.Equal(t, 1, summary.ImplementedMappedResultCounts.Pass, "alt text entry folds to a clean pass")
	assert.Equal(t, 2, summary.ImplementedMappedResultCounts.Fail, "info_and_relationships and parsing both map duplicate_id, each folds to its worst verdict")
	assert.Equal(t, 3, summary.EvaluatedEntries)
}

func TestWcag20AACoverageUnevaluatedMappedEntryIsNotCountedAsEvaluated(t *testing.T) {
	summary := Wcag20AACoverageFromRuleVerdicts()
	assert.Equal(t, 0, summary.EvaluatedEntries)
	assert.Equal(t, 9, summary.ImplementedOnlyEntries+summary.SupportingOnlyEntries, "9 mapped-but-unevaluated entries: 8 implemented-only, 1 supporting-only")
}

func TestSection508HTMLCoverageFromRuleVerdictsCountsScope(t *testing.T) {
	summary := Section508HTMLCoverageFromRuleVerdicts()
	assert.Equal(t, 14, summary.TotalEntries)
	assert.Equal(t, 4, summary.TotalSpecificEntries)
	assert.Equal(t, 10, summary.InheritedWcagEntryCount)
	assert.Equal(t, 4, summary.MappedEntries)
	assert.Equal(t, 0, summary.UnmappedEntries)
}

func TestSection508HTMLCoverageIncludesInheritedWcagSummary(t *testing.T) {
	summary := Section508HTMLCoverageFromRuleVerdicts(
		RuleVerdict{RuleID: "fb.a11y.signatures.text_semantics_present", Verdict: VerdictPass},
		RuleVerdict{RuleID: "fb.a11y.html.title_present_nonempty", Verdict: VerdictPass},
	)
	assert.Equal(t, 1, summary.ImplementedMappedResultCounts.Pass)
	assert.Equal(t, 1, summary.InheritedWcag.ImplementedMappedResultCounts.Pass)
}
