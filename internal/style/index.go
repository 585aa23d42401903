package style

// candidateKeys returns the bucket keys sel's rightmost simple selector
// participates in: its id, its classes and its tag, or the universal
// bucket alone when it has none of those. Matching only ever needs to consult the buckets an
// element itself belongs to, instead of testing every rule.
func candidateKeys(sel Selector) []string {
	if len(sel.Compounds) == 0 {
		return []string{"*"}
	}
	last := sel.Compounds[len(sel.Compounds)-1]
	var keys []string
	if last.ID != "" {
		keys = append(keys, "#"+last.ID)
	}
	for _, c := range last.Classes {
		keys = append(keys, "."+c)
	}
	if last.Tag != "" && last.Tag != "*" {
		keys = append(keys, last.Tag)
	}
	if len(keys) == 0 {
		// No id/class/tag constraint on the rightmost compound (a bare
		// "*" or a pseudo-class-only compound): only the universal
		// bucket can find it.
		keys = append(keys, "*")
	}
	return keys
}

// selectorIndex buckets every (rule, selector) pair by the candidate keys
// its rightmost compound could match, so resolving one element only
// walks the rules that could plausibly apply to it.
type selectorIndex struct {
	buckets map[string][]indexedSelector
}

type indexedSelector struct {
	rule *Rule
	sel  Selector
}

func buildSelectorIndex(sheet *Stylesheet) *selectorIndex {
	idx := &selectorIndex{buckets: map[string][]indexedSelector{}}
	for i := range sheet.Rules {
		rule := &sheet.Rules[i]
		for _, sel := range rule.Selectors {
			for _, key := range candidateKeys(sel) {
				idx.buckets[key] = append(idx.buckets[key], indexedSelector{rule: rule, sel: sel})
			}
		}
	}
	return idx
}

// candidatesFor returns every indexed selector that could match el, from
// the buckets el actually belongs to. It does not deduplicate: a selector
// with several keys (say an id and a class) can appear once per bucket, so
// callers skip rules they have already seen.
func (idx *selectorIndex) candidatesFor(el Element) []indexedSelector {
	var out []indexedSelector
	if id := el.ID(); id != "" {
		out = append(out, idx.buckets["#"+id]...)
	}
	for _, c := range el.Classes() {
		out = append(out, idx.buckets["."+c]...)
	}
	out = append(out, idx.buckets[el.Tag()]...)
	out = append(out, idx.buckets["*"]...)
	return out
}
