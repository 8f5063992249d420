package flow

import "docsmith/internal/catalog"

// ExpandTriggers resolves the follow-up questions unlocked by answering
// q with the given value. The answer is matched against the question's
// trigger map by canonical string form; referenced IDs are returned in
// declared order. IDs missing from the lookup are skipped silently so
// catalogs can drop questions without breaking older trigger
// declarations. The result is advisory: nothing in the caller's state
// is touched.
func ExpandTriggers(q *catalog.Question, answer interface{}, lookup catalog.Lookup) []*catalog.Question {
	if q == nil || len(q.Triggers) == 0 {
		return nil
	}
	return ExpandTriggerMap(q.Triggers, answer, lookup)
}

// ExpandTriggerMap is the legacy-compatibility form taking a bare
// trigger map instead of a full Question.
func ExpandTriggerMap(triggers map[string][]string, answer interface{}, lookup catalog.Lookup) []*catalog.Question {
	ids, ok := triggers[CanonicalString(answer)]
	if !ok {
		return nil
	}
	expanded := make([]*catalog.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := lookup[id]; ok {
			expanded = append(expanded, q)
		}
	}
	return expanded
}
