package flow

import "docsmith/internal/catalog"

// FilterByTags narrows a catalog to the user's focus areas, preserving
// the original order. Two stages:
//
//  1. Tag stage: with no selected tags everything passes. Otherwise a
//     question survives if it carries the foundation tag or shares at
//     least one tag with the selection (OR semantics).
//  2. Skip stage: the surviving questions' skip conditions are
//     evaluated and matches are dropped.
//
// The cheap set test runs first so the recursive condition evaluation
// only sees the already reduced candidate set.
func FilterByTags(questions []*catalog.Question, selectedTags []string, answers AnswerMap) []*catalog.Question {
	candidates := questions
	if len(selectedTags) > 0 {
		selected := make(map[string]struct{}, len(selectedTags))
		for _, t := range selectedTags {
			selected[t] = struct{}{}
		}
		candidates = make([]*catalog.Question, 0, len(questions))
		for _, q := range questions {
			if q.HasTag(catalog.FoundationTag) || intersects(q.Tags, selected) {
				candidates = append(candidates, q)
			}
		}
	}

	visible := make([]*catalog.Question, 0, len(candidates))
	for _, q := range candidates {
		if q.SkipIf != nil && Evaluate(q.SkipIf, answers) {
			continue
		}
		visible = append(visible, q)
	}
	return visible
}

func intersects(tags []string, selected map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := selected[t]; ok {
			return true
		}
	}
	return false
}

// FilterOptions narrows FilterQuestions. Zero values mean "no
// constraint"; Level is only consulted when CheckLevel is set since the
// lowest tier is a valid constraint of its own.
type FilterOptions struct {
	Stage      string
	Kind       catalog.InputKind
	CheckLevel bool
	Level      catalog.ComplexityLevel
	Schema     *catalog.TagSchema
	Answers    AnswerMap
}

// FilterQuestions is the broader routing filter used by complexity- and
// stage-based selection. It applies, in order: declared stage, input
// kind, complexity-tier membership from the tag schema's field
// metadata, and finally skip evaluation. A question without field
// metadata belongs only to the lowest tier.
func FilterQuestions(questions []*catalog.Question, opts FilterOptions) []*catalog.Question {
	out := make([]*catalog.Question, 0, len(questions))
	for _, q := range questions {
		if opts.Stage != "" && q.Stage != opts.Stage {
			continue
		}
		if opts.Kind != "" && q.Kind != opts.Kind {
			continue
		}
		if opts.CheckLevel && !levelRelevant(q.ID, opts.Level, opts.Schema) {
			continue
		}
		if q.SkipIf != nil && Evaluate(q.SkipIf, opts.Answers) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func levelRelevant(id string, level catalog.ComplexityLevel, schema *catalog.TagSchema) bool {
	if schema == nil {
		return level == catalog.LevelMinimal
	}
	meta, ok := schema.Fields[id]
	if !ok || len(meta.Levels) == 0 {
		return level == catalog.LevelMinimal
	}
	for _, l := range meta.Levels {
		if l == level {
			return true
		}
	}
	return false
}

// VisibleForStage returns the questions to ask next for a stage: stage
// members that have not been answered yet and are not skipped.
func VisibleForStage(questions []*catalog.Question, stage string, answers AnswerMap) []*catalog.Question {
	out := make([]*catalog.Question, 0, len(questions))
	for _, q := range questions {
		if q.Stage != stage {
			continue
		}
		if _, answered := answers.Get(q.ID); answered {
			continue
		}
		if q.SkipIf != nil && Evaluate(q.SkipIf, answers) {
			continue
		}
		out = append(out, q)
	}
	return out
}
