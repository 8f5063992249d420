// Package session holds the interview flow controller. The controller
// owns the mutable answer map and the active question set; the flow
// engine itself stays pure and is called with plain values.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"docsmith/internal/catalog"
	"docsmith/internal/flow"
)

// Session is the persistent state of one interview.
type Session struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Tags      []string       `json:"tags,omitempty"`
	Answers   flow.AnswerMap `json:"answers"`
	Triggered []string       `json:"triggered,omitempty"`
}

// Controller drives one interview over an immutable catalog bundle.
type Controller struct {
	bundle    *catalog.Bundle
	sess      *Session
	triggered map[string]struct{}
}

// New starts a fresh interview restricted to the given focus areas.
// Empty tags mean the whole catalog is in play.
func New(bundle *catalog.Bundle, tags []string) *Controller {
	now := time.Now().UTC()
	return &Controller{
		bundle: bundle,
		sess: &Session{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
			Tags:      tags,
			Answers:   flow.AnswerMap{},
		},
		triggered: make(map[string]struct{}),
	}
}

// Resume continues a previously persisted session against the bundle.
func Resume(bundle *catalog.Bundle, sess *Session) *Controller {
	if sess.Answers == nil {
		sess.Answers = flow.AnswerMap{}
	}
	triggered := make(map[string]struct{}, len(sess.Triggered))
	for _, id := range sess.Triggered {
		triggered[id] = struct{}{}
	}
	return &Controller{bundle: bundle, sess: sess, triggered: triggered}
}

// Session exposes the current state for persistence.
func (c *Controller) Session() *Session {
	return c.sess
}

// Reload swaps in a freshly loaded catalog bundle. Answers and the
// triggered set carry over; answers to questions that no longer exist
// simply stop matching anything.
func (c *Controller) Reload(bundle *catalog.Bundle) {
	c.bundle = bundle
}

// Answer records a value and returns the follow-up questions it
// unlocked, in declared trigger order. Unlocked questions are merged
// into the active set so they survive later tag filtering.
func (c *Controller) Answer(questionID string, value interface{}) ([]*catalog.Question, error) {
	q, ok := c.bundle.Lookup[questionID]
	if !ok {
		return nil, fmt.Errorf("unknown question %q", questionID)
	}

	c.sess.Answers[questionID] = value
	c.sess.UpdatedAt = time.Now().UTC()

	unlocked := flow.ExpandTriggers(q, value, c.bundle.Lookup)
	for _, follow := range unlocked {
		if _, seen := c.triggered[follow.ID]; seen {
			continue
		}
		c.triggered[follow.ID] = struct{}{}
		c.sess.Triggered = append(c.sess.Triggered, follow.ID)
	}
	return unlocked, nil
}

// Active returns the questions currently in scope: the tag-filtered
// catalog subset plus everything unlocked by triggers, in catalog
// order, minus skip-evaluated entries.
func (c *Controller) Active() []*catalog.Question {
	inScope := make(map[string]struct{})
	for _, q := range flow.FilterByTags(c.bundle.Questions, c.sess.Tags, c.sess.Answers) {
		inScope[q.ID] = struct{}{}
	}

	active := make([]*catalog.Question, 0, len(inScope)+len(c.triggered))
	for _, q := range c.bundle.Questions {
		_, tagged := inScope[q.ID]
		_, fired := c.triggered[q.ID]
		if !tagged && !fired {
			continue
		}
		if fired && !tagged {
			// Triggered questions still honor their own skip condition.
			if q.SkipIf != nil && flow.Evaluate(q.SkipIf, c.sess.Answers) {
				continue
			}
		}
		active = append(active, q)
	}
	return active
}

// Next returns the first unanswered active question for the stage, or
// nil when the stage is exhausted.
func (c *Controller) Next(stage string) *catalog.Question {
	visible := flow.VisibleForStage(c.Active(), stage, c.sess.Answers)
	if len(visible) == 0 {
		return nil
	}
	return visible[0]
}

// Stages lists the stages of the active set in catalog order.
func (c *Controller) Stages() []string {
	seen := make(map[string]struct{})
	var stages []string
	for _, q := range c.Active() {
		if _, ok := seen[q.Stage]; ok {
			continue
		}
		seen[q.Stage] = struct{}{}
		stages = append(stages, q.Stage)
	}
	return stages
}

// Analyze runs the complexity analyzer over the current answers.
func (c *Controller) Analyze() flow.Analysis {
	return flow.Analyze(c.sess.Answers, c.bundle.Schema)
}

// Progress summarizes how far the interview has come relative to the
// recommended tier's completeness gate.
type Progress struct {
	Answered     int                     `json:"answered"`
	Active       int                     `json:"active"`
	Required     int                     `json:"required"`
	Level        catalog.ComplexityLevel `json:"level"`
	DataComplete bool                    `json:"data_complete"`
}

// Progress reports answered counts against the recommended level.
func (c *Controller) Progress() Progress {
	analysis := c.Analyze()
	required := flow.MinAnsweredFields(analysis.RecommendedLevel)
	answered := len(c.sess.Answers)
	return Progress{
		Answered:     answered,
		Active:       len(c.Active()),
		Required:     required,
		Level:        analysis.RecommendedLevel,
		DataComplete: answered >= required,
	}
}
