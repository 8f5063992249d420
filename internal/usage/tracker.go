// Package usage records interview activity counters and persists them
// to the workspace dot-directory as JSON.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type contextKey struct{}

// Counters aggregates activity totals.
type Counters struct {
	SessionsStarted   int `json:"sessions_started"`
	SessionsResumed   int `json:"sessions_resumed"`
	AnswersRecorded   int `json:"answers_recorded"`
	QuestionsRevealed int `json:"questions_revealed"`
	DocumentsRendered int `json:"documents_rendered"`
}

// Data is the persisted usage file layout.
type Data struct {
	Version   string         `json:"version"`
	Totals    Counters       `json:"totals"`
	ByLevel   map[string]int `json:"documents_by_level"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Tracker manages usage recording and persistence.
type Tracker struct {
	mu       sync.Mutex
	data     Data
	filePath string
	dirty    bool
}

// NewTracker creates a tracker persisting under workspacePath/.docsmith.
func NewTracker(workspacePath string) (*Tracker, error) {
	dir := filepath.Join(workspacePath, ".docsmith")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create .docsmith dir: %w", err)
	}

	t := &Tracker{
		filePath: filepath.Join(dir, "usage.json"),
		data: Data{
			Version: "1.0",
			ByLevel: make(map[string]int),
		},
	}

	// A corrupt or missing file starts the counters over.
	_ = t.Load()
	return t, nil
}

// Load reads the usage data from disk.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &t.data); err != nil {
		return err
	}
	if t.data.ByLevel == nil {
		t.data.ByLevel = make(map[string]int)
	}
	return nil
}

// Save writes the usage data to disk.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	t.data.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.filePath, data, 0644)
}

// SessionStarted records a new interview session.
func (t *Tracker) SessionStarted() { t.bump(func(c *Counters) { c.SessionsStarted++ }) }

// SessionResumed records a resumed session.
func (t *Tracker) SessionResumed() { t.bump(func(c *Counters) { c.SessionsResumed++ }) }

// AnswerRecorded records one answered question plus any questions the
// answer revealed.
func (t *Tracker) AnswerRecorded(revealed int) {
	t.bump(func(c *Counters) {
		c.AnswersRecorded++
		c.QuestionsRevealed += revealed
	})
}

// DocumentRendered records a rendered document at the given level.
func (t *Tracker) DocumentRendered(level string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.Totals.DocumentsRendered++
	t.data.ByLevel[level]++
	t.scheduleSaveLocked()
}

func (t *Tracker) bump(update func(*Counters)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	update(&t.data.Totals)
	t.scheduleSaveLocked()
}

// scheduleSaveLocked debounces disk writes so rapid answer sequences
// do not thrash the filesystem.
func (t *Tracker) scheduleSaveLocked() {
	if t.dirty {
		return
	}
	t.dirty = true
	time.AfterFunc(2*time.Second, func() {
		t.Save()
		t.mu.Lock()
		t.dirty = false
		t.mu.Unlock()
	})
}

// Totals returns a copy of the aggregated counters.
func (t *Tracker) Totals() Counters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data.Totals
}

// ByLevel returns a copy of the per-level document counts.
func (t *Tracker) ByLevel() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.data.ByLevel))
	for k, v := range t.data.ByLevel {
		out[k] = v
	}
	return out
}

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the tracker from the context, or nil.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(contextKey{}).(*Tracker)
	return t
}
