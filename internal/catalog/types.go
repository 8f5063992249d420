// Package catalog defines the question catalog data model shared by the
// flow engine, the loaders, and the CLI. Catalogs and tag schemas are
// loaded once per session and treated as immutable afterwards.
package catalog

import "strings"

// InputKind describes how a question is answered.
type InputKind string

const (
	InputText   InputKind = "text"
	InputChoice InputKind = "choice"
	InputMulti  InputKind = "multi"
	InputBool   InputKind = "bool"
	InputNumber InputKind = "number"
)

// FoundationTag marks questions that survive any tag filter.
const FoundationTag = "foundation"

// Question is a single catalog entry. Entries are defined statically in
// the catalog file and never mutated during a session.
type Question struct {
	ID         string    `yaml:"id" json:"id"`
	Stage      string    `yaml:"stage" json:"stage"`
	Kind       InputKind `yaml:"kind" json:"kind"`
	Prompt     string    `yaml:"prompt" json:"prompt"`
	Options    []string  `yaml:"options,omitempty" json:"options,omitempty"`
	Validation string    `yaml:"validation,omitempty" json:"validation,omitempty"`
	Tags       []string  `yaml:"tags,omitempty" json:"tags,omitempty"`

	// SkipIf hides the question while the condition holds.
	SkipIf *Expression `yaml:"skip_if,omitempty" json:"skip_if,omitempty"`

	// Triggers maps a literal answer value (in canonical string form)
	// to the question IDs it activates, in declared order.
	Triggers map[string][]string `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

// HasTag reports whether the question carries the given tag.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Lookup indexes a catalog by question ID.
type Lookup map[string]*Question

// NewLookup builds a lookup over the given questions. Later duplicates
// win, matching load order.
func NewLookup(questions []*Question) Lookup {
	l := make(Lookup, len(questions))
	for _, q := range questions {
		l[q.ID] = q
	}
	return l
}

// TagInfo carries display metadata for a known tag.
type TagInfo struct {
	Name        string `yaml:"name" json:"name"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// FieldMetadata describes one question ID inside a TagSchema.
type FieldMetadata struct {
	Tags    []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Related []string          `yaml:"related,omitempty" json:"related,omitempty"`
	Levels  []ComplexityLevel `yaml:"levels,omitempty" json:"levels,omitempty"`
	Weight  int               `yaml:"weight,omitempty" json:"weight,omitempty"`
}

// TagSchema is the global tag registry plus per-field metadata.
type TagSchema struct {
	Tags   []TagInfo                `yaml:"tags,omitempty" json:"tags,omitempty"`
	Fields map[string]FieldMetadata `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// FieldWeight returns the declared weight for a field, defaulting to 1
// for fields absent from the metadata.
func (s *TagSchema) FieldWeight(id string) int {
	if s == nil {
		return 1
	}
	meta, ok := s.Fields[id]
	if !ok || meta.Weight <= 0 {
		return 1
	}
	return meta.Weight
}

// ComplexityLevel is the ordered five-tier project scope rating.
type ComplexityLevel int

const (
	LevelMinimal ComplexityLevel = iota
	LevelBasic
	LevelStandard
	LevelAdvanced
	LevelEnterprise
)

// Levels lists every tier from lowest to highest.
func Levels() []ComplexityLevel {
	return []ComplexityLevel{LevelMinimal, LevelBasic, LevelStandard, LevelAdvanced, LevelEnterprise}
}

func (l ComplexityLevel) String() string {
	switch l {
	case LevelMinimal:
		return "minimal"
	case LevelBasic:
		return "basic"
	case LevelStandard:
		return "standard"
	case LevelAdvanced:
		return "advanced"
	case LevelEnterprise:
		return "enterprise"
	default:
		return "unknown"
	}
}

// ParseLevel maps a level name to its tier. Unknown names fall back to
// the lowest tier, matching the engine's conservative defaults.
func ParseLevel(s string) ComplexityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return LevelBasic
	case "standard":
		return LevelStandard
	case "advanced":
		return LevelAdvanced
	case "enterprise":
		return LevelEnterprise
	default:
		return LevelMinimal
	}
}

// UnmarshalYAML accepts level names in schema files.
func (l *ComplexityLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	*l = ParseLevel(name)
	return nil
}

// MarshalYAML writes the level name.
func (l ComplexityLevel) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}
