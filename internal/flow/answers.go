// Package flow implements the questionnaire flow-resolution engine:
// skip-condition evaluation, trigger expansion, tag filtering, and
// complexity analysis. Every entry point is a pure function over its
// arguments; the engine holds no state of its own and only ever reads
// the answer map it is handed.
package flow

import (
	"strconv"
	"strings"
)

// AnswerMap maps a field path (question ID) to the recorded answer.
// Values are text, numbers, booleans, or ordered collections of these.
// The map is owned by the flow controller; this package only reads it.
type AnswerMap map[string]interface{}

// Get returns the answer at the given field path. The second result is
// false when the field is absent, which every caller must treat as
// distinct from any stored literal (including false and nil).
func (a AnswerMap) Get(field string) (interface{}, bool) {
	v, ok := a[field]
	return v, ok
}

// AnsweredFields returns the IDs of all answered fields.
func (a AnswerMap) AnsweredFields() []string {
	fields := make([]string, 0, len(a))
	for f := range a {
		fields = append(fields, f)
	}
	return fields
}

// valueEquals implements strict equality between a stored answer and a
// condition literal: booleans only equal booleans, strings only equal
// strings, and numbers only equal numbers (compared numerically, since
// YAML and JSON decoders disagree on int versus float64).
func valueEquals(value, literal interface{}) bool {
	if value == nil || literal == nil {
		return value == nil && literal == nil
	}
	if vn, ok := asNumber(value); ok {
		ln, lok := asNumber(literal)
		return lok && vn == ln
	}
	switch v := value.(type) {
	case bool:
		l, ok := literal.(bool)
		return ok && v == l
	case string:
		l, ok := literal.(string)
		return ok && v == l
	default:
		return false
	}
}

// asNumber normalizes every numeric shape the decoders produce.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// asList returns the answer as an ordered collection. Any other shape,
// including a missing value, yields nil and false.
func asList(v interface{}) ([]interface{}, bool) {
	switch l := v.(type) {
	case []interface{}:
		return l, true
	case []string:
		out := make([]interface{}, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// CanonicalString converts an answer value to the exact string form used
// as a trigger-map key: bare booleans, numbers without a trailing ".0",
// strings verbatim.
func CanonicalString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		if n, ok := asNumber(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return ""
	}
}

// truthy implements the legacy bare-field-path check: absent, false,
// empty string, zero, and empty collections are all false.
func truthy(v interface{}, present bool) bool {
	if !present || v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.TrimSpace(val) != ""
	default:
		if n, ok := asNumber(v); ok {
			return n != 0
		}
		if l, ok := asList(v); ok {
			return len(l) > 0
		}
		return true
	}
}
