package catalog

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ExprKind discriminates the Expression variants.
type ExprKind int

const (
	// ExprInvalid marks a malformed condition. It always evaluates to
	// false so a broken rule can never hide the whole questionnaire.
	ExprInvalid ExprKind = iota
	ExprLegacy
	ExprEq
	ExprNeq
	ExprHas
	ExprNot
	ExprAnd
	ExprOr
)

// Expression is a recursive boolean condition over an answer map. It is
// a tagged union: exactly one variant payload is meaningful per Kind.
// The legacy textual form (a bare infix string) is kept as its own
// variant for catalogs that predate the structured shape.
type Expression struct {
	Kind    ExprKind
	Field   string        // eq, neq, has
	Literal interface{}   // eq, neq, has
	Sub     *Expression   // not
	List    []*Expression // and, or
	Raw     string        // legacy
}

// Constructors for the structured variants.

func Eq(field string, literal interface{}) *Expression {
	return &Expression{Kind: ExprEq, Field: field, Literal: literal}
}

func Neq(field string, literal interface{}) *Expression {
	return &Expression{Kind: ExprNeq, Field: field, Literal: literal}
}

func Has(field string, literal interface{}) *Expression {
	return &Expression{Kind: ExprHas, Field: field, Literal: literal}
}

func Not(sub *Expression) *Expression {
	return &Expression{Kind: ExprNot, Sub: sub}
}

func And(subs ...*Expression) *Expression {
	return &Expression{Kind: ExprAnd, List: subs}
}

func Or(subs ...*Expression) *Expression {
	return &Expression{Kind: ExprOr, List: subs}
}

func Legacy(raw string) *Expression {
	return &Expression{Kind: ExprLegacy, Raw: raw}
}

// exprKeys is the fixed dispatch order for the structured mapping form.
// Only the first recognized key is honored.
var exprKeys = []string{"eq", "neq", "has", "not", "and", "or"}

func kindForKey(key string) ExprKind {
	switch key {
	case "eq":
		return ExprEq
	case "neq":
		return ExprNeq
	case "has":
		return ExprHas
	case "not":
		return ExprNot
	case "and":
		return ExprAnd
	case "or":
		return ExprOr
	default:
		return ExprInvalid
	}
}

// UnmarshalYAML accepts either a bare string (legacy textual form) or a
// single-key mapping such as {neq: [deployment.model, cloud]}. Malformed
// payloads decode to ExprInvalid rather than failing the catalog load.
func (e *Expression) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*e = Expression{Kind: ExprLegacy, Raw: raw}
		return nil
	}
	if value.Kind != yaml.MappingNode {
		*e = Expression{Kind: ExprInvalid}
		return nil
	}

	nodes := make(map[string]*yaml.Node, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		nodes[value.Content[i].Value] = value.Content[i+1]
	}

	for _, key := range exprKeys {
		node, ok := nodes[key]
		if !ok {
			continue
		}
		switch kind := kindForKey(key); kind {
		case ExprEq, ExprNeq, ExprHas:
			var pair []interface{}
			if err := node.Decode(&pair); err != nil {
				*e = Expression{Kind: ExprInvalid}
				return nil
			}
			*e = comparison(kind, pair)
		case ExprNot:
			var sub Expression
			if err := node.Decode(&sub); err != nil {
				*e = Expression{Kind: ExprInvalid}
				return nil
			}
			*e = Expression{Kind: ExprNot, Sub: &sub}
		case ExprAnd, ExprOr:
			var subs []*Expression
			if err := node.Decode(&subs); err != nil {
				*e = Expression{Kind: ExprInvalid}
				return nil
			}
			*e = Expression{Kind: kind, List: subs}
		}
		return nil
	}

	*e = Expression{Kind: ExprInvalid}
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON catalogs.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*e = Expression{Kind: ExprLegacy, Raw: raw}
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		*e = Expression{Kind: ExprInvalid}
		return nil
	}

	for _, key := range exprKeys {
		payload, ok := doc[key]
		if !ok {
			continue
		}
		switch kind := kindForKey(key); kind {
		case ExprEq, ExprNeq, ExprHas:
			var pair []interface{}
			if err := json.Unmarshal(payload, &pair); err != nil {
				*e = Expression{Kind: ExprInvalid}
				return nil
			}
			*e = comparison(kind, pair)
		case ExprNot:
			var sub Expression
			if err := json.Unmarshal(payload, &sub); err != nil {
				*e = Expression{Kind: ExprInvalid}
				return nil
			}
			*e = Expression{Kind: ExprNot, Sub: &sub}
		case ExprAnd, ExprOr:
			var subs []*Expression
			if err := json.Unmarshal(payload, &subs); err != nil {
				*e = Expression{Kind: ExprInvalid}
				return nil
			}
			*e = Expression{Kind: kind, List: subs}
		}
		return nil
	}

	*e = Expression{Kind: ExprInvalid}
	return nil
}

// comparison builds an eq/neq/has variant from its [field, literal]
// pair, degrading to ExprInvalid on the wrong arity or field type.
func comparison(kind ExprKind, pair []interface{}) Expression {
	if len(pair) != 2 {
		return Expression{Kind: ExprInvalid}
	}
	field, ok := pair[0].(string)
	if !ok || field == "" {
		return Expression{Kind: ExprInvalid}
	}
	return Expression{Kind: kind, Field: field, Literal: pair[1]}
}

// MarshalYAML writes the canonical form: a scalar for the legacy
// variant, a single-key mapping otherwise.
func (e Expression) MarshalYAML() (interface{}, error) {
	switch e.Kind {
	case ExprLegacy:
		return e.Raw, nil
	case ExprEq:
		return map[string][]interface{}{"eq": {e.Field, e.Literal}}, nil
	case ExprNeq:
		return map[string][]interface{}{"neq": {e.Field, e.Literal}}, nil
	case ExprHas:
		return map[string][]interface{}{"has": {e.Field, e.Literal}}, nil
	case ExprNot:
		return map[string]*Expression{"not": e.Sub}, nil
	case ExprAnd:
		return map[string][]*Expression{"and": e.List}, nil
	case ExprOr:
		return map[string][]*Expression{"or": e.List}, nil
	default:
		return nil, nil
	}
}
