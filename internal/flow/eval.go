package flow

import (
	"strconv"
	"strings"

	"docsmith/internal/catalog"
)

// Evaluate resolves a skip condition against the current answers.
//
// Evaluation is total: a malformed or partially specified expression
// evaluates to false (question stays visible) instead of raising. The
// recover guard exists so a broken visibility rule can never take the
// whole questionnaire down with it.
func Evaluate(expr *catalog.Expression, answers AnswerMap) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()
	return eval(expr, answers)
}

func eval(expr *catalog.Expression, answers AnswerMap) bool {
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case catalog.ExprEq:
		v, ok := answers.Get(expr.Field)
		return ok && valueEquals(v, expr.Literal)
	case catalog.ExprNeq:
		v, ok := answers.Get(expr.Field)
		if !ok {
			return true
		}
		return !valueEquals(v, expr.Literal)
	case catalog.ExprHas:
		v, ok := answers.Get(expr.Field)
		if !ok {
			return false
		}
		list, ok := asList(v)
		if !ok {
			return false
		}
		for _, item := range list {
			if valueEquals(item, expr.Literal) {
				return true
			}
		}
		return false
	case catalog.ExprNot:
		if expr.Sub == nil {
			return false
		}
		return !eval(expr.Sub, answers)
	case catalog.ExprAnd:
		for _, sub := range expr.List {
			if !eval(sub, answers) {
				return false
			}
		}
		return true
	case catalog.ExprOr:
		for _, sub := range expr.List {
			if eval(sub, answers) {
				return true
			}
		}
		return false
	case catalog.ExprLegacy:
		return evalLegacy(expr.Raw, answers)
	default:
		return false
	}
}

// evalLegacy evaluates the textual infix form. Operator dispatch is a
// fixed priority scan: && first, then ||, then !=, then ==, then a
// bare field-path truthiness check. An expression mixing && and || is
// therefore resolved by whichever operator this order finds first; the
// ambiguity is long-standing catalog behavior and is kept as is, since
// changing it would silently flip existing conditions.
func evalLegacy(raw string, answers AnswerMap) bool {
	expr := strings.TrimSpace(raw)
	if expr == "" {
		return false
	}

	if strings.Contains(expr, "&&") {
		for _, part := range strings.Split(expr, "&&") {
			if !evalLegacy(part, answers) {
				return false
			}
		}
		return true
	}

	if strings.Contains(expr, "||") {
		for _, part := range strings.Split(expr, "||") {
			if evalLegacy(part, answers) {
				return true
			}
		}
		return false
	}

	if idx := strings.Index(expr, "!="); idx >= 0 {
		field := strings.TrimSpace(expr[:idx])
		literal := parseLiteral(expr[idx+2:])
		v, ok := answers.Get(field)
		if !ok {
			return true
		}
		return !valueEquals(v, literal)
	}

	if idx := strings.Index(expr, "=="); idx >= 0 {
		field := strings.TrimSpace(expr[:idx])
		literal := parseLiteral(expr[idx+2:])
		v, ok := answers.Get(field)
		return ok && valueEquals(v, literal)
	}

	v, ok := answers.Get(expr)
	return truthy(v, ok)
}

// parseLiteral turns a legacy operand token into a typed literal.
// Quotes denote strings, the bare words true/false/null their values,
// a fully numeric token a number, and anything else a string.
func parseLiteral(tok string) interface{} {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 2 {
		first, last := tok[0], tok[len(tok)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return tok[1 : len(tok)-1]
		}
	}
	switch tok {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return n
	}
	return tok
}

// EvaluateCondition is the legacy-compatibility entry point for callers
// holding a bare optional condition instead of a full Question. A nil
// condition never skips.
func EvaluateCondition(cond *catalog.Expression, answers AnswerMap) bool {
	if cond == nil {
		return false
	}
	return Evaluate(cond, answers)
}

// EvaluateConditionString evaluates a bare legacy condition string.
func EvaluateConditionString(raw string, answers AnswerMap) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	return Evaluate(catalog.Legacy(raw), answers)
}
