package flow

import (
	"testing"

	"docsmith/internal/catalog"
)

func answersFixture() []AnswerMap {
	return []AnswerMap{
		{},
		{"deployment.model": "cloud"},
		{"deployment.model": "on-premise", "privacy.pii": true},
		{"security.data_types": []interface{}{"PII", "payment"}, "scale.users": 250000},
		{"privacy.pii": false, "operations.sla": "99.99"},
	}
}

func TestEvaluate_NotInvertsStructured(t *testing.T) {
	exprs := []*catalog.Expression{
		catalog.Eq("deployment.model", "cloud"),
		catalog.Neq("deployment.model", "cloud"),
		catalog.Has("security.data_types", "PII"),
		catalog.And(catalog.Eq("privacy.pii", true), catalog.Neq("deployment.model", "cloud")),
		catalog.Or(catalog.Eq("privacy.pii", true), catalog.Has("security.data_types", "payment")),
	}
	for _, answers := range answersFixture() {
		for _, e := range exprs {
			if got, want := Evaluate(catalog.Not(e), answers), !Evaluate(e, answers); got != want {
				t.Fatalf("not(%+v) over %v = %v, want %v", e, answers, got, want)
			}
		}
	}
}

func TestEvaluate_ConjunctionDisjunction(t *testing.T) {
	answers := AnswerMap{"a": true, "b": false}

	if !Evaluate(catalog.And(), answers) {
		t.Fatal("empty conjunction must be true")
	}
	if Evaluate(catalog.Or(), answers) {
		t.Fatal("empty disjunction must be false")
	}

	subs := []*catalog.Expression{
		catalog.Eq("a", true),
		catalog.Eq("b", false),
		catalog.Eq("a", false),
	}
	wantAnd := true
	wantOr := false
	for _, s := range subs {
		v := Evaluate(s, answers)
		wantAnd = wantAnd && v
		wantOr = wantOr || v
	}
	if got := Evaluate(catalog.And(subs...), answers); got != wantAnd {
		t.Fatalf("and = %v, want %v", got, wantAnd)
	}
	if got := Evaluate(catalog.Or(subs...), answers); got != wantOr {
		t.Fatalf("or = %v, want %v", got, wantOr)
	}
}

func TestEvaluate_MembershipShapes(t *testing.T) {
	cases := []struct {
		name    string
		answers AnswerMap
		want    bool
	}{
		{"absent field", AnswerMap{}, false},
		{"scalar value", AnswerMap{"types": "PII"}, false},
		{"number value", AnswerMap{"types": 3}, false},
		{"list hit", AnswerMap{"types": []interface{}{"PII", "payment"}}, true},
		{"list miss", AnswerMap{"types": []interface{}{"payment"}}, false},
		{"string slice hit", AnswerMap{"types": []string{"PII"}}, true},
		{"empty list", AnswerMap{"types": []interface{}{}}, false},
	}
	for _, tc := range cases {
		if got := Evaluate(catalog.Has("types", "PII"), tc.answers); got != tc.want {
			t.Fatalf("%s: has = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluate_StrictEquality(t *testing.T) {
	answers := AnswerMap{
		"flag":  true,
		"count": 5,
		"name":  "api",
	}

	// Absent is distinct from every literal, including false.
	if Evaluate(catalog.Eq("missing", false), answers) {
		t.Fatal("equals(absent, false) must be false")
	}
	if !Evaluate(catalog.Neq("missing", false), answers) {
		t.Fatal("neq(absent, false) must be true")
	}

	// Types must match.
	if Evaluate(catalog.Eq("flag", "true"), answers) {
		t.Fatal("bool must not equal string")
	}
	if Evaluate(catalog.Eq("count", "5"), answers) {
		t.Fatal("number must not equal string")
	}
	if Evaluate(catalog.Eq("name", true), answers) {
		t.Fatal("string must not equal bool")
	}

	// Numbers compare numerically across int/float shapes.
	if !Evaluate(catalog.Eq("count", 5.0), answers) {
		t.Fatal("int answer must equal float literal of same value")
	}
}

func TestEvaluate_LegacyStructuredEquivalence(t *testing.T) {
	pairs := []struct {
		structured *catalog.Expression
		legacy     string
	}{
		{catalog.Eq("deployment.model", "cloud"), "deployment.model == 'cloud'"},
		{catalog.Neq("deployment.model", "cloud"), "deployment.model != 'cloud'"},
		{catalog.Eq("privacy.pii", true), "privacy.pii == true"},
		{catalog.Eq("scale.users", 250000.0), "scale.users == 250000"},
		{
			catalog.And(catalog.Eq("privacy.pii", true), catalog.Neq("deployment.model", "cloud")),
			"privacy.pii == true && deployment.model != 'cloud'",
		},
		{
			catalog.Or(catalog.Eq("deployment.model", "cloud"), catalog.Eq("deployment.model", "hybrid")),
			"deployment.model == 'cloud' || deployment.model == 'hybrid'",
		},
	}
	for _, answers := range answersFixture() {
		for _, p := range pairs {
			s := Evaluate(p.structured, answers)
			l := Evaluate(catalog.Legacy(p.legacy), answers)
			if s != l {
				t.Fatalf("%q over %v: structured=%v legacy=%v", p.legacy, answers, s, l)
			}
		}
	}
}

// The legacy scanner checks && before ||, so a mixed expression is
// grouped around the && split, not by conventional precedence. This
// pins the long-standing behavior; it is intentionally not "fixed".
func TestEvaluate_LegacyMixedOperatorPriority(t *testing.T) {
	answers := AnswerMap{"a": "1"}
	// Read as (a == '1' || b == '1') && c == '1', never a || (b && c).
	expr := "a == '1' || b == '1' && c == '1'"
	if Evaluate(catalog.Legacy(expr), answers) {
		t.Fatalf("mixed operators: expected && to bind the outer split")
	}
	answers["c"] = "1"
	if !Evaluate(catalog.Legacy(expr), answers) {
		t.Fatalf("mixed operators: both && sides hold, expected true")
	}
}

func TestEvaluate_LegacyLiteralParsing(t *testing.T) {
	answers := AnswerMap{
		"quoted":  "on-premise",
		"double":  "cloud",
		"flag":    false,
		"count":   3,
		"name":    "edge",
		"nothing": nil,
	}
	cases := []struct {
		expr string
		want bool
	}{
		{"quoted == 'on-premise'", true},
		{`double == "cloud"`, true},
		{"flag == false", true},
		{"flag == true", false},
		{"count == 3", true},
		{"count == 4", false},
		{"name == edge", true}, // unquoted token falls back to string
		{"nothing == null", true},
		{"missing == null", false},
	}
	for _, tc := range cases {
		if got := Evaluate(catalog.Legacy(tc.expr), answers); got != tc.want {
			t.Fatalf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluate_LegacyTruthiness(t *testing.T) {
	answers := AnswerMap{
		"yes":        true,
		"no":         false,
		"name":       "api",
		"blank":      "  ",
		"zero":       0,
		"some":       2.5,
		"empty_list": []interface{}{},
		"full_list":  []interface{}{"x"},
	}
	cases := []struct {
		expr string
		want bool
	}{
		{"yes", true},
		{"no", false},
		{"name", true},
		{"blank", false},
		{"zero", false},
		{"some", true},
		{"empty_list", false},
		{"full_list", true},
		{"missing", false},
	}
	for _, tc := range cases {
		if got := Evaluate(catalog.Legacy(tc.expr), answers); got != tc.want {
			t.Fatalf("truthy %q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluate_MalformedFailsOpen(t *testing.T) {
	answers := AnswerMap{"a": true}

	if Evaluate(nil, answers) {
		t.Fatal("nil expression must evaluate false")
	}
	if Evaluate(&catalog.Expression{}, answers) {
		t.Fatal("invalid variant must evaluate false")
	}
	if Evaluate(&catalog.Expression{Kind: catalog.ExprNot}, answers) {
		t.Fatal("not without operand must evaluate false")
	}
	if Evaluate(&catalog.Expression{Kind: catalog.ExprKind(99)}, answers) {
		t.Fatal("unknown kind must evaluate false")
	}
	if Evaluate(catalog.Legacy(""), answers) {
		t.Fatal("empty legacy expression must evaluate false")
	}
}

func TestEvaluateCondition_LegacyWrappers(t *testing.T) {
	answers := AnswerMap{"deployment.model": "cloud"}

	if EvaluateCondition(nil, answers) {
		t.Fatal("nil condition never skips")
	}
	if !EvaluateCondition(catalog.Eq("deployment.model", "cloud"), answers) {
		t.Fatal("structured condition through wrapper")
	}
	if !EvaluateConditionString("deployment.model == 'cloud'", answers) {
		t.Fatal("string condition through wrapper")
	}
	if EvaluateConditionString("   ", answers) {
		t.Fatal("blank string condition never skips")
	}
}
