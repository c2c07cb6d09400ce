package debugger

import "testing"

func TestEvaluateRecordsValueHistory(t *testing.T) {
	e := NewExpressionEvaluator()
	v, err := e.Evaluate("x + 1", []string{"x"}, []float64{41}, fakeHost{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v != 42 {
		t.Fatalf("value = %g, want 42", v)
	}
	if e.ValueCount() != 1 {
		t.Fatalf("ValueCount() = %d, want 1", e.ValueCount())
	}
}

func TestDollarReferenceReadsPriorValue(t *testing.T) {
	e := NewExpressionEvaluator()
	if _, err := e.Evaluate("10", nil, nil, fakeHost{}); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	v, err := e.Evaluate("$1 * 2", nil, nil, fakeHost{})
	if err != nil {
		t.Fatalf("Evaluate with $1: %v", err)
	}
	if v != 20 {
		t.Fatalf("value = %g, want 20", v)
	}
}

func TestGetValueOutOfRangeErrors(t *testing.T) {
	e := NewExpressionEvaluator()
	if _, err := e.GetValue(1); err == nil {
		t.Fatal("expected an error reading $1 with empty history")
	}
}

func TestEvaluateConditionDoesNotAffectHistory(t *testing.T) {
	e := NewExpressionEvaluator()
	ok, err := e.EvaluateCondition("x > 0", []string{"x"}, []float64{5}, fakeHost{})
	if err != nil {
		t.Fatalf("EvaluateCondition: %v", err)
	}
	if !ok {
		t.Fatal("expected x > 0 to be true for x=5")
	}
	if e.ValueCount() != 0 {
		t.Fatalf("ValueCount() = %d, want 0 (conditions should not record history)", e.ValueCount())
	}
}
