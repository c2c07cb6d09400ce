package expr_test

import (
	"math"
	"testing"

	"github.com/drawvg/vgs/expr"
)

type fakeCtx struct{}

func (fakeCtx) CallHost(name string, args []float64) float64 {
	switch name {
	case "getvar":
		return args[0] + 100
	case "pathlen":
		return 42
	case "randomg":
		return 0.5
	}
	return math.NaN()
}

func evalSrc(t *testing.T, src string, names []string, vars []float64) float64 {
	t.Helper()
	e, err := expr.Compile(src, names)
	if err != nil {
		t.Fatalf("compile(%q): %v", src, err)
	}
	return e.Eval(vars, fakeCtx{})
}

func TestArithmeticPrecedence(t *testing.T) {
	got := evalSrc(t, "1+2*3", nil, nil)
	if got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestParenOverridesPrecedence(t *testing.T) {
	got := evalSrc(t, "(1+2)*3", nil, nil)
	if got != 9 {
		t.Fatalf("expected 9, got %v", got)
	}
}

func TestVariableBinding(t *testing.T) {
	got := evalSrc(t, "n*2+t", []string{"n", "t"}, []float64{3, 1})
	if got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestUnknownIdentifierFails(t *testing.T) {
	_, err := expr.Compile("bogus", []string{"n"})
	if err == nil {
		t.Fatal("expected error for unknown identifier")
	}
}

func TestHostFunctions(t *testing.T) {
	got := evalSrc(t, "getvar(3)", nil, nil)
	if got != 103 {
		t.Fatalf("expected 103, got %v", got)
	}
	got = evalSrc(t, "pathlen(0)", nil, nil)
	if got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestUnaryMinus(t *testing.T) {
	got := evalSrc(t, "-3+5", nil, nil)
	if got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
}

func TestMathFuncs(t *testing.T) {
	got := evalSrc(t, "sqrt(16)", nil, nil)
	if got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
}

func TestExponentRightAssociative(t *testing.T) {
	// 2^3^2 == 2^(3^2) == 2^9 == 512, not (2^3)^2 == 64
	got := evalSrc(t, "2^3^2", nil, nil)
	if got != 512 {
		t.Fatalf("expected 512, got %v", got)
	}
}

func TestNonFinitePropagates(t *testing.T) {
	got := evalSrc(t, "1/0", nil, nil)
	if !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf, got %v", got)
	}
}
