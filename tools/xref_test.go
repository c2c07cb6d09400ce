package tools

import (
	"strings"
	"testing"
)

func TestXRefTracksProcedureDefinitionAndCalls(t *testing.T) {
	src := `proc square {
  M 0 0 L 10 0 L 10 10 L 0 10 Z fill
}
call square
call square`

	gen := NewXRefGenerator()
	symbols, err := gen.Generate(src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	sym, ok := symbols["square"]
	if !ok {
		t.Fatal("expected a symbol for \"square\"")
	}
	if sym.Kind != SymbolProcedure {
		t.Errorf("Kind = %v, want SymbolProcedure", sym.Kind)
	}
	if sym.Definition == nil {
		t.Fatal("expected square to have a Definition")
	}
	if len(sym.References) != 2 {
		t.Errorf("References count = %d, want 2", len(sym.References))
	}
	for _, ref := range sym.References {
		if ref.Kind != RefCall {
			t.Errorf("reference kind = %v, want RefCall", ref.Kind)
		}
	}
}

func TestXRefFlagsCallToUndefinedProcedure(t *testing.T) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(`call ghost`)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := symbols["ghost"]; !ok {
		t.Fatal("expected a symbol for \"ghost\" even though it is never defined")
	}

	undefined := gen.GetUndefinedSymbols()
	if len(undefined) != 1 || undefined[0].Name != "ghost" {
		t.Fatalf("GetUndefinedSymbols() = %+v, want [ghost]", undefined)
	}
}

func TestXRefFlagsUnusedProcedureAsUnused(t *testing.T) {
	gen := NewXRefGenerator()
	if _, err := gen.Generate(`proc lonely {
  fill
}`); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	unused := gen.GetUnusedSymbols()
	if len(unused) != 1 || unused[0].Name != "lonely" {
		t.Fatalf("GetUnusedSymbols() = %+v, want [lonely]", unused)
	}
}

func TestXRefTracksVariableDefinitionAndExpressionUses(t *testing.T) {
	src := `setvar total 0
repeat 3 {
  setvar total (total + i)
}`
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	sym, ok := symbols["total"]
	if !ok {
		t.Fatal("expected a symbol for \"total\"")
	}
	if sym.Kind != SymbolVariable {
		t.Errorf("Kind = %v, want SymbolVariable", sym.Kind)
	}
	if sym.Definition == nil {
		t.Fatal("expected total to have a Definition from the first setvar")
	}

	foundUse := false
	for _, ref := range sym.References {
		if ref.Kind == RefUse {
			foundUse = true
		}
	}
	if !foundUse {
		t.Error("expected a RefUse reference from \"total + i\" inside the repeat body")
	}
}

func TestXRefTracksColorVariableDefinitionAndUse(t *testing.T) {
	src := `defrgba c1 1 0 0 1
setcolor c1`
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	sym, ok := symbols["c1"]
	if !ok {
		t.Fatal("expected a symbol for \"c1\"")
	}
	if sym.Kind != SymbolColorVariable {
		t.Errorf("Kind = %v, want SymbolColorVariable", sym.Kind)
	}
	if sym.Definition == nil {
		t.Fatal("expected c1 to have a Definition from defrgba")
	}
	if len(sym.References) != 1 || sym.References[0].Kind != RefUse {
		t.Fatalf("References = %+v, want one RefUse from setcolor c1", sym.References)
	}
}

func TestGenerateXRefProducesReadableReport(t *testing.T) {
	out, err := GenerateXRef(`proc square {
  M 0 0 L 10 0 L 10 10 L 0 10 Z fill
}
call square
setvar x 1`)
	if err != nil {
		t.Fatalf("GenerateXRef: %v", err)
	}
	for _, want := range []string{"square", "x", "Summary"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
