package parser

import (
	"sort"
	"testing"
)

func TestInstructionTableIsSorted(t *testing.T) {
	if !sort.SliceIsSorted(instructionTable, func(i, j int) bool {
		return instructionTable[i].Name < instructionTable[j].Name
	}) {
		t.Fatal("instructionTable must stay lexicographically sorted for binary search")
	}
}

func TestLookupInstructionFindsKnownNames(t *testing.T) {
	for _, name := range []string{"moveto", "M", "fill", "setlinecap", "call2"} {
		if _, ok := lookupInstruction(name); !ok {
			t.Fatalf("expected %q to be found", name)
		}
	}
}

func TestLookupInstructionIsCaseSensitive(t *testing.T) {
	if _, ok := lookupInstruction("MoveTo"); ok {
		t.Fatal("lookup must be case-sensitive")
	}
}

func TestLookupInstructionRejectsUnknown(t *testing.T) {
	if _, ok := lookupInstruction("blorp"); ok {
		t.Fatal("expected blorp to be unknown")
	}
}

func TestParseSimpleProgram(t *testing.T) {
	prog, err := Parse(`
		save
		setcolor red
		rect (0) (0) (w) (h)
		fill
		restore
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(prog.Statements))
	}
	if prog.Statements[0].Op != OpSave || prog.Statements[4].Op != OpRestore {
		t.Fatalf("unexpected ops: %+v", prog.Statements)
	}
}

func TestParseRepeatedMoveToExpandsIntoOneStatement(t *testing.T) {
	prog, err := Parse("M 0 0 10 10 20 20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	// 3 repetitions of a 2-arg grammar.
	if got := len(prog.Statements[0].Args); got != 6 {
		t.Fatalf("expected 6 args from 3 repetitions, got %d", got)
	}
}

func TestParseRejectsReservedVariableName(t *testing.T) {
	_, err := Parse("setvar w 3")
	if err == nil {
		t.Fatal("expected error assigning to reserved variable w")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrReservedVariableName {
		t.Fatalf("expected ErrReservedVariableName, got %v", err)
	}
}

func TestParseRejectsEleventhUserVariable(t *testing.T) {
	src := ""
	for i := 0; i < UserVarCount; i++ {
		src += "setvar v" + string(rune('a'+i)) + " 1\n"
	}
	src += "setvar overflow 1\n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected capacity error on the 11th user variable")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrTooManyUserVariables {
		t.Fatalf("expected ErrTooManyUserVariables, got %v", err)
	}
}

func TestDefrgbaSharesUserVariableBudgetWithSetvar(t *testing.T) {
	src := ""
	for i := 0; i < UserVarCount; i++ {
		src += "setvar v" + string(rune('a'+i)) + " 1\n"
	}
	src += "defrgba overflow 1 0 0 1\n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected capacity error: defrgba must share setvar's 10-slot budget, not a separate namespace")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrTooManyUserVariables {
		t.Fatalf("expected ErrTooManyUserVariables, got %v", err)
	}
}

func TestColorVariableResolvesToSameSlotAsNumericUse(t *testing.T) {
	prog, err := Parse("defrgba c 1 0 0 1 setvar x (getvar(0))")
	if err != nil {
		t.Fatal(err)
	}
	defIdx := prog.Statements[0].Args[0].VarIndex
	if defIdx != len(FixedVars) {
		t.Fatalf("defrgba should claim the first user-variable slot, got index %d", defIdx)
	}
}

func TestRGBAFunctionLiteralParses(t *testing.T) {
	prog, err := Parse("setcolor rgba(1,0,0,1)")
	if err != nil {
		t.Fatal(err)
	}
	arg := prog.Statements[0].Args[0]
	if arg.Kind != ArgColor {
		t.Fatalf("expected ArgColor, got %v", arg.Kind)
	}
	if arg.Color.R != 255 || arg.Color.G != 0 || arg.Color.B != 0 || arg.Color.A != 255 {
		t.Fatalf("rgba(1,0,0,1) = %+v, want opaque red", arg.Color)
	}
}

func TestParseUnmatchedBraceFails(t *testing.T) {
	_, err := Parse("proc foo { fill")
	if err == nil {
		t.Fatal("expected error for unmatched brace")
	}
}

func TestParseUnmatchedParenFails(t *testing.T) {
	_, err := Parse("rect (0 0 10 10")
	if err == nil {
		t.Fatal("expected error for unmatched paren")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrUnmatchedParen {
		t.Fatalf("expected ErrUnmatchedParen, got %v", err)
	}
}

func TestParseUnknownInstructionFails(t *testing.T) {
	_, err := Parse("frobnicate 1 2 3")
	if err == nil {
		t.Fatal("expected error for unknown instruction")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrUnknownInstruction {
		t.Fatalf("expected ErrUnknownInstruction, got %v", err)
	}
}

func TestParseColorVariable(t *testing.T) {
	prog, err := Parse(`
		defrgba brandColor (1) (0) (0) (1)
		setcolor brandColor
		setcolor #00ff00
		setcolor blue
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(prog.Statements))
	}
	setColorArg := prog.Statements[1].Args[0]
	if setColorArg.Kind != ArgColorVariable {
		t.Fatalf("expected color-variable reference, got %+v", setColorArg)
	}
	hexArg := prog.Statements[2].Args[0]
	if hexArg.Kind != ArgColor || hexArg.Color != (Color{0, 255, 0, 255}) {
		t.Fatalf("unexpected hex color: %+v", hexArg)
	}
}

func TestParseNestedProcedureWithParams(t *testing.T) {
	prog, err := Parse(`
		proc2 square x y {
			rect (x) (y) (10) (10)
			fill
		}
		call square (1) (2)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.ProcNames) != 1 || prog.ProcNames[0] != "square" {
		t.Fatalf("unexpected proc table: %+v", prog.ProcNames)
	}
	if prog.Statements[0].Op != OpProc2 {
		t.Fatalf("expected proc2, got %v", prog.Statements[0].Op)
	}
	sub := prog.Statements[0].Args[3].SubProgram
	if sub == nil || len(sub.Statements) != 2 {
		t.Fatalf("expected 2 statements inside proc body, got %+v", sub)
	}
}

func TestParseIfAndRepeatBlocks(t *testing.T) {
	prog, err := Parse(`
		repeat (3) {
			if (i) {
				break
			}
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Statements[0].Op != OpRepeat {
		t.Fatalf("expected repeat, got %v", prog.Statements[0].Op)
	}
}

func TestParseVariadicCallAndPrint(t *testing.T) {
	prog, err := Parse(`
		proc greet { fill }
		call greet (1) (2) (3)
		print label (1) (2)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	callArgs := prog.Statements[1].Args
	if len(callArgs) != 4 {
		t.Fatalf("expected proc arg + 3 variadic numerics, got %d", len(callArgs))
	}
	printArgs := prog.Statements[2].Args
	if len(printArgs) != 3 {
		t.Fatalf("expected label + 2 variadic numerics, got %d", len(printArgs))
	}
}
