package parser

import "github.com/drawvg/vgs/expr"

// ArgKind tags which field of an Argument is populated.
type ArgKind int

const (
	ArgNumeric ArgKind = iota
	ArgVariableName
	ArgConstant
	ArgColor
	ArgColorVariable
	ArgIdentifier
	ArgProcedure
	ArgSubProgram
)

// Color is a straight (non-premultiplied) RGBA color, channels 0-255.
type Color struct {
	R, G, B, A uint8
}

// Argument is one parsed instruction parameter. It behaves like a
// tagged union: exactly the field matching Kind is meaningful.
type Argument struct {
	Kind ArgKind

	// ArgNumeric: a compiled numeric expression (a bare literal compiles
	// to a constant-folding expr.Expr just as well as a parenthesized one).
	Numeric *expr.Expr

	// ArgVariableName / ArgColorVariable: the resolved variable slot,
	// shared between the two kinds (spec.md section 3: a color variable
	// is a user variable holding a packed 0xRRGGBBAA numeric value).
	VarIndex int

	// ArgConstant: the literal keyword text (e.g. "round", "butt").
	Constant string

	// ArgColor: a literal color value.
	Color Color

	// ArgIdentifier: a bare word argument that is not a variable
	// reference (print's label, getmetadata's key).
	Identifier string

	// ArgProcedure: the interned index of a procedure name.
	ProcIndex int

	// ArgSubProgram: a brace-delimited nested statement block.
	SubProgram *Program
}

// Statement is one parsed instruction: an opcode plus its arguments,
// annotated with its source position for runtime error reporting.
type Statement struct {
	Op   Opcode
	Name string
	Args []Argument
	Pos  Position
}

// Program is the immutable result of a successful parse: an ordered
// list of top-level statements plus the table of procedure names
// interned while parsing. A Program is long-lived and safe to
// interpret many times (once per rendered frame); all per-frame
// mutable state lives in interp.State instead.
type Program struct {
	Statements []Statement
	ProcNames  []string
	VarNames   []string // fixed vars + user vars, slot-ordered; color variables too
}

// internProc returns the stable index for a procedure name, declaring
// it if this is the first time it has been referenced or defined.
func internProc(names *[]string, name string) int {
	for i, n := range *names {
		if n == name {
			return i
		}
	}
	*names = append(*names, name)
	return len(*names) - 1
}
