package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/drawvg/vgs/expr"
	"github.com/drawvg/vgs/parser"
)

// RefKind indicates how a symbol is used at a particular site.
type RefKind int

const (
	RefDefinition RefKind = iota // proc/proc1/proc2 declaration, or first setvar/defrgba/defhsla
	RefCall                      // call/call1/call2
	RefUse                       // read inside a numeric expression
)

func (k RefKind) String() string {
	switch k {
	case RefDefinition:
		return "definition"
	case RefCall:
		return "call"
	case RefUse:
		return "use"
	default:
		return "unknown"
	}
}

// SymbolKind distinguishes procedures, numeric variables and color
// variables (the latter two share one variable table in VGS).
type SymbolKind int

const (
	SymbolProcedure SymbolKind = iota
	SymbolVariable
	SymbolColorVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolProcedure:
		return "procedure"
	case SymbolVariable:
		return "variable"
	case SymbolColorVariable:
		return "color variable"
	default:
		return "unknown"
	}
}

// Reference is a single site where a symbol is defined, called, or read.
type Reference struct {
	Kind RefKind
	Pos  parser.Position
}

// Symbol collects every reference to one procedure, variable, or color
// variable name across a program.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Definition *Reference
	References []*Reference
}

// XRefGenerator builds the symbol table for a parsed program: every
// procedure's definitions/calls, and every variable/color-variable's
// definition and the statements whose numeric expressions read it.
type XRefGenerator struct {
	program *parser.Program
	symbols map[string]*Symbol
}

// NewXRefGenerator returns an empty generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate parses src and returns its symbol table, keyed by name
// alone: a procedure and a variable with the same name share one
// Symbol, whose Kind is that of the first site seen.
func (x *XRefGenerator) Generate(src string) (map[string]*Symbol, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("tools: xref: %w", err)
	}
	x.program = prog
	x.symbols = make(map[string]*Symbol)

	x.walk(prog.Statements)
	return x.symbols, nil
}

func (x *XRefGenerator) symbolFor(name string, kind SymbolKind) *Symbol {
	sym, ok := x.symbols[name]
	if !ok {
		sym = &Symbol{Name: name, Kind: kind}
		x.symbols[name] = sym
	}
	return sym
}

func (x *XRefGenerator) walk(stmts []parser.Statement) {
	for _, st := range stmts {
		x.visitStatement(st)
		for _, arg := range st.Args {
			if arg.Kind == parser.ArgSubProgram && arg.SubProgram != nil {
				x.walk(arg.SubProgram.Statements)
			}
		}
	}
}

func (x *XRefGenerator) visitStatement(st parser.Statement) {
	switch st.Op {
	case parser.OpProc, parser.OpProc1, parser.OpProc2:
		name := nameAt(x.program.ProcNames, st.Args[0].ProcIndex)
		sym := x.symbolFor(name, SymbolProcedure)
		if sym.Definition == nil {
			sym.Definition = &Reference{Kind: RefDefinition, Pos: st.Pos}
		}
		for _, arg := range st.Args[1:] {
			if arg.Kind == parser.ArgVariableName {
				x.defineVar(nameAt(x.program.VarNames, arg.VarIndex), st.Pos)
			}
		}

	case parser.OpCall, parser.OpCall1, parser.OpCall2:
		name := nameAt(x.program.ProcNames, st.Args[0].ProcIndex)
		sym := x.symbolFor(name, SymbolProcedure)
		sym.References = append(sym.References, &Reference{Kind: RefCall, Pos: st.Pos})

	case parser.OpSetVar:
		x.defineVar(nameAt(x.program.VarNames, st.Args[0].VarIndex), st.Pos)

	case parser.OpGetMetadata:
		x.defineVar(nameAt(x.program.VarNames, st.Args[0].VarIndex), st.Pos)

	case parser.OpDefRGBA, parser.OpDefHSLA:
		name := nameAt(x.program.VarNames, st.Args[0].VarIndex)
		sym := x.symbolFor(name, SymbolColorVariable)
		if sym.Definition == nil {
			sym.Definition = &Reference{Kind: RefDefinition, Pos: st.Pos}
		}
	}

	for _, arg := range st.Args {
		if arg.Kind == parser.ArgNumeric && arg.Numeric != nil {
			x.recordExprUses(arg.Numeric, st.Pos)
		}
		// defrgba/defhsla's own target is an ArgColorVariable too, but it
		// is the definition recorded above, not a use.
		isDefTarget := st.Op == parser.OpDefRGBA || st.Op == parser.OpDefHSLA
		if arg.Kind == parser.ArgColorVariable && !isDefTarget {
			name := nameAt(x.program.VarNames, arg.VarIndex)
			sym := x.symbolFor(name, SymbolColorVariable)
			sym.References = append(sym.References, &Reference{Kind: RefUse, Pos: st.Pos})
		}
	}
}

func (x *XRefGenerator) defineVar(name string, pos parser.Position) {
	sym := x.symbolFor(name, SymbolVariable)
	if sym.Definition == nil {
		sym.Definition = &Reference{Kind: RefDefinition, Pos: pos}
	}
}

// recordExprUses finds every bound variable name the expression reads
// by tokenizing its rendered source (expr.Expr has no public API to
// walk its AST node-by-node outside its own package) and intersecting
// with the program's known variable names.
func (x *XRefGenerator) recordExprUses(e *expr.Expr, pos parser.Position) {
	for _, name := range identifiersIn(e.String()) {
		if !isKnownVarName(x.program.VarNames, name) {
			continue
		}
		sym := x.symbolFor(name, SymbolVariable)
		sym.References = append(sym.References, &Reference{Kind: RefUse, Pos: pos})
	}
}

func isKnownVarName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func identifiersIn(src string) []string {
	var out []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			out = append(out, src[start:end])
			start = -1
		}
	}
	for i, r := range src {
		isIdentChar := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || (r >= '0' && r <= '9' && start >= 0)
		if isIdentChar {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(src))
	return out
}

// XRefReport renders a generated symbol table as a human-readable text
// report, sorted by name within each symbol kind.
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport sorts symbols by kind then name.
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Name < sorted[j].Name
	})
	return &XRefReport{symbols: sorted}
}

func (r *XRefReport) String() string {
	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-24s [%s]\n", sym.Name, sym.Kind))
		if sym.Definition != nil {
			sb.WriteString(fmt.Sprintf("  Defined:    line %d\n", sym.Definition.Pos.Line))
		} else {
			sb.WriteString("  Defined:    (undefined)\n")
		}
		if len(sym.References) == 0 {
			sb.WriteString("  Referenced: (never)\n")
		} else {
			lines := make([]string, len(sym.References))
			for i, ref := range sym.References {
				lines[i] = fmt.Sprintf("%d(%s)", ref.Pos.Line, ref.Kind)
			}
			sb.WriteString(fmt.Sprintf("  Referenced: %s\n", strings.Join(lines, ", ")))
		}
		sb.WriteString("\n")
	}

	var total, defined, undefined, unused int
	for _, sym := range r.symbols {
		total++
		if sym.Definition != nil {
			defined++
		} else {
			undefined++
		}
		if len(sym.References) == 0 {
			unused++
		}
	}
	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total symbols: %d\n", total))
	sb.WriteString(fmt.Sprintf("Defined:       %d\n", defined))
	sb.WriteString(fmt.Sprintf("Undefined:     %d\n", undefined))
	sb.WriteString(fmt.Sprintf("Unused:        %d\n", unused))

	return sb.String()
}

// GenerateXRef is a convenience wrapper producing the text report for
// src in one call.
func GenerateXRef(src string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(src)
	if err != nil {
		return "", err
	}
	return NewXRefReport(symbols).String(), nil
}

// GetSymbols returns every symbol discovered by the last Generate call.
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetSymbol looks up a single symbol by name.
func (x *XRefGenerator) GetSymbol(name string) (*Symbol, bool) {
	sym, ok := x.symbols[name]
	return sym, ok
}

// GetUndefinedSymbols returns symbols that are referenced but never
// defined: a call to a procedure that has no proc/proc1/proc2, since
// VGS interns procedure names identically whether declaring or calling.
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition == nil && len(sym.References) > 0 {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetUnusedSymbols returns symbols that are defined but never read or
// called.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition != nil && len(sym.References) == 0 {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
