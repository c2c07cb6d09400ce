// Package tools provides source-level utilities over a parsed VGS
// program: a canonical printer, a lint pass, and a procedure
// call-graph/cross-reference report.
package tools

import (
	"fmt"
	"strings"

	"github.com/drawvg/vgs/parser"
)

// FormatStyle selects how much whitespace the printer adds.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // one space between tokens, indented blocks
	FormatCompact                     // minimal whitespace, blocks on one line where possible
	FormatExpanded                    // blank line between top-level statements
)

// FormatOptions controls Formatter behavior.
type FormatOptions struct {
	Style     FormatStyle
	IndentStr string // per-nesting-level indent, used by FormatDefault/FormatExpanded
}

// DefaultFormatOptions returns the canonical, two-space-indented style.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatDefault, IndentStr: "  "}
}

// CompactFormatOptions returns options that print each block inline.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatCompact}
}

// ExpandedFormatOptions returns the default style plus a blank line
// between every top-level statement.
func ExpandedFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatExpanded, IndentStr: "  "}
}

// Formatter prints a parsed Program back to canonical VGS source.
type Formatter struct {
	options *FormatOptions
	program *parser.Program
	output  strings.Builder
}

// NewFormatter builds a Formatter with options, or DefaultFormatOptions
// if options is nil.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format parses src and prints it back to canonical VGS source. The
// result always re-parses to a Program with identical semantics (the
// parse-print-parse property), though exact token spacing may differ
// from the input.
func (f *Formatter) Format(src string) (string, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return "", fmt.Errorf("tools: format: %w", err)
	}
	f.program = prog
	f.output.Reset()
	f.formatStatements(prog.Statements, 0)
	return f.output.String(), nil
}

func (f *Formatter) formatStatements(stmts []parser.Statement, depth int) {
	for i, st := range stmts {
		if f.options.Style == FormatExpanded && depth == 0 && i > 0 {
			f.output.WriteString("\n")
		}
		f.writeIndent(depth)
		f.formatStatement(st, depth)
		f.output.WriteString("\n")
	}
}

func (f *Formatter) writeIndent(depth int) {
	if f.options.Style == FormatCompact {
		return
	}
	f.output.WriteString(strings.Repeat(f.options.IndentStr, depth))
}

func (f *Formatter) formatStatement(st parser.Statement, depth int) {
	f.output.WriteString(st.Name)
	for _, arg := range st.Args {
		if arg.Kind == parser.ArgSubProgram {
			f.output.WriteString(" {")
			if arg.SubProgram != nil && len(arg.SubProgram.Statements) > 0 {
				if f.options.Style == FormatCompact {
					f.formatCompactBlock(arg.SubProgram.Statements)
				} else {
					f.output.WriteString("\n")
					f.formatStatements(arg.SubProgram.Statements, depth+1)
					f.writeIndent(depth)
				}
			}
			f.output.WriteString("}")
			continue
		}
		f.output.WriteString(" ")
		f.output.WriteString(f.formatArgument(arg))
	}
}

func (f *Formatter) formatCompactBlock(stmts []parser.Statement) {
	for i, st := range stmts {
		if i > 0 {
			f.output.WriteString(" ")
		}
		f.formatStatement(st, 0)
	}
}

func (f *Formatter) formatArgument(arg parser.Argument) string {
	switch arg.Kind {
	case parser.ArgNumeric:
		s := arg.Numeric.String()
		if strings.Contains(s, "(") && !strings.HasPrefix(s, "(") {
			// a function call or negated group would otherwise lex as a
			// word or sign followed by a separate (expression) token
			return "(" + s + ")"
		}
		return s
	case parser.ArgVariableName:
		return nameAt(f.program.VarNames, arg.VarIndex)
	case parser.ArgColorVariable:
		return nameAt(f.program.VarNames, arg.VarIndex)
	case parser.ArgConstant:
		return arg.Constant
	case parser.ArgColor:
		return formatColor(arg.Color)
	case parser.ArgIdentifier:
		return arg.Identifier
	case parser.ArgProcedure:
		return nameAt(f.program.ProcNames, arg.ProcIndex)
	default:
		return ""
	}
}

func nameAt(names []string, idx int) string {
	if idx < 0 || idx >= len(names) {
		return "?"
	}
	return names[idx]
}

func formatColor(c parser.Color) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// FormatString formats src with the default style.
func FormatString(src string) (string, error) {
	return NewFormatter(DefaultFormatOptions()).Format(src)
}

// FormatStringWithStyle formats src with the given style.
func FormatStringWithStyle(src string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(src)
}
