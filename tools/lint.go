package tools

import (
	"fmt"

	"github.com/drawvg/vgs/parser"
)

// LintLevel is the severity of a LintIssue.
type LintLevel int

const (
	LintError   LintLevel = iota // parse failure
	LintWarning                  // a real defect the program will still run with
	LintInfo                     // a style suggestion
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is one finding, anchored at the statement that triggered it.
type LintIssue struct {
	Level   LintLevel
	Pos     parser.Position
	Message string
	Code    string // e.g. "UNREACHABLE_CODE", "UNUSED_PROC", "COLORSTOP_NO_PATTERN"
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", i.Pos, i.Level, i.Message, i.Code)
}

// LintOptions selects which checks Lint runs.
type LintOptions struct {
	CheckUnreachable bool
	CheckUnusedProc  bool
	CheckColorstop   bool
}

// DefaultLintOptions enables every check.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{CheckUnreachable: true, CheckUnusedProc: true, CheckColorstop: true}
}

// Linter analyzes a parsed Program for defects that parse successfully
// but indicate a programming mistake.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue
	program *parser.Program
}

// NewLinter builds a Linter with options, or DefaultLintOptions if nil.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{options: options}
}

// Lint parses src and returns every issue found; a parse failure is
// reported as a single LintError with no further checks run.
func (l *Linter) Lint(src string) []*LintIssue {
	l.issues = nil
	prog, err := parser.Parse(src)
	if err != nil {
		pos := parser.Position{Line: 1, Column: 1}
		if perr, ok := err.(*parser.Error); ok {
			pos = perr.Pos
		}
		l.issues = append(l.issues, &LintIssue{
			Level: LintError, Pos: pos, Message: err.Error(), Code: "PARSE_ERROR",
		})
		return l.issues
	}
	l.program = prog

	if l.options.CheckUnreachable {
		l.checkUnreachable(prog.Statements)
	}
	if l.options.CheckUnusedProc {
		l.checkUnusedProcs(prog)
	}
	if l.options.CheckColorstop {
		pending := false
		l.checkColorstops(prog.Statements, &pending)
	}

	return l.issues
}

// checkUnreachable flags any statement following a break within the
// same statement list: execList returns as soon as OpBreak executes,
// so later siblings in that list never run.
func (l *Linter) checkUnreachable(stmts []parser.Statement) {
	seenBreak := false
	for _, st := range stmts {
		if seenBreak {
			l.issues = append(l.issues, &LintIssue{
				Level: LintWarning, Pos: st.Pos,
				Message: fmt.Sprintf("statement %q is unreachable after a break", st.Name),
				Code:    "UNREACHABLE_CODE",
			})
		}
		if st.Op == parser.OpBreak {
			seenBreak = true
		}
		for _, arg := range st.Args {
			if arg.Kind == parser.ArgSubProgram && arg.SubProgram != nil {
				l.checkUnreachable(arg.SubProgram.Statements)
			}
		}
	}
}

// checkUnusedProcs flags every top-level proc/proc1/proc2 declaration
// whose index is never referenced by a call/call1/call2 anywhere in the
// program. Declarations nested inside a block are not checked.
func (l *Linter) checkUnusedProcs(prog *parser.Program) {
	called := make(map[int]bool)
	markCalls(prog.Statements, called)

	for _, st := range prog.Statements {
		if st.Op != parser.OpProc && st.Op != parser.OpProc1 && st.Op != parser.OpProc2 {
			continue
		}
		idx := st.Args[0].ProcIndex
		if called[idx] {
			continue
		}
		name := nameAt(prog.ProcNames, idx)
		l.issues = append(l.issues, &LintIssue{
			Level: LintWarning, Pos: st.Pos,
			Message: fmt.Sprintf("procedure %q is never called", name),
			Code:    "UNUSED_PROC",
		})
	}
}

func markCalls(stmts []parser.Statement, called map[int]bool) {
	for _, st := range stmts {
		switch st.Op {
		case parser.OpCall, parser.OpCall1, parser.OpCall2:
			called[st.Args[0].ProcIndex] = true
		}
		for _, arg := range st.Args {
			if arg.Kind == parser.ArgSubProgram && arg.SubProgram != nil {
				markCalls(arg.SubProgram.Statements, called)
			}
		}
	}
}

// checkColorstops walks statements in execution order tracking whether
// a gradient is pending (set by lineargrad/radialgrad, cleared by
// anything that sets or consumes the current paint — mirroring
// interp.Interpreter's State.Pending resets), flagging any colorstop
// issued with no gradient pending: interp silently drops it at
// runtime, which is exactly the kind of mistake static linting should
// catch before a frame renders wrong.
func (l *Linter) checkColorstops(stmts []parser.Statement, pending *bool) {
	for _, st := range stmts {
		switch st.Op {
		case parser.OpLinearGrad, parser.OpRadialGrad:
			*pending = true
		case parser.OpColorStop:
			if !*pending {
				l.issues = append(l.issues, &LintIssue{
					Level: LintWarning, Pos: st.Pos,
					Message: "colorstop with no preceding lineargrad/radialgrad; interp ignores it at runtime",
					Code:    "COLORSTOP_NO_PATTERN",
				})
			}
		case parser.OpSetColor, parser.OpSetRGBA, parser.OpSetHSLA, parser.OpFill, parser.OpEOFill, parser.OpStroke,
			parser.OpSave, parser.OpRestore:
			*pending = false
		}
		for _, arg := range st.Args {
			if arg.Kind == parser.ArgSubProgram && arg.SubProgram != nil {
				l.checkColorstops(arg.SubProgram.Statements, pending)
			}
		}
	}
}

// LintString is a convenience wrapper running every default check.
func LintString(src string) []*LintIssue {
	return NewLinter(DefaultLintOptions()).Lint(src)
}
