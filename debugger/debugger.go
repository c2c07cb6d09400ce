// Package debugger implements a statement-level step debugger over an
// interp.Interpreter: one step is one parser.Statement, breakpoints and
// watchpoints are checked via interp.Interpreter.SetStepHook instead of
// a PC address, and StepOver/StepOut use the interpreter's reported
// statement path depth as a call-stack proxy.
package debugger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/drawvg/vgs/backend"
	"github.com/drawvg/vgs/interp"
	"github.com/drawvg/vgs/loader"
	"github.com/drawvg/vgs/parser"
)

// StepMode selects what Continue should stop on next, beyond
// breakpoints and watchpoints which always apply.
type StepMode int

const (
	StepNone   StepMode = iota // run to completion, a breakpoint, or a watchpoint
	StepSingle                 // stop before the very next statement
	StepOver                   // stop once back at the current path depth or shallower
	StepOut                    // stop once shallower than the current path depth
)

// pauseInfo is what the run goroutine reports when it stops mid-frame.
type pauseInfo struct {
	Path   []int
	Stmt   parser.Statement
	Reason string
}

// Debugger drives one interp.Interpreter one statement at a time.
type Debugger struct {
	mu      sync.Mutex
	source  *loader.Source
	interp  *interp.Interpreter
	surface backend.Surface
	params  interp.FrameParams

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory
	Evaluator   *ExpressionEvaluator

	Running     bool
	StepMode    StepMode
	stepDepth   int // path depth captured when StepOver/StepOut was issued
	LastCommand string

	Output strings.Builder

	resume chan struct{}
	paused chan pauseInfo
	done   chan error
}

// New builds a Debugger for source, ready to run frame-by-frame
// against surface using params.
func New(source *loader.Source, surface backend.Surface, params interp.FrameParams) *Debugger {
	return &Debugger{
		source:      source,
		interp:      interp.New(source.Program, source.Metadata),
		surface:     surface,
		params:      params,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Evaluator:   NewExpressionEvaluator(),
	}
}

// VarNames exposes the compiled program's slot-ordered variable names,
// for use building watch/print expressions.
func (d *Debugger) VarNames() []string {
	return d.source.Program.VarNames
}

// StartFrame begins interpreting one frame in the background, pausing
// before the first statement. Call Continue/Step/StepOver/StepOut to
// advance, and Wait (or another call) to observe where it stops.
func (d *Debugger) StartFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resume = make(chan struct{})
	d.paused = make(chan pauseInfo)
	d.done = make(chan error, 1)
	d.Running = true
	d.StepMode = StepSingle

	d.interp.SetStepHook(d.stepHook)

	go func() {
		err := d.interp.RunFrame(d.surface, d.params)
		d.done <- err
	}()
}

// stepHook runs on the interpreter's goroutine before every statement.
func (d *Debugger) stepHook(path []int, st parser.Statement) error {
	if should, reason := d.shouldPause(path); should {
		d.paused <- pauseInfo{Path: append([]int(nil), path...), Stmt: st, Reason: reason}
		<-d.resume
	}
	return nil
}

func (d *Debugger) shouldPause(path []int) (bool, string) {
	switch d.StepMode {
	case StepSingle:
		return true, "step"
	case StepOver:
		if len(path) <= d.stepDepth {
			return true, "step over"
		}
	case StepOut:
		if len(path) < d.stepDepth {
			return true, "step out"
		}
	}

	if bp := d.Breakpoints.ProcessHit(path); bp != nil {
		if bp.Condition != "" {
			ok, err := d.Evaluator.EvaluateCondition(bp.Condition, d.VarNames(), d.interp.Vars(), d.interp)
			if err != nil || !ok {
				return false, ""
			}
		}
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.interp.Vars(), d.interp); changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// Wait blocks until the current frame either pauses again or finishes,
// returning the pause info (Stmt.Op will be zero-valued and err may be
// non-nil if the frame finished instead of pausing).
func (d *Debugger) Wait() (pauseInfo, error, bool) {
	select {
	case info := <-d.paused:
		return info, nil, true
	case err := <-d.done:
		d.mu.Lock()
		d.Running = false
		d.mu.Unlock()
		return pauseInfo{}, err, false
	}
}

// Continue resumes execution until the next breakpoint, watchpoint, or
// frame completion.
func (d *Debugger) Continue() (pauseInfo, error, bool) {
	d.mu.Lock()
	d.StepMode = StepNone
	d.mu.Unlock()
	d.resume <- struct{}{}
	return d.Wait()
}

// Step executes exactly one statement and pauses again.
func (d *Debugger) Step() (pauseInfo, error, bool) {
	d.mu.Lock()
	d.StepMode = StepSingle
	d.mu.Unlock()
	d.resume <- struct{}{}
	return d.Wait()
}

// StepOver runs until execution returns to the current nesting depth
// or shallower, skipping over nested proc calls / loop bodies.
func (d *Debugger) StepOver(currentPath []int) (pauseInfo, error, bool) {
	d.mu.Lock()
	d.StepMode = StepOver
	d.stepDepth = len(currentPath)
	d.mu.Unlock()
	d.resume <- struct{}{}
	return d.Wait()
}

// StepOut runs until execution returns shallower than currentPath's
// nesting depth.
func (d *Debugger) StepOut(currentPath []int) (pauseInfo, error, bool) {
	d.mu.Lock()
	d.StepMode = StepOut
	d.stepDepth = len(currentPath)
	d.mu.Unlock()
	d.resume <- struct{}{}
	return d.Wait()
}

// Vars returns the live frame's numeric variable slots. Only valid
// between StartFrame and the frame finishing.
func (d *Debugger) Vars() []float64 {
	return d.interp.Vars()
}

// Printf appends formatted text to the debugger's output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

// GetOutput returns and clears the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}
