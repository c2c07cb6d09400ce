package interp

import (
	"fmt"
	"math"

	"github.com/drawvg/vgs/backend"
	"github.com/drawvg/vgs/colorutil"
	"github.com/drawvg/vgs/curveutil"
	"github.com/drawvg/vgs/parser"
)

// maxPrintBuffer bounds the interpreter's in-memory print history, the
// same fixed-capacity-ring-buffer approach the original AVFilter's
// print callback used instead of growing without bound.
const maxPrintBuffer = 256

// Interpreter walks a compiled parser.Program's statement tree once
// per rendered frame against a fresh State, issuing drawing calls on a
// backend.Surface. A single Interpreter instance is reused across
// frames; RunFrame resets all per-frame state itself.
type Interpreter struct {
	prog     *parser.Program
	procDefs map[int]parser.Statement
	metadata map[string]float64

	surface backend.Surface
	state   *State

	PrintBuffer []string

	// path is the statement-path stack of the statement currently being
	// executed: one index per nesting level (top-level index, then an
	// index into whichever sub-program branch was entered, and so on
	// through nested if/repeat/proc bodies). Exposed to stepHook so a
	// debugger can implement breakpoints keyed by path instead of a PC.
	path []int

	// stepHook, if set, runs before every statement executes. Returning
	// a non-nil error aborts interpretation immediately with that error
	// (RunFrame returns it unchanged) — the debugger package uses this
	// to pause execution once a breakpoint or step target is reached.
	// The path slice passed to hook is reused across calls; copy it if
	// you need to retain it past the call.
	stepHook func(path []int, st parser.Statement) error
}

// SetStepHook installs hook to run before each statement, or clears it
// when hook is nil. Must be called before RunFrame.
func (ip *Interpreter) SetStepHook(hook func(path []int, st parser.Statement) error) {
	ip.stepHook = hook
}

// Vars returns the current frame's numeric variable slots. Only valid
// while RunFrame is executing (e.g. from within a step hook); returns
// nil before the first RunFrame call.
func (ip *Interpreter) Vars() []float64 {
	if ip.state == nil {
		return nil
	}
	return ip.state.Vars
}

// New builds an Interpreter for prog, pre-indexing its procedure
// definitions (proc/proc1/proc2 statements, found anywhere in the
// tree) by the ProcIndex call sites reference.
func New(prog *parser.Program, metadata map[string]float64) *Interpreter {
	ip := &Interpreter{
		prog:     prog,
		procDefs: map[int]parser.Statement{},
		metadata: metadata,
	}
	ip.indexProcs(prog.Statements)
	return ip
}

func (ip *Interpreter) indexProcs(stmts []parser.Statement) {
	for _, st := range stmts {
		switch st.Op {
		case parser.OpProc, parser.OpProc1, parser.OpProc2:
			procArg := st.Args[0]
			ip.procDefs[procArg.ProcIndex] = st
		}
		for _, a := range st.Args {
			if a.Kind == parser.ArgSubProgram && a.SubProgram != nil {
				ip.indexProcs(a.SubProgram.Statements)
			}
		}
	}
}

// RunFrame interprets the whole program once against params, drawing
// onto surface. The only error it returns is one from the step hook
// aborting execution; a call to an undefined procedure is logged and
// skipped.
func (ip *Interpreter) RunFrame(surface backend.Surface, params FrameParams) error {
	ip.surface = surface
	ip.state = NewState(len(ip.prog.VarNames), params)

	ip.state.Vars[parser.VarIndexN] = params.N
	ip.state.Vars[parser.VarIndexT] = params.T
	ip.state.Vars[parser.VarIndexW] = params.W
	ip.state.Vars[parser.VarIndexH] = params.H
	ip.state.Vars[parser.VarIndexDuration] = params.Duration
	ip.state.Vars[parser.VarIndexCX] = math.NaN()
	ip.state.Vars[parser.VarIndexCY] = math.NaN()
	ip.state.Vars[parser.VarIndexI] = 0

	_, err := ip.execList(ip.prog.Statements)
	return err
}

// RuntimeError reports a failure encountered while interpreting a
// specific statement, carrying its source position for diagnostics.
type RuntimeError struct {
	Pos     parser.Position
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (ip *Interpreter) execList(stmts []parser.Statement) (broke bool, err error) {
	ip.path = append(ip.path, 0)
	depth := len(ip.path) - 1
	defer func() { ip.path = ip.path[:depth] }()

	for i, st := range stmts {
		ip.path[depth] = i
		if ip.stepHook != nil {
			if hookErr := ip.stepHook(ip.path, st); hookErr != nil {
				return false, hookErr
			}
		}
		broke, err = ip.execStatement(st)
		if err != nil || broke {
			return broke, err
		}
	}
	return false, nil
}

func (ip *Interpreter) evalN(arg parser.Argument) float64 {
	return arg.Numeric.Eval(ip.state.Vars, ip)
}

func (ip *Interpreter) evalColor(arg parser.Argument) colorutil.RGBA {
	switch arg.Kind {
	case parser.ArgColor:
		return colorutil.RGBA{R: arg.Color.R, G: arg.Color.G, B: arg.Color.B, A: arg.Color.A}
	case parser.ArgColorVariable:
		if arg.VarIndex >= 0 && arg.VarIndex < len(ip.state.Vars) {
			return colorutil.Unpack(ip.state.Vars[arg.VarIndex])
		}
	}
	return colorutil.RGBA{A: 255}
}

// execStatement runs one statement, returning broke=true only when a
// `break` was reached (propagated up to the nearest enclosing
// repeat/if, but never out of a procedure call).
func (ip *Interpreter) execStatement(st parser.Statement) (bool, error) {
	s := ip.state
	if s.pathStarted {
		s.Vars[parser.VarIndexCX] = s.curX
		s.Vars[parser.VarIndexCY] = s.curY
	} else {
		s.Vars[parser.VarIndexCX] = math.NaN()
		s.Vars[parser.VarIndexCY] = math.NaN()
	}
	switch st.Op {

	case parser.OpMoveTo:
		for i := 0; i+1 < len(st.Args); i += 2 {
			x, y := ip.evalN(st.Args[i]), ip.evalN(st.Args[i+1])
			ip.surface.MoveTo(x, y)
			s.startSubpath(x, y)
		}

	case parser.OpRMoveTo:
		for i := 0; i+1 < len(st.Args); i += 2 {
			x := s.curX + ip.evalN(st.Args[i])
			y := s.curY + ip.evalN(st.Args[i+1])
			ip.surface.MoveTo(x, y)
			s.startSubpath(x, y)
		}

	case parser.OpLineTo:
		for i := 0; i+1 < len(st.Args); i += 2 {
			x, y := ip.evalN(st.Args[i]), ip.evalN(st.Args[i+1])
			ip.surface.LineTo(x, y)
			s.setCurrent(x, y)
			s.resetRCP()
		}

	case parser.OpRLineTo:
		for i := 0; i+1 < len(st.Args); i += 2 {
			x := s.curX + ip.evalN(st.Args[i])
			y := s.curY + ip.evalN(st.Args[i+1])
			ip.surface.LineTo(x, y)
			s.setCurrent(x, y)
			s.resetRCP()
		}

	case parser.OpHLineAbs:
		for _, a := range st.Args {
			x := ip.evalN(a)
			ip.surface.LineTo(x, s.curY)
			s.setCurrent(x, s.curY)
			s.resetRCP()
		}

	case parser.OpHLineRel:
		for _, a := range st.Args {
			x := s.curX + ip.evalN(a)
			ip.surface.LineTo(x, s.curY)
			s.setCurrent(x, s.curY)
			s.resetRCP()
		}

	case parser.OpVLineAbs:
		for _, a := range st.Args {
			y := ip.evalN(a)
			ip.surface.LineTo(s.curX, y)
			s.setCurrent(s.curX, y)
			s.resetRCP()
		}

	case parser.OpVLineRel:
		for _, a := range st.Args {
			y := s.curY + ip.evalN(a)
			ip.surface.LineTo(s.curX, y)
			s.setCurrent(s.curX, y)
			s.resetRCP()
		}

	case parser.OpClosePath:
		ip.surface.ClosePath()
		s.setCurrent(s.subpathStartX, s.subpathStartY)
		s.resetRCP()

	case parser.OpCurveTo:
		for i := 0; i+5 < len(st.Args); i += 6 {
			c1x, c1y := ip.evalN(st.Args[i]), ip.evalN(st.Args[i+1])
			c2x, c2y := ip.evalN(st.Args[i+2]), ip.evalN(st.Args[i+3])
			x, y := ip.evalN(st.Args[i+4]), ip.evalN(st.Args[i+5])
			ip.surface.CurveTo(c1x, c1y, c2x, c2y, x, y)
			s.setCurrent(x, y)
			s.haveCubicCtrl, s.lastCubicCtrlX, s.lastCubicCtrlY = true, c2x, c2y
			s.haveQuadCtrl = false
		}

	case parser.OpRCurveTo:
		for i := 0; i+5 < len(st.Args); i += 6 {
			ox, oy := s.curX, s.curY
			c1x, c1y := ox+ip.evalN(st.Args[i]), oy+ip.evalN(st.Args[i+1])
			c2x, c2y := ox+ip.evalN(st.Args[i+2]), oy+ip.evalN(st.Args[i+3])
			x, y := ox+ip.evalN(st.Args[i+4]), oy+ip.evalN(st.Args[i+5])
			ip.surface.CurveTo(c1x, c1y, c2x, c2y, x, y)
			s.setCurrent(x, y)
			s.haveCubicCtrl, s.lastCubicCtrlX, s.lastCubicCtrlY = true, c2x, c2y
			s.haveQuadCtrl = false
		}

	case parser.OpSmoothCurveTo:
		for i := 0; i+3 < len(st.Args); i += 4 {
			c1x, c1y := s.reflectedCubicControl()
			c2x, c2y := ip.evalN(st.Args[i]), ip.evalN(st.Args[i+1])
			x, y := ip.evalN(st.Args[i+2]), ip.evalN(st.Args[i+3])
			ip.surface.CurveTo(c1x, c1y, c2x, c2y, x, y)
			s.setCurrent(x, y)
			s.haveCubicCtrl, s.lastCubicCtrlX, s.lastCubicCtrlY = true, c2x, c2y
			s.haveQuadCtrl = false
		}

	case parser.OpRSmoothCurveTo:
		for i := 0; i+3 < len(st.Args); i += 4 {
			ox, oy := s.curX, s.curY
			c1x, c1y := s.reflectedCubicControl()
			c2x, c2y := ox+ip.evalN(st.Args[i]), oy+ip.evalN(st.Args[i+1])
			x, y := ox+ip.evalN(st.Args[i+2]), oy+ip.evalN(st.Args[i+3])
			ip.surface.CurveTo(c1x, c1y, c2x, c2y, x, y)
			s.setCurrent(x, y)
			s.haveCubicCtrl, s.lastCubicCtrlX, s.lastCubicCtrlY = true, c2x, c2y
			s.haveQuadCtrl = false
		}

	case parser.OpQuadTo:
		for i := 0; i+3 < len(st.Args); i += 4 {
			cx, cy := ip.evalN(st.Args[i]), ip.evalN(st.Args[i+1])
			x, y := ip.evalN(st.Args[i+2]), ip.evalN(st.Args[i+3])
			ip.emitQuad(cx, cy, x, y)
		}

	case parser.OpRQuadTo:
		for i := 0; i+3 < len(st.Args); i += 4 {
			ox, oy := s.curX, s.curY
			cx, cy := ox+ip.evalN(st.Args[i]), oy+ip.evalN(st.Args[i+1])
			x, y := ox+ip.evalN(st.Args[i+2]), oy+ip.evalN(st.Args[i+3])
			ip.emitQuad(cx, cy, x, y)
		}

	case parser.OpSmoothQuadTo:
		for i := 0; i+1 < len(st.Args); i += 2 {
			cx, cy := s.reflectedQuadControl()
			x, y := ip.evalN(st.Args[i]), ip.evalN(st.Args[i+1])
			ip.emitQuad(cx, cy, x, y)
		}

	case parser.OpRSmoothQuadTo:
		for i := 0; i+1 < len(st.Args); i += 2 {
			ox, oy := s.curX, s.curY
			cx, cy := s.reflectedQuadControl()
			x, y := ox+ip.evalN(st.Args[i]), oy+ip.evalN(st.Args[i+1])
			ip.emitQuad(cx, cy, x, y)
		}

	case parser.OpArc, parser.OpArcNeg:
		cx, cy := ip.evalN(st.Args[0]), ip.evalN(st.Args[1])
		r := ip.evalN(st.Args[2])
		a1 := ip.evalN(st.Args[3]) * math.Pi / 180
		a2 := ip.evalN(st.Args[4]) * math.Pi / 180
		ccw := st.Op == parser.OpArcNeg
		startX, startY := cx+r*math.Cos(a1), cy+r*math.Sin(a1)
		if !s.pathStarted {
			ip.surface.MoveTo(startX, startY)
			s.startSubpath(startX, startY)
		} else {
			ip.surface.LineTo(startX, startY)
			s.setCurrent(startX, startY)
		}
		for _, seg := range curveutil.ArcSegments(cx, cy, r, r, a1, a2, ccw) {
			ip.surface.CurveTo(seg.P1.X, seg.P1.Y, seg.P2.X, seg.P2.Y, seg.P3.X, seg.P3.Y)
			s.setCurrent(seg.P3.X, seg.P3.Y)
		}
		s.resetRCP()

	case parser.OpCircle:
		cx, cy, r := ip.evalN(st.Args[0]), ip.evalN(st.Args[1]), ip.evalN(st.Args[2])
		ip.replayShape(curveutil.Circle(cx, cy, r))

	case parser.OpEllipse:
		cx, cy, rx, ry := ip.evalN(st.Args[0]), ip.evalN(st.Args[1]), ip.evalN(st.Args[2]), ip.evalN(st.Args[3])
		ip.replayShape(curveutil.Ellipse(cx, cy, rx, ry))

	case parser.OpRect:
		x, y, w, h := ip.evalN(st.Args[0]), ip.evalN(st.Args[1]), ip.evalN(st.Args[2]), ip.evalN(st.Args[3])
		ip.surface.MoveTo(x, y)
		ip.surface.LineTo(x+w, y)
		ip.surface.LineTo(x+w, y+h)
		ip.surface.LineTo(x, y+h)
		ip.surface.ClosePath()
		s.startSubpath(x, y)
		s.setCurrent(x, y)

	case parser.OpRoundedRect:
		x, y, w, h, r := ip.evalN(st.Args[0]), ip.evalN(st.Args[1]), ip.evalN(st.Args[2]), ip.evalN(st.Args[3]), ip.evalN(st.Args[4])
		ip.replayShape(curveutil.RoundedRect(x, y, w, h, r))

	case parser.OpNewPath:
		ip.surface.NewPath()
		s.setCurrent(0, 0)
		s.subpathStartX, s.subpathStartY = 0, 0
		s.pathStarted = false
		s.resetRCP()

	case parser.OpSave:
		ip.applyPendingPaint()
		ip.surface.Save()

	case parser.OpRestore:
		ip.applyPendingPaint()
		ip.surface.Restore()

	case parser.OpTranslate:
		ip.surface.Translate(ip.evalN(st.Args[0]), ip.evalN(st.Args[1]))

	case parser.OpRotate:
		ip.surface.Rotate(ip.evalN(st.Args[0]) * math.Pi / 180)

	case parser.OpScale:
		v := ip.evalN(st.Args[0])
		ip.surface.Scale(v, v)

	case parser.OpScaleXY:
		ip.surface.Scale(ip.evalN(st.Args[0]), ip.evalN(st.Args[1]))

	case parser.OpSetLineWidth:
		ip.surface.SetLineWidth(ip.evalN(st.Args[0]))

	case parser.OpSetLineCap:
		ip.surface.SetLineCap(parseLineCap(st.Args[0].Constant))

	case parser.OpSetLineJoin:
		ip.surface.SetLineJoin(parseLineJoin(st.Args[0].Constant))

	case parser.OpSetMiterLimit:
		ip.surface.SetMiterLimit(ip.evalN(st.Args[0]))

	case parser.OpSetDash:
		s.Dash = append(s.Dash, ip.evalN(st.Args[0]))
		ip.surface.SetDash(s.Dash, s.DashOffset)

	case parser.OpSetDashOffset:
		s.DashOffset = ip.evalN(st.Args[0])
		ip.surface.SetDash(s.Dash, s.DashOffset)

	case parser.OpResetDash:
		s.Dash = nil
		s.DashOffset = 0
		ip.surface.SetDash(nil, 0)

	case parser.OpSetColor:
		s.Pending = &pendingPaint{isSolid: true, solid: ip.evalColor(st.Args[0])}

	case parser.OpSetRGBA:
		r, g, b, a := ip.evalN(st.Args[0]), ip.evalN(st.Args[1]), ip.evalN(st.Args[2]), ip.evalN(st.Args[3])
		s.Pending = &pendingPaint{isSolid: true, solid: colorutil.FromRGBA01(r, g, b, a)}

	case parser.OpSetHSLA:
		h, sat, l, a := ip.evalN(st.Args[0]), ip.evalN(st.Args[1]), ip.evalN(st.Args[2]), ip.evalN(st.Args[3])
		s.Pending = &pendingPaint{isSolid: true, solid: colorutil.FromHSLA01(h, sat, l, a)}

	case parser.OpDefRGBA:
		idx := st.Args[0].VarIndex
		r, g, b, a := ip.evalN(st.Args[1]), ip.evalN(st.Args[2]), ip.evalN(st.Args[3]), ip.evalN(st.Args[4])
		s.Vars[idx] = colorutil.Pack(colorutil.FromRGBA01(r, g, b, a))

	case parser.OpDefHSLA:
		idx := st.Args[0].VarIndex
		h, sat, l, a := ip.evalN(st.Args[1]), ip.evalN(st.Args[2]), ip.evalN(st.Args[3]), ip.evalN(st.Args[4])
		s.Vars[idx] = colorutil.Pack(colorutil.FromHSLA01(h, sat, l, a))

	case parser.OpLinearGrad:
		s.Pending = &pendingPaint{
			kind: 0,
			x0:   ip.evalN(st.Args[0]), y0: ip.evalN(st.Args[1]),
			x1: ip.evalN(st.Args[2]), y1: ip.evalN(st.Args[3]),
		}

	case parser.OpRadialGrad:
		s.Pending = &pendingPaint{
			kind: 1,
			x0:   ip.evalN(st.Args[0]), y0: ip.evalN(st.Args[1]), r0: ip.evalN(st.Args[2]),
			x1: ip.evalN(st.Args[3]), y1: ip.evalN(st.Args[4]), r1: ip.evalN(st.Args[5]),
		}

	case parser.OpColorStop:
		for i := 0; i+1 < len(st.Args); i += 2 {
			offset := ip.evalN(st.Args[i])
			color := ip.evalColor(st.Args[i+1])
			if s.Pending == nil || s.Pending.isSolid {
				debugLog("colorstop with no pending gradient, ignored")
				continue
			}
			s.Pending.stops = append(s.Pending.stops, gradientStop{offset: offset, color: color})
		}

	case parser.OpFill:
		ip.applyPendingPaint()
		ip.surface.Fill(false)
		ip.finishPaintOp()

	case parser.OpEOFill:
		ip.applyPendingPaint()
		ip.surface.Fill(true)
		ip.finishPaintOp()

	case parser.OpStroke:
		ip.applyPendingPaint()
		ip.surface.Stroke()
		ip.finishPaintOp()

	case parser.OpClip:
		ip.surface.Clip(false)
		ip.finishPaintOp()

	case parser.OpEOClip:
		ip.surface.Clip(true)
		ip.finishPaintOp()

	case parser.OpResetClip:
		ip.surface.ResetClip()

	case parser.OpPreserve:
		s.PreserveNext = true

	case parser.OpIf:
		if ip.evalN(st.Args[0]) != 0 {
			return ip.execList(st.Args[1].SubProgram.Statements)
		}

	case parser.OpRepeat:
		count := int(ip.evalN(st.Args[0]))
		savedI := s.Vars[parser.VarIndexI]
		interrupted := false
		for i := 0; i < count; i++ {
			s.Vars[parser.VarIndexI] = float64(i)
			broke, err := ip.execList(st.Args[1].SubProgram.Statements)
			if err != nil {
				s.Vars[parser.VarIndexI] = savedI
				return false, err
			}
			if broke {
				interrupted = true
				break
			}
		}
		s.Vars[parser.VarIndexI] = savedI
		s.RepeatInterrupted = interrupted

	case parser.OpBreak:
		return true, nil

	case parser.OpProc, parser.OpProc1, parser.OpProc2:
		// definitions are indexed up front; nothing to execute here.

	case parser.OpCall:
		return false, ip.callProc(st.Args[0].ProcIndex, st.Args[1:], st.Pos)

	case parser.OpCall1:
		return false, ip.callProc(st.Args[0].ProcIndex, st.Args[1:2], st.Pos)

	case parser.OpCall2:
		return false, ip.callProc(st.Args[0].ProcIndex, st.Args[1:3], st.Pos)

	case parser.OpSetVar:
		s.Vars[st.Args[0].VarIndex] = ip.evalN(st.Args[1])

	case parser.OpGetMetadata:
		idx := st.Args[0].VarIndex
		key := st.Args[1].Identifier
		s.Vars[idx] = ip.metadata[key]

	case parser.OpPush:
		for i := 0; i+1 < len(st.Args); i += 2 {
			key := ip.evalN(st.Args[i])
			value := ip.evalN(st.Args[i+1])
			// spec.md section 7: a non-finite key or a NaN value is
			// silently ignored rather than pushed.
			if math.IsNaN(key) || math.IsInf(key, 0) || math.IsNaN(value) {
				continue
			}
			s.Stack.Push(key, value)
		}

	case parser.OpPrint:
		label := st.Args[0].Identifier
		vals := make([]float64, 0, len(st.Args)-1)
		for _, a := range st.Args[1:] {
			vals = append(vals, ip.evalN(a))
		}
		line := fmt.Sprintf("%s: %v", label, vals)
		debugLog("print %s", line)
		ip.PrintBuffer = append(ip.PrintBuffer, line)
		if len(ip.PrintBuffer) > maxPrintBuffer {
			ip.PrintBuffer = ip.PrintBuffer[len(ip.PrintBuffer)-maxPrintBuffer:]
		}
	}

	return false, nil
}

func (s *State) reflectedCubicControl() (float64, float64) {
	if !s.haveCubicCtrl {
		return s.curX, s.curY
	}
	p := curveutil.ReflectControlPoint(
		curveutil.Point{X: s.curX, Y: s.curY},
		curveutil.Point{X: s.lastCubicCtrlX, Y: s.lastCubicCtrlY},
	)
	return p.X, p.Y
}

func (s *State) reflectedQuadControl() (float64, float64) {
	if !s.haveQuadCtrl {
		return s.curX, s.curY
	}
	p := curveutil.ReflectControlPoint(
		curveutil.Point{X: s.curX, Y: s.curY},
		curveutil.Point{X: s.lastQuadCtrlX, Y: s.lastQuadCtrlY},
	)
	return p.X, p.Y
}

func (ip *Interpreter) emitQuad(cx, cy, x, y float64) {
	s := ip.state
	c1, c2 := curveutil.QuadToCubic(
		curveutil.Point{X: s.curX, Y: s.curY},
		curveutil.Point{X: cx, Y: cy},
		curveutil.Point{X: x, Y: y},
	)
	ip.surface.CurveTo(c1.X, c1.Y, c2.X, c2.Y, x, y)
	s.setCurrent(x, y)
	s.haveQuadCtrl, s.lastQuadCtrlX, s.lastQuadCtrlY = true, cx, cy
	s.haveCubicCtrl = false
}

func (ip *Interpreter) replayShape(ops []curveutil.PathOp) {
	s := ip.state
	for _, op := range ops {
		switch op.Kind {
		case curveutil.OpMoveTo:
			ip.surface.MoveTo(op.P3.X, op.P3.Y)
			s.startSubpath(op.P3.X, op.P3.Y)
		case curveutil.OpLineTo:
			ip.surface.LineTo(op.P3.X, op.P3.Y)
			s.setCurrent(op.P3.X, op.P3.Y)
		case curveutil.OpCurveTo:
			ip.surface.CurveTo(op.P1.X, op.P1.Y, op.P2.X, op.P2.Y, op.P3.X, op.P3.Y)
			s.setCurrent(op.P3.X, op.P3.Y)
		case curveutil.OpClose:
			ip.surface.ClosePath()
			s.setCurrent(s.subpathStartX, s.subpathStartY)
		}
	}
	s.resetRCP()
}

// applyPendingPaint promotes the pending solid color or gradient (set
// by setcolor/setrgba/sethsla/lineargrad/radialgrad+colorstop) into the
// surface's active paint, consuming it; a no-op if nothing is pending.
// Called only from fill/eofill/stroke/save/restore, per spec.md section
// 4.5 step 3 and invariant 4 — never from clip/eoclip.
func (ip *Interpreter) applyPendingPaint() {
	p := ip.state.Pending
	if p == nil {
		return
	}
	if p.isSolid {
		ip.surface.SetPaint(backend.Paint{Solid: p.solid})
		ip.state.Pending = nil
		return
	}
	bg := &backend.Gradient{X0: p.x0, Y0: p.y0, X1: p.x1, Y1: p.y1, R0: p.r0, R1: p.r1}
	if p.kind == 1 {
		bg.Kind = backend.GradientRadial
	} else {
		bg.Kind = backend.GradientLinear
	}
	for _, stop := range p.stops {
		bg.Stops = append(bg.Stops, backend.ColorStop{Offset: stop.offset, Color: stop.color})
	}
	ip.surface.SetPaint(backend.Paint{Gradient: bg})
	ip.state.Pending = nil
}

// finishPaintOp clears the current path after a fill/stroke/clip
// unless `preserve` requested keeping it, consuming that one-shot flag.
func (ip *Interpreter) finishPaintOp() {
	if ip.state.PreserveNext {
		ip.state.PreserveNext = false
		return
	}
	ip.surface.NewPath()
	ip.state.setCurrent(0, 0)
	ip.state.subpathStartX, ip.state.subpathStartY = 0, 0
	ip.state.pathStarted = false
	ip.state.resetRCP()
}

func (ip *Interpreter) callProc(procIdx int, args []parser.Argument, pos parser.Position) error {
	def, ok := ip.procDefs[procIdx]
	if !ok {
		debugLog("call to undefined procedure at %s, ignored", pos)
		return nil
	}
	var params []parser.Argument
	var body *parser.Program
	switch def.Op {
	case parser.OpProc:
		body = def.Args[1].SubProgram
	case parser.OpProc1:
		params = def.Args[1:2]
		body = def.Args[2].SubProgram
	case parser.OpProc2:
		params = def.Args[1:3]
		body = def.Args[3].SubProgram
	}
	// Evaluate every argument against the pre-call variable state before
	// binding any formal parameter (spec.md section 4.5 step 2, section 5's
	// left-to-right argument evaluation), so a pattern like
	// `call2 fib b (a+b)` reads both `a` and `b` as they stood at the call
	// site rather than seeing an already-overwritten parameter.
	bound := make([]float64, len(params))
	for i := range params {
		if i >= len(args) {
			break
		}
		bound[i] = ip.evalN(args[i])
	}
	saved := make([]float64, len(params))
	for i, p := range params {
		saved[i] = ip.state.Vars[p.VarIndex]
		if i < len(args) {
			ip.state.Vars[p.VarIndex] = bound[i]
		}
	}
	var err error
	if body != nil {
		_, err = ip.execList(body.Statements)
	}
	for i, p := range params {
		ip.state.Vars[p.VarIndex] = saved[i]
	}
	return err
}

func parseLineCap(s string) backend.LineCap {
	switch s {
	case "round":
		return backend.CapRound
	case "square":
		return backend.CapSquare
	default:
		return backend.CapButt
	}
}

func parseLineJoin(s string) backend.LineJoin {
	switch s {
	case "round":
		return backend.JoinRound
	case "bevel":
		return backend.JoinBevel
	default:
		return backend.JoinMiter
	}
}
