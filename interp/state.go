// Package interp implements the tree-walking interpreter spec.md
// sections 4.5/6.2 describe: given a compiled parser.Program and a
// backend.Surface, it walks the statement tree once per rendered
// frame, evaluating each statement's embedded numeric expressions
// against that frame's variable bindings and issuing the corresponding
// drawing calls.
package interp

import (
	"math/rand/v2"

	"github.com/drawvg/vgs/colorutil"
)

// FrameParams are the host-supplied fixed variables spec.md section 3
// seeds before interpretation begins: n (frame index), t (normalized
// time), w/h (canvas size), duration (in seconds, as the host supplies
// it). cx/cy are not
// among them — the interpreter derives those itself, every statement,
// from the back-end's current point (section 4.5 step 1; section 6.1).
// i (the current repeat-loop counter) likewise isn't seeded here; it
// starts at 0 and is bound by the repeat opcode.
type FrameParams struct {
	N, T, W, H, Duration float64
	Seed                 uint64
}

// State is the complete mutable state of one interpreted frame: it is
// created fresh before interpreting a Program and discarded afterward.
// The Program tree itself is immutable and long-lived, reused across
// every frame.
type State struct {
	Vars []float64

	curX, curY             float64
	subpathStartX          float64
	subpathStartY          float64
	pathStarted            bool
	haveCubicCtrl          bool
	lastCubicCtrlX         float64
	lastCubicCtrlY         float64
	haveQuadCtrl           bool
	lastQuadCtrlX          float64
	lastQuadCtrlY          float64

	Dash       []float64
	DashOffset float64

	// Pending is the pending paint pattern (spec.md section 3): at most
	// one of a solid color or a gradient accumulating colorstop entries,
	// consumed only by the next fill/eofill/stroke/save/restore
	// (section 4.5 step 3, invariant 4).
	Pending      *pendingPaint
	PreserveNext bool

	Stack *ValueStack
	RNG   [4]*rand.Rand // lazily seeded on each slot's first randomg() call

	RepeatInterrupted bool

	Metadata map[string]float64
}

// pendingPaint mirrors backend.Paint but lives in this package so
// state.go does not need to import backend just to hold one forward
// declaration; interpreter.go converts it at consumption time.
type pendingPaint struct {
	isSolid bool
	solid   colorutil.RGBA

	kind   int // 0 linear, 1 radial; only meaningful when !isSolid
	x0, y0 float64
	x1, y1 float64
	r0, r1 float64
	stops  []gradientStop
}

type gradientStop struct {
	offset float64
	color  colorutil.RGBA
}

// NewState allocates a zeroed per-frame state sized for varCount
// numeric variable slots (fixed vars + user vars, color variables
// included). The four RNG slots start empty; each is seeded by the
// first randomg() call that uses it.
func NewState(varCount int, params FrameParams) *State {
	return &State{
		Vars:     make([]float64, varCount),
		Stack:    NewValueStack(),
		Metadata: map[string]float64{},
	}
}

func (s *State) resetRCP() {
	s.haveCubicCtrl = false
	s.haveQuadCtrl = false
}

func (s *State) setCurrent(x, y float64) {
	s.curX, s.curY = x, y
}

func (s *State) startSubpath(x, y float64) {
	s.curX, s.curY = x, y
	s.subpathStartX, s.subpathStartY = x, y
	s.pathStarted = true
	s.resetRCP()
}
