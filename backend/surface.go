// Package backend abstracts the drawing surface the interpreter paints
// onto, so the same interp.Interpreter can target a rasterized image
// (SoftwareSurface) or a call-logging test double (Recorder) without
// either the parser or the interpreter knowing which.
package backend

import "github.com/drawvg/vgs/colorutil"

// LineCap mirrors spec.md's setlinecap keyword set.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin mirrors spec.md's setlinejoin keyword set.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Paint is the pending fill/stroke source: either a solid color or a
// gradient with one or more color stops, per spec.md section 4.4's
// pending-paint-pattern model.
type Paint struct {
	Solid    colorutil.RGBA
	Gradient *Gradient // nil for a solid paint
}

// GradientKind distinguishes linear from radial gradients.
type GradientKind int

const (
	GradientLinear GradientKind = iota
	GradientRadial
)

// ColorStop is one offset/color pair of a gradient ramp.
type ColorStop struct {
	Offset float64
	Color  colorutil.RGBA
}

// Gradient is a pending lineargrad/radialgrad paint, accumulating
// colorstop entries until consumed by a painting operation.
type Gradient struct {
	Kind   GradientKind
	X0, Y0 float64
	X1, Y1 float64
	R0, R1 float64 // radii, radial only
	Stops  []ColorStop
}

// Surface is the abstract 2D vector drawing target spec.md section 6.3
// requires: path construction, paint/stroke state, and the painting
// operators, all working in the same user-space coordinates the
// interpreter computes from evaluated expressions.
type Surface interface {
	Save()
	Restore()

	Translate(tx, ty float64)
	Rotate(angleRadians float64)
	Scale(sx, sy float64)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
	NewPath()

	SetLineWidth(w float64)
	SetLineCap(c LineCap)
	SetLineJoin(j LineJoin)
	SetMiterLimit(m float64)
	SetDash(segments []float64, offset float64)

	SetPaint(p Paint)

	Fill(evenOdd bool)
	Stroke()
	Clip(evenOdd bool)
	ResetClip()

	// PathLength reports the accumulated length, in user-space units, of
	// the path built so far in the current subpath sequence — backs the
	// pathlen() host function. If n > 0, only the first n segments are
	// summed; n <= 0 means the whole path.
	PathLength(n float64) float64
}
