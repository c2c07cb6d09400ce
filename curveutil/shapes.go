package curveutil

import "math"

// kappa approximates a quarter-circle arc with a single cubic Bezier
// segment: the classic 4*(sqrt(2)-1)/3 constant.
const kappa = 0.5522847498307936

// OpKind tags one step of a decomposed shape path.
type OpKind int

const (
	OpMoveTo OpKind = iota
	OpLineTo
	OpCurveTo
	OpClose
)

// PathOp is one step of a shape decomposed into move/line/curve/close
// primitives, the common vocabulary any backend.Surface implements.
// For OpCurveTo, P1/P2 are the cubic control points and P3 is the
// segment endpoint; for OpMoveTo/OpLineTo only P3 is meaningful.
type PathOp struct {
	Kind       OpKind
	P1, P2, P3 Point
}

func lineTo(p Point) PathOp { return PathOp{Kind: OpLineTo, P3: p} }
func moveTo(p Point) PathOp { return PathOp{Kind: OpMoveTo, P3: p} }
func curveTo(c1, c2, end Point) PathOp {
	return PathOp{Kind: OpCurveTo, P1: c1, P2: c2, P3: end}
}

// ArcSegments decomposes a circular/elliptical arc from startAngle to
// endAngle (radians) into a series of cubic Bezier segments, each
// spanning at most 90 degrees, so that the result is visually
// indistinguishable from a true arc at any raster resolution. If ccw
// is true the arc sweeps from start to end in the decreasing-angle
// direction (spec.md's "arcn" counterpart to "arc").
func ArcSegments(cx, cy, rx, ry, startAngle, endAngle float64, ccw bool) []PathOp {
	sweep := endAngle - startAngle
	if ccw {
		for sweep > 0 {
			sweep -= 2 * math.Pi
		}
	} else {
		for sweep < 0 {
			sweep += 2 * math.Pi
		}
	}

	const maxSegAngle = math.Pi / 2
	segCount := int(math.Ceil(math.Abs(sweep) / maxSegAngle))
	if segCount < 1 {
		segCount = 1
	}
	segSweep := sweep / float64(segCount)

	ops := make([]PathOp, 0, segCount)
	a0 := startAngle
	for i := 0; i < segCount; i++ {
		a1 := a0 + segSweep
		ops = append(ops, cubicArcSegment(cx, cy, rx, ry, a0, a1))
		a0 = a1
	}
	return ops
}

// cubicArcSegment approximates a single arc segment, of at most 90
// degrees, with one cubic Bezier curve.
func cubicArcSegment(cx, cy, rx, ry, a0, a1 float64) PathOp {
	sin0, cos0 := math.Sin(a0), math.Cos(a0)
	sin1, cos1 := math.Sin(a1), math.Cos(a1)

	p0 := Point{cx + rx*cos0, cy + ry*sin0}
	p1 := Point{cx + rx*cos1, cy + ry*sin1}

	alpha := kappa * (a1 - a0) / (math.Pi / 2)
	c1 := Point{p0.X - alpha*rx*sin0, p0.Y + alpha*ry*cos0}
	c2 := Point{p1.X + alpha*rx*sin1, p1.Y - alpha*ry*cos1}

	return curveTo(c1, c2, p1)
}

// Circle returns the closed path for a circle of radius r centered at
// (cx, cy), starting at its rightmost point and sweeping clockwise,
// matching spec.md's "circle" instruction.
func Circle(cx, cy, r float64) []PathOp {
	return Ellipse(cx, cy, r, r)
}

// Ellipse returns the closed path for an axis-aligned ellipse,
// matching spec.md's "ellipse" instruction.
func Ellipse(cx, cy, rx, ry float64) []PathOp {
	ops := []PathOp{moveTo(Point{cx + rx, cy})}
	ops = append(ops, ArcSegments(cx, cy, rx, ry, 0, 2*math.Pi, false)...)
	ops = append(ops, PathOp{Kind: OpClose})
	return ops
}

// RoundedRect returns the closed path for a rectangle with corner
// radius r (clamped to half the shorter side), matching spec.md's
// "roundedrect" instruction. With r == 0 this degenerates to four
// straight edges.
func RoundedRect(x, y, w, h, r float64) []PathOp {
	if r < 0 {
		r = 0
	}
	maxR := math.Min(w, h) / 2
	if r > maxR {
		r = maxR
	}
	if r == 0 {
		return []PathOp{
			moveTo(Point{x, y}),
			lineTo(Point{x + w, y}),
			lineTo(Point{x + w, y + h}),
			lineTo(Point{x, y + h}),
			{Kind: OpClose},
		}
	}

	ops := []PathOp{moveTo(Point{x + r, y})}
	ops = append(ops, lineTo(Point{x + w - r, y}))
	ops = append(ops, ArcSegments(x+w-r, y+r, r, r, -math.Pi/2, 0, false)...)
	ops = append(ops, lineTo(Point{x + w, y + h - r}))
	ops = append(ops, ArcSegments(x+w-r, y+h-r, r, r, 0, math.Pi/2, false)...)
	ops = append(ops, lineTo(Point{x + r, y + h}))
	ops = append(ops, ArcSegments(x+r, y+h-r, r, r, math.Pi/2, math.Pi, false)...)
	ops = append(ops, lineTo(Point{x, y + r}))
	ops = append(ops, ArcSegments(x+r, y+r, r, r, math.Pi, 3*math.Pi/2, false)...)
	ops = append(ops, PathOp{Kind: OpClose})
	return ops
}
