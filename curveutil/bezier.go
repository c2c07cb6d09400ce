// Package curveutil implements the curve-geometry helpers spec.md
// section 4.1's path instructions need but delegates to no particular
// backend: quadratic-to-cubic conversion for Q/q/T/t, and the
// decomposition of circle/ellipse/rounded-rect into cubic Bezier arcs
// that any backend.Surface can draw with nothing but CurveTo.
package curveutil

// Point is a 2D coordinate in the program's user space.
type Point struct {
	X, Y float64
}

// QuadToCubic converts one quadratic Bezier segment (current point p0,
// control p1, endpoint p2) into the equivalent cubic control points,
// per the standard degree-elevation formula also used by SVG
// renderers: c1 = p0 + 2/3(p1-p0), c2 = p2 + 2/3(p1-p2).
func QuadToCubic(p0, p1, p2 Point) (c1, c2 Point) {
	c1 = Point{
		X: p0.X + 2.0/3.0*(p1.X-p0.X),
		Y: p0.Y + 2.0/3.0*(p1.Y-p0.Y),
	}
	c2 = Point{
		X: p2.X + 2.0/3.0*(p1.X-p2.X),
		Y: p2.Y + 2.0/3.0*(p1.Y-p2.Y),
	}
	return c1, c2
}

// ReflectControlPoint computes the reflection of a previous control
// point through the current point, per spec.md's smooth-curve
// instructions (S/s/T/t): reflected = 2*current - previous.
func ReflectControlPoint(current, previous Point) Point {
	return Point{
		X: 2*current.X - previous.X,
		Y: 2*current.Y - previous.Y,
	}
}
