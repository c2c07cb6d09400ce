package backend

import "fmt"

// Recorder is a Surface that records every call it receives as a
// formatted string instead of drawing anything, so interpreter tests
// can assert on the exact sequence of drawing operations a program
// produces without needing a real rasterizer.
type Recorder struct {
	Calls []string

	// segmentLengths holds one entry per line/curve/close segment since
	// the last NewPath, in path order; exact lengths are irrelevant to
	// call-sequence assertions, but the count and order matter for
	// PathLength's segment-limit argument.
	segmentLengths []float64
}

// NewRecorder returns an empty call-recording Surface.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) log(format string, args ...interface{}) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) Save()    { r.log("Save") }
func (r *Recorder) Restore() { r.log("Restore") }

func (r *Recorder) Translate(tx, ty float64) { r.log("Translate(%g,%g)", tx, ty) }
func (r *Recorder) Rotate(a float64)         { r.log("Rotate(%g)", a) }
func (r *Recorder) Scale(sx, sy float64)     { r.log("Scale(%g,%g)", sx, sy) }

func (r *Recorder) MoveTo(x, y float64) {
	r.log("MoveTo(%g,%g)", x, y)
}

func (r *Recorder) LineTo(x, y float64) {
	r.segmentLengths = append(r.segmentLengths, 1)
	r.log("LineTo(%g,%g)", x, y)
}

func (r *Recorder) CurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.segmentLengths = append(r.segmentLengths, 1)
	r.log("CurveTo(%g,%g,%g,%g,%g,%g)", c1x, c1y, c2x, c2y, x, y)
}

func (r *Recorder) ClosePath() {
	r.segmentLengths = append(r.segmentLengths, 1)
	r.log("ClosePath")
}
func (r *Recorder) NewPath() { r.segmentLengths = nil; r.log("NewPath") }

func (r *Recorder) SetLineWidth(w float64)  { r.log("SetLineWidth(%g)", w) }
func (r *Recorder) SetLineCap(c LineCap)    { r.log("SetLineCap(%d)", c) }
func (r *Recorder) SetLineJoin(j LineJoin)  { r.log("SetLineJoin(%d)", j) }
func (r *Recorder) SetMiterLimit(m float64) { r.log("SetMiterLimit(%g)", m) }

func (r *Recorder) SetDash(segments []float64, offset float64) {
	r.log("SetDash(%v,%g)", segments, offset)
}

func (r *Recorder) SetPaint(p Paint) {
	if p.Gradient != nil {
		r.log("SetPaint(gradient kind=%d stops=%d)", p.Gradient.Kind, len(p.Gradient.Stops))
		return
	}
	r.log("SetPaint(%+v)", p.Solid)
}

func (r *Recorder) Fill(evenOdd bool) { r.log("Fill(evenOdd=%v)", evenOdd) }
func (r *Recorder) Stroke()           { r.log("Stroke") }
func (r *Recorder) Clip(evenOdd bool) { r.log("Clip(evenOdd=%v)", evenOdd) }
func (r *Recorder) ResetClip()        { r.log("ResetClip") }

// PathLength sums the recorded segment lengths, stopping after n
// segments when n > 0.
func (r *Recorder) PathLength(n float64) float64 {
	limit := len(r.segmentLengths)
	if n > 0 && int(n) < limit {
		limit = int(n)
	}
	var total float64
	for _, l := range r.segmentLengths[:limit] {
		total += l
	}
	return total
}
