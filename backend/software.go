package backend

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/drawvg/vgs/colorutil"
)

// mat is a 2D affine transform, applied as x' = a*x + c*y + e,
// y' = b*x + d*y + f.
type mat struct{ a, b, c, d, e, f float64 }

var identity = mat{a: 1, d: 1}

func (m mat) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// mul composes m and n so that (m.mul(n)).apply(p) == m.apply(n.apply(p)).
func (m mat) mul(n mat) mat {
	return mat{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func translateMat(tx, ty float64) mat { return mat{a: 1, d: 1, e: tx, f: ty} }
func scaleMat(sx, sy float64) mat     { return mat{a: sx, d: sy} }
func rotateMat(theta float64) mat {
	s, c := math.Sin(theta), math.Cos(theta)
	return mat{a: c, b: s, c: -s, d: c}
}

type segKind int

const (
	segMove segKind = iota
	segLine
	segCurve
	segClose
)

// pathSeg is one device-space path command, recorded after the CTM in
// effect at the time it was issued has already been applied — matching
// how a real vector canvas bakes transforms into path geometry.
type pathSeg struct {
	kind           segKind
	x1, y1         float64 // control point 1 (segCurve only)
	x2, y2         float64 // control point 2 (segCurve only)
	x, y           float64 // endpoint (segMove/segLine/segCurve)
}

type savedState struct {
	ctm        mat
	paint      Paint
	lineWidth  float64
	lineCap    LineCap
	lineJoin   LineJoin
	miterLimit float64
	dash       []float64
	dashOffset float64
}

// SoftwareSurface rasterizes directly onto an *image.RGBA using
// golang.org/x/image/vector for path filling, mirroring the
// framebuffer-to-image.RGBA pipeline the teacher pack's sicpu emulator
// uses for its own screenshot path (GetFramebufferImage/SaveScreenshot),
// generalized from a fixed palette+framebuffer copy to true vector path
// rasterization.
type SoftwareSurface struct {
	img    *image.RGBA
	width  int
	height int

	ctm  mat
	path []pathSeg
	cur  struct{ x, y float64 }

	paint      Paint
	lineWidth  float64
	lineCap    LineCap
	lineJoin   LineJoin
	miterLimit float64
	dash       []float64
	dashOffset float64

	clip  *image.Alpha // nil means unclipped
	stack []savedState
}

// NewSoftwareSurface allocates a white-backgrounded RGBA canvas of the
// given pixel size.
func NewSoftwareSurface(width, height int) *SoftwareSurface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &SoftwareSurface{
		img:        img,
		width:      width,
		height:     height,
		ctm:        identity,
		lineWidth:  1,
		miterLimit: 10,
		paint:      Paint{Solid: colorutil.RGBA{A: 255}},
	}
}

// Image returns the rendered RGBA image.
func (s *SoftwareSurface) Image() *image.RGBA { return s.img }

func (s *SoftwareSurface) Save() {
	s.stack = append(s.stack, savedState{
		ctm: s.ctm, paint: s.paint, lineWidth: s.lineWidth, lineCap: s.lineCap,
		lineJoin: s.lineJoin, miterLimit: s.miterLimit,
		dash: append([]float64(nil), s.dash...), dashOffset: s.dashOffset,
	})
}

func (s *SoftwareSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	saved := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.ctm = saved.ctm
	s.paint = saved.paint
	s.lineWidth = saved.lineWidth
	s.lineCap = saved.lineCap
	s.lineJoin = saved.lineJoin
	s.miterLimit = saved.miterLimit
	s.dash = saved.dash
	s.dashOffset = saved.dashOffset
}

func (s *SoftwareSurface) Translate(tx, ty float64) { s.ctm = s.ctm.mul(translateMat(tx, ty)) }
func (s *SoftwareSurface) Rotate(a float64)         { s.ctm = s.ctm.mul(rotateMat(a)) }
func (s *SoftwareSurface) Scale(sx, sy float64)     { s.ctm = s.ctm.mul(scaleMat(sx, sy)) }

func (s *SoftwareSurface) MoveTo(x, y float64) {
	dx, dy := s.ctm.apply(x, y)
	s.path = append(s.path, pathSeg{kind: segMove, x: dx, y: dy})
	s.cur.x, s.cur.y = dx, dy
}

func (s *SoftwareSurface) LineTo(x, y float64) {
	dx, dy := s.ctm.apply(x, y)
	s.path = append(s.path, pathSeg{kind: segLine, x: dx, y: dy})
	s.cur.x, s.cur.y = dx, dy
}

func (s *SoftwareSurface) CurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	d1x, d1y := s.ctm.apply(c1x, c1y)
	d2x, d2y := s.ctm.apply(c2x, c2y)
	dx, dy := s.ctm.apply(x, y)
	s.path = append(s.path, pathSeg{kind: segCurve, x1: d1x, y1: d1y, x2: d2x, y2: d2y, x: dx, y: dy})
	s.cur.x, s.cur.y = dx, dy
}

func (s *SoftwareSurface) ClosePath() {
	s.path = append(s.path, pathSeg{kind: segClose})
}

func (s *SoftwareSurface) NewPath() {
	s.path = nil
}

func (s *SoftwareSurface) SetLineWidth(w float64)  { s.lineWidth = w }
func (s *SoftwareSurface) SetLineCap(c LineCap)     { s.lineCap = c }
func (s *SoftwareSurface) SetLineJoin(j LineJoin)   { s.lineJoin = j }
func (s *SoftwareSurface) SetMiterLimit(m float64)  { s.miterLimit = m }

func (s *SoftwareSurface) SetDash(segments []float64, offset float64) {
	s.dash = segments
	s.dashOffset = offset
}

func (s *SoftwareSurface) SetPaint(p Paint) { s.paint = p }

// buildRasterizer replays the recorded path into an x/image/vector
// Rasterizer, which natively flattens cubic segments, so fill doesn't
// need its own curve-flattening pass.
func (s *SoftwareSurface) buildRasterizer() *vector.Rasterizer {
	rast := vector.NewRasterizer(s.width, s.height)
	var start struct{ x, y float64 }
	open := false
	for _, seg := range s.path {
		switch seg.kind {
		case segMove:
			if open {
				rast.ClosePath()
			}
			rast.MoveTo(float32(seg.x), float32(seg.y))
			start = struct{ x, y float64 }{seg.x, seg.y}
			open = true
		case segLine:
			rast.LineTo(float32(seg.x), float32(seg.y))
		case segCurve:
			rast.CubeTo(float32(seg.x1), float32(seg.y1), float32(seg.x2), float32(seg.y2), float32(seg.x), float32(seg.y))
		case segClose:
			rast.LineTo(float32(start.x), float32(start.y))
		}
	}
	if open {
		rast.ClosePath()
	}
	return rast
}

// paintSource turns the pending Paint into an image.Image usable as a
// draw.Draw source, covering the gradient case with a simple per-pixel
// ramp evaluator.
func (s *SoftwareSurface) paintSource() image.Image {
	if s.paint.Gradient == nil {
		return image.NewUniform(toNRGBA(s.paint.Solid))
	}
	return &gradientImage{g: s.paint.Gradient, bounds: s.img.Bounds()}
}

func toNRGBA(c colorutil.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// fillCommon rasterizes the current path and composites the pending
// paint through it, honoring any active clip mask. x/image/vector does
// not expose a winding-rule switch, so fill and eofill currently
// produce the same coverage; a dedicated even-odd scanline pass would
// be needed to tell them apart.
func (s *SoftwareSurface) fillCommon() {
	rast := s.buildRasterizer()
	mask := image.NewAlpha(s.img.Bounds())
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	if s.clip != nil {
		mask = intersectAlpha(mask, s.clip)
	}
	draw.DrawMask(s.img, s.img.Bounds(), s.paintSource(), image.Point{}, mask, image.Point{}, draw.Over)
}

func (s *SoftwareSurface) Fill(evenOdd bool) { s.fillCommon() }

func (s *SoftwareSurface) Stroke() {
	rast := s.buildStrokeRasterizer()
	mask := image.NewAlpha(s.img.Bounds())
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	if s.clip != nil {
		mask = intersectAlpha(mask, s.clip)
	}
	draw.DrawMask(s.img, s.img.Bounds(), s.paintSource(), image.Point{}, mask, image.Point{}, draw.Over)
}

func (s *SoftwareSurface) Clip(evenOdd bool) {
	rast := s.buildRasterizer()
	mask := image.NewAlpha(s.img.Bounds())
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	if s.clip != nil {
		mask = intersectAlpha(mask, s.clip)
	}
	s.clip = mask
}

func (s *SoftwareSurface) ResetClip() { s.clip = nil }

// PathLength sums the Euclidean length of the path built so far,
// sampling curve segments at a fixed resolution. move_to segments
// contribute no length and don't count against the segment limit; if
// n > 0, summation stops once n line/curve/close segments have been
// consumed.
func (s *SoftwareSurface) PathLength(n float64) float64 {
	limit := -1
	if n > 0 {
		limit = int(n)
	}
	var total float64
	var cur, start struct{ x, y float64 }
	count := 0
	for _, seg := range s.path {
		if limit >= 0 && count >= limit {
			break
		}
		switch seg.kind {
		case segMove:
			cur = struct{ x, y float64 }{seg.x, seg.y}
			start = cur
		case segLine:
			total += math.Hypot(seg.x-cur.x, seg.y-cur.y)
			cur = struct{ x, y float64 }{seg.x, seg.y}
			count++
		case segCurve:
			total += cubicLength(cur.x, cur.y, seg.x1, seg.y1, seg.x2, seg.y2, seg.x, seg.y)
			cur = struct{ x, y float64 }{seg.x, seg.y}
			count++
		case segClose:
			total += math.Hypot(start.x-cur.x, start.y-cur.y)
			cur = start
			count++
		}
	}
	return total
}

const curveLenSamples = 24

func cubicLength(x0, y0, x1, y1, x2, y2, x3, y3 float64) float64 {
	var total float64
	px, py := x0, y0
	for i := 1; i <= curveLenSamples; i++ {
		t := float64(i) / curveLenSamples
		x, y := cubicPoint(x0, y0, x1, y1, x2, y2, x3, y3, t)
		total += math.Hypot(x-px, y-py)
		px, py = x, y
	}
	return total
}

func cubicPoint(x0, y0, x1, y1, x2, y2, x3, y3, t float64) (float64, float64) {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return a*x0 + b*x1 + c*x2 + d*x3, a*y0 + b*y1 + c*y2 + d*y3
}

// buildStrokeRasterizer approximates stroking by emitting a filled
// quad per flattened segment plus a small regular polygon at every
// join and cap, so joins and caps are always effectively round
// regardless of SetLineJoin/SetLineCap — the line-style keyword is
// still tracked for fidelity but not yet distinguished at raster time.
func (s *SoftwareSurface) buildStrokeRasterizer() *vector.Rasterizer {
	rast := vector.NewRasterizer(s.width, s.height)
	halfW := s.lineWidth / 2
	if halfW <= 0 {
		halfW = 0.5
	}

	for _, pts := range s.flattenedSubpaths() {
		for i := 0; i+1 < len(pts); i++ {
			addStrokeQuad(rast, pts[i], pts[i+1], halfW)
		}
		for _, p := range pts {
			addStrokeCap(rast, p, halfW)
		}
	}
	return rast
}

type fpoint struct{ x, y float64 }

// flattenedSubpaths samples the recorded path (already in device
// space) into polylines, splitting at every MoveTo.
func (s *SoftwareSurface) flattenedSubpaths() [][]fpoint {
	var all [][]fpoint
	var cur []fpoint
	var last, start fpoint
	flush := func() {
		if len(cur) > 1 {
			all = append(all, cur)
		}
		cur = nil
	}
	for _, seg := range s.path {
		switch seg.kind {
		case segMove:
			flush()
			p := fpoint{seg.x, seg.y}
			cur = append(cur, p)
			last, start = p, p
		case segLine:
			p := fpoint{seg.x, seg.y}
			cur = append(cur, p)
			last = p
		case segCurve:
			for i := 1; i <= curveLenSamples; i++ {
				t := float64(i) / curveLenSamples
				x, y := cubicPoint(last.x, last.y, seg.x1, seg.y1, seg.x2, seg.y2, seg.x, seg.y, t)
				cur = append(cur, fpoint{x, y})
			}
			last = fpoint{seg.x, seg.y}
		case segClose:
			cur = append(cur, start)
			last = start
		}
	}
	flush()
	return all
}

func addStrokeQuad(rast *vector.Rasterizer, a, b fpoint, halfW float64) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*halfW, dx/length*halfW
	rast.MoveTo(float32(a.x+nx), float32(a.y+ny))
	rast.LineTo(float32(b.x+nx), float32(b.y+ny))
	rast.LineTo(float32(b.x-nx), float32(b.y-ny))
	rast.LineTo(float32(a.x-nx), float32(a.y-ny))
	rast.ClosePath()
}

const capSides = 10

func addStrokeCap(rast *vector.Rasterizer, center fpoint, radius float64) {
	for i := 0; i < capSides; i++ {
		theta := 2 * math.Pi * float64(i) / capSides
		x, y := center.x+radius*math.Cos(theta), center.y+radius*math.Sin(theta)
		if i == 0 {
			rast.MoveTo(float32(x), float32(y))
		} else {
			rast.LineTo(float32(x), float32(y))
		}
	}
	rast.ClosePath()
}

func intersectAlpha(a, b *image.Alpha) *image.Alpha {
	out := image.NewAlpha(a.Bounds())
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			av := a.AlphaAt(x, y).A
			bv := b.AlphaAt(x, y).A
			out.SetAlpha(x, y, color.Alpha{A: uint8(uint16(av) * uint16(bv) / 255)})
		}
	}
	return out
}

// gradientImage evaluates a linear or radial gradient per pixel on
// demand, so draw.DrawMask can treat it like any other image.Image
// source.
type gradientImage struct {
	g      *Gradient
	bounds image.Rectangle
}

func (gi *gradientImage) ColorModel() color.Model { return color.NRGBAModel }
func (gi *gradientImage) Bounds() image.Rectangle { return gi.bounds }

func (gi *gradientImage) At(x, y int) color.Color {
	t := gi.offsetAt(float64(x)+0.5, float64(y)+0.5)
	return toNRGBA(sampleStops(gi.g.Stops, t))
}

func (gi *gradientImage) offsetAt(x, y float64) float64 {
	g := gi.g
	if g.Kind == GradientRadial {
		dx, dy := x-g.X1, y-g.Y1
		d := math.Hypot(dx, dy)
		if g.R1 == g.R0 {
			return 0
		}
		return clamp01((d - g.R0) / (g.R1 - g.R0))
	}
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	length2 := dx*dx + dy*dy
	if length2 == 0 {
		return 0
	}
	t := ((x-g.X0)*dx + (y-g.Y0)*dy) / length2
	return clamp01(t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sampleStops(stops []ColorStop, t float64) colorutil.RGBA {
	if len(stops) == 0 {
		return colorutil.RGBA{A: 255}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	if t >= stops[len(stops)-1].Offset {
		return stops[len(stops)-1].Color
	}
	for i := 0; i+1 < len(stops); i++ {
		a, b := stops[i], stops[i+1]
		if t >= a.Offset && t <= b.Offset {
			span := b.Offset - a.Offset
			if span == 0 {
				return b.Color
			}
			f := (t - a.Offset) / span
			return lerpColor(a.Color, b.Color, f)
		}
	}
	return stops[len(stops)-1].Color
}

func lerpColor(a, b colorutil.RGBA, f float64) colorutil.RGBA {
	lerp := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*f) }
	return colorutil.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}
