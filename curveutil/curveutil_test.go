package curveutil_test

import (
	"math"
	"testing"

	"github.com/drawvg/vgs/curveutil"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestQuadToCubic(t *testing.T) {
	p0 := curveutil.Point{X: 0, Y: 0}
	p1 := curveutil.Point{X: 5, Y: 10}
	p2 := curveutil.Point{X: 10, Y: 0}
	c1, c2 := curveutil.QuadToCubic(p0, p1, p2)
	if !almostEqual(c1.X, 10.0/3.0) || !almostEqual(c1.Y, 20.0/3.0) {
		t.Fatalf("unexpected c1: %+v", c1)
	}
	if !almostEqual(c2.X, 20.0/3.0) || !almostEqual(c2.Y, 20.0/3.0) {
		t.Fatalf("unexpected c2: %+v", c2)
	}
}

func TestReflectControlPoint(t *testing.T) {
	current := curveutil.Point{X: 5, Y: 5}
	previous := curveutil.Point{X: 3, Y: 4}
	got := curveutil.ReflectControlPoint(current, previous)
	want := curveutil.Point{X: 7, Y: 6}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCircleStartsAtRightmostPoint(t *testing.T) {
	ops := curveutil.Circle(0, 0, 10)
	if ops[0].Kind != curveutil.OpMoveTo {
		t.Fatalf("expected first op to be a move")
	}
	if !almostEqual(ops[0].P3.X, 10) || !almostEqual(ops[0].P3.Y, 0) {
		t.Fatalf("unexpected start point: %+v", ops[0].P3)
	}
	last := ops[len(ops)-1]
	if last.Kind != curveutil.OpClose {
		t.Fatalf("expected path to close")
	}
}

func TestCircleEndsWhereItStarted(t *testing.T) {
	ops := curveutil.Circle(1, 2, 3)
	var endPoint curveutil.Point
	for _, op := range ops {
		if op.Kind == curveutil.OpCurveTo {
			endPoint = op.P3
		}
	}
	if !almostEqual(endPoint.X, ops[0].P3.X) || !almostEqual(endPoint.Y, ops[0].P3.Y) {
		t.Fatalf("arc did not return to start: %+v vs %+v", endPoint, ops[0].P3)
	}
}

func TestRoundedRectZeroRadiusIsFourLines(t *testing.T) {
	ops := curveutil.RoundedRect(0, 0, 10, 20, 0)
	for _, op := range ops {
		if op.Kind == curveutil.OpCurveTo {
			t.Fatalf("zero-radius rounded rect should contain no curves")
		}
	}
}

func TestRoundedRectClampsRadius(t *testing.T) {
	// radius larger than half the shorter side should clamp, not overshoot.
	ops := curveutil.RoundedRect(0, 0, 10, 4, 100)
	if len(ops) == 0 {
		t.Fatal("expected path ops")
	}
	// half the shorter side is 2, so the path starts at (x+2, y).
	if !almostEqual(ops[0].P3.X, 2) || !almostEqual(ops[0].P3.Y, 0) {
		t.Fatalf("expected radius clamped to 2 (start at (2,0)), got %+v", ops[0].P3)
	}
}

func TestArcSegmentsSweepsClockwiseByDefault(t *testing.T) {
	ops := curveutil.ArcSegments(0, 0, 1, 1, 0, math.Pi, false)
	if len(ops) == 0 {
		t.Fatal("expected segments")
	}
	last := ops[len(ops)-1]
	if !almostEqual(last.P3.X, -1) || !almostEqual(last.P3.Y, 0) {
		t.Fatalf("expected arc to end at (-1,0), got %+v", last.P3)
	}
}
