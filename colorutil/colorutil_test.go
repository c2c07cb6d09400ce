package colorutil_test

import (
	"testing"

	"github.com/drawvg/vgs/colorutil"
)

func TestParseNamed(t *testing.T) {
	c, err := colorutil.Parse("red")
	if err != nil {
		t.Fatal(err)
	}
	if c != (colorutil.RGBA{R: 255, A: 255}) {
		t.Fatalf("unexpected red: %+v", c)
	}
}

func TestParseHexRGB(t *testing.T) {
	c, err := colorutil.Parse("#112233")
	if err != nil {
		t.Fatal(err)
	}
	want := colorutil.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 255}
	if c != want {
		t.Fatalf("got %+v, want %+v", c, want)
	}
}

func TestParseHexRGBA(t *testing.T) {
	c, err := colorutil.Parse("#11223344")
	if err != nil {
		t.Fatal(err)
	}
	want := colorutil.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}
	if c != want {
		t.Fatalf("got %+v, want %+v", c, want)
	}
}

func TestParseUnknownFails(t *testing.T) {
	if _, err := colorutil.Parse("notacolor"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseInvalidHexLength(t *testing.T) {
	if _, err := colorutil.Parse("#fff"); err == nil {
		t.Fatal("expected error for short hex")
	}
}

func TestFromHSLAGray(t *testing.T) {
	c := colorutil.FromHSLA01(0, 0, 0.5, 1)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("expected gray, got %+v", c)
	}
}

func TestFromHSLARed(t *testing.T) {
	c := colorutil.FromHSLA01(0, 1, 0.5, 1)
	want := colorutil.RGBA{R: 255, G: 0, B: 0, A: 255}
	if c != want {
		t.Fatalf("got %+v, want %+v", c, want)
	}
}

func TestFromHSLAWrapsHue(t *testing.T) {
	a := colorutil.FromHSLA01(360, 1, 0.5, 1)
	b := colorutil.FromHSLA01(0, 1, 0.5, 1)
	if a != b {
		t.Fatalf("expected 360deg to wrap to 0deg: %+v vs %+v", a, b)
	}
}

func TestFromRGBA01Clamps(t *testing.T) {
	c := colorutil.FromRGBA01(-1, 2, 0.5, 1.5)
	if c.R != 0 || c.G != 255 || c.A != 255 {
		t.Fatalf("expected clamped channels, got %+v", c)
	}
}
