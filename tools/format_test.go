package tools

import (
	"strings"
	"testing"

	"github.com/drawvg/vgs/parser"
)

func TestFormatStringContainsEveryStatementName(t *testing.T) {
	src := `M 0 0 L 10 0 L 10 10 Z setcolor red fill`
	out, err := FormatString(src)
	if err != nil {
		t.Fatalf("FormatString: %v", err)
	}
	for _, name := range []string{"M", "L", "Z", "setcolor", "fill"} {
		if !strings.Contains(out, name) {
			t.Errorf("formatted output missing %q:\n%s", name, out)
		}
	}
}

func TestFormatStringRoundTripsParseable(t *testing.T) {
	srcs := []string{
		`M 0 0 L 10 0 L 10 10 Z setcolor red fill`,
		`setvar total 0
repeat 3 {
  setvar total (total + i)
}`,
		`proc square {
  M 0 0 L 10 0 L 10 10 L 0 10 Z fill
}
call square`,
		`if (n > 0) {
  setcolor blue
} `,
`defrgba c1 1 0 0 1
setcolor c1`,
	}
	for _, src := range srcs {
		out, err := FormatString(src)
		if err != nil {
			t.Fatalf("FormatString(%q): %v", src, err)
		}
		if _, err := parser.Parse(out); err != nil {
			t.Fatalf("formatted output does not re-parse: %v\ninput:\n%s\noutput:\n%s", err, src, out)
		}
	}
}

func TestFormatCompactStyleProducesOneLinePerTopLevelBlock(t *testing.T) {
	src := `repeat 2 {
  setvar x 1
}`
	out, err := FormatStringWithStyle(src, FormatCompact)
	if err != nil {
		t.Fatalf("FormatStringWithStyle: %v", err)
	}
	if strings.Count(strings.TrimRight(out, "\n"), "\n") != 0 {
		t.Errorf("expected a single line in compact style, got:\n%s", out)
	}
}

func TestFormatColorRendersHexForNonOpaqueAlpha(t *testing.T) {
	src := `setcolor #0a141e80`
	out, err := FormatString(src)
	if err != nil {
		t.Fatalf("FormatString: %v", err)
	}
	if !strings.Contains(out, "#0a141e80") {
		t.Errorf("expected the 8-digit hex literal to round-trip unchanged, got:\n%s", out)
	}
}

func TestFormatExpandedStyleInsertsBlankLinesBetweenTopLevelStatements(t *testing.T) {
	src := `setvar a 1
setvar b 2`
	out, err := FormatStringWithStyle(src, FormatExpanded)
	if err != nil {
		t.Fatalf("FormatStringWithStyle: %v", err)
	}
	if !strings.Contains(out, "\n\n") {
		t.Errorf("expected a blank line between top-level statements, got:\n%s", out)
	}
}
