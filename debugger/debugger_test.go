package debugger

import (
	"testing"

	"github.com/drawvg/vgs/backend"
	"github.com/drawvg/vgs/interp"
	"github.com/drawvg/vgs/loader"
)

func newTestDebugger(t *testing.T, src string) (*Debugger, *backend.Recorder) {
	t.Helper()
	source, err := loader.LoadString(src, nil)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	rec := backend.NewRecorder()
	return New(source, rec, interp.FrameParams{}), rec
}

func TestStepAdvancesOneStatementAtATime(t *testing.T) {
	dbg, _ := newTestDebugger(t, `
setvar a 1
setvar b 2
setvar c 3
`)
	dbg.StartFrame()

	first, err, paused := dbg.Wait()
	if !paused || err != nil {
		t.Fatalf("initial pause: info=%+v err=%v paused=%v", first, err, paused)
	}
	if FormatPath(first.Path) != "0" {
		t.Fatalf("first path = %s, want 0", FormatPath(first.Path))
	}

	second, err, paused := dbg.Step()
	if !paused || err != nil {
		t.Fatalf("step: info=%+v err=%v paused=%v", second, err, paused)
	}
	if FormatPath(second.Path) != "1" {
		t.Fatalf("second path = %s, want 1", FormatPath(second.Path))
	}

	third, err, paused := dbg.Step()
	if !paused || err != nil {
		t.Fatalf("step: info=%+v err=%v paused=%v", third, err, paused)
	}
	if FormatPath(third.Path) != "2" {
		t.Fatalf("third path = %s, want 2", FormatPath(third.Path))
	}

	_, err, paused = dbg.Step()
	if paused {
		t.Fatal("expected the frame to finish after its last statement")
	}
	if err != nil {
		t.Fatalf("frame finished with error: %v", err)
	}
}

func TestContinueStopsAtBreakpoint(t *testing.T) {
	dbg, _ := newTestDebugger(t, `
setvar a 1
setvar b 2
setvar c 3
`)
	dbg.Breakpoints.AddBreakpoint([]int{2}, false, "")

	dbg.StartFrame()
	if _, err, paused := dbg.Wait(); !paused || err != nil {
		t.Fatalf("initial pause failed")
	}

	info, err, paused := dbg.Continue()
	if !paused || err != nil {
		t.Fatalf("continue: info=%+v err=%v paused=%v", info, err, paused)
	}
	if FormatPath(info.Path) != "2" {
		t.Fatalf("stopped at %s, want 2 (breakpoint)", FormatPath(info.Path))
	}
	if info.Reason != "breakpoint 1" {
		t.Fatalf("reason = %q, want breakpoint 1", info.Reason)
	}

	bp := dbg.Breakpoints.GetBreakpoint([]int{2})
	if bp == nil || bp.HitCount != 1 {
		t.Fatalf("breakpoint hit count not recorded: %+v", bp)
	}
}

func TestContinueStopsAtWatchpointOnValueChange(t *testing.T) {
	dbg, _ := newTestDebugger(t, `
setvar a 1
setvar a 2
setvar a 3
`)
	if _, err := dbg.Watchpoints.AddWatchpoint("a", dbg.VarNames()); err != nil {
		t.Fatalf("AddWatchpoint: %v", err)
	}

	dbg.StartFrame()
	if _, err, paused := dbg.Wait(); !paused || err != nil {
		t.Fatalf("initial pause failed")
	}

	info, err, paused := dbg.Continue()
	if !paused || err != nil {
		t.Fatalf("continue: info=%+v err=%v paused=%v", info, err, paused)
	}
	if FormatPath(info.Path) != "2" {
		t.Fatalf("stopped at %s, want 2 (value observed to change from 1 to 2 just before the third statement runs)", FormatPath(info.Path))
	}
}

func TestStepOverSkipsNestedStatementsAtGreaterDepth(t *testing.T) {
	dbg, _ := newTestDebugger(t, `
setvar k 0
repeat 3 {
  setvar k (k + 1)
}
setvar done 1
`)
	dbg.StartFrame()
	start, err, paused := dbg.Wait()
	if !paused || err != nil {
		t.Fatalf("initial pause failed")
	}

	repeatStart, err, paused := dbg.Step()
	if !paused || err != nil {
		t.Fatalf("step to repeat: err=%v", err)
	}
	if len(repeatStart.Path) != 1 {
		t.Fatalf("expected the repeat statement itself at depth 1, got path %v", repeatStart.Path)
	}

	over, err, paused := dbg.StepOver(repeatStart.Path)
	if !paused || err != nil {
		t.Fatalf("step over: info=%+v err=%v paused=%v", over, err, paused)
	}
	if len(over.Path) > len(repeatStart.Path) {
		t.Fatalf("step over should not stop inside the repeat body, stopped at %v (started at %v)", over.Path, repeatStart.Path)
	}
	_ = start
}
