package debugger

import "testing"

type fakeHost struct{}

func (fakeHost) CallHost(name string, args []float64) float64 { return 0 }

func TestWatchpointFirstCheckRecordsBaselineWithoutFiring(t *testing.T) {
	wm := NewWatchpointManager()
	if _, err := wm.AddWatchpoint("x", []string{"x"}); err != nil {
		t.Fatalf("AddWatchpoint: %v", err)
	}

	_, changed := wm.CheckWatchpoints([]float64{5}, fakeHost{})
	if changed {
		t.Fatal("first check should only establish a baseline, not fire")
	}
}

func TestWatchpointFiresOnValueChange(t *testing.T) {
	wm := NewWatchpointManager()
	wp, err := wm.AddWatchpoint("x", []string{"x"})
	if err != nil {
		t.Fatalf("AddWatchpoint: %v", err)
	}

	wm.CheckWatchpoints([]float64{5}, fakeHost{})
	fired, changed := wm.CheckWatchpoints([]float64{6}, fakeHost{})
	if !changed || fired == nil || fired.ID != wp.ID {
		t.Fatalf("expected watchpoint %d to fire on value change, got changed=%v fired=%+v", wp.ID, changed, fired)
	}
	if fired.HitCount != 1 {
		t.Errorf("HitCount = %d, want 1", fired.HitCount)
	}
}

func TestDisabledWatchpointNeverFires(t *testing.T) {
	wm := NewWatchpointManager()
	wp, _ := wm.AddWatchpoint("x", []string{"x"})
	if err := wm.SetEnabled(wp.ID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	wm.CheckWatchpoints([]float64{1}, fakeHost{})
	_, changed := wm.CheckWatchpoints([]float64{2}, fakeHost{})
	if changed {
		t.Fatal("disabled watchpoint should never fire")
	}
}

func TestAddWatchpointRejectsUnknownVariable(t *testing.T) {
	wm := NewWatchpointManager()
	if _, err := wm.AddWatchpoint("notavar", []string{"x"}); err == nil {
		t.Fatal("expected an error compiling a watch expression referencing an unknown variable")
	}
}
