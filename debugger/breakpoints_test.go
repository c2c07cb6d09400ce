package debugger

import "testing"

func TestAddBreakpointThenGetBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint([]int{0, 1}, false, "")
	if bp.ID != 1 {
		t.Fatalf("ID = %d, want 1", bp.ID)
	}
	if got := bm.GetBreakpoint([]int{0, 1}); got == nil || got.ID != bp.ID {
		t.Fatalf("GetBreakpoint did not return the registered breakpoint")
	}
}

func TestAddBreakpointAtExistingPathUpdatesInPlace(t *testing.T) {
	bm := NewBreakpointManager()
	first := bm.AddBreakpoint([]int{2}, false, "")
	second := bm.AddBreakpoint([]int{2}, true, "i > 2")
	if first.ID != second.ID {
		t.Fatalf("expected re-adding at the same path to reuse id %d, got %d", first.ID, second.ID)
	}
	if !second.Temporary || second.Condition != "i > 2" {
		t.Fatalf("expected update in place, got %+v", second)
	}
}

func TestProcessHitRemovesTemporaryBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint([]int{1}, true, "")

	hit := bm.ProcessHit([]int{1})
	if hit == nil || hit.ID != bp.ID || hit.HitCount != 1 {
		t.Fatalf("ProcessHit = %+v, want a single hit on id %d", hit, bp.ID)
	}
	if bm.GetBreakpoint([]int{1}) != nil {
		t.Fatal("temporary breakpoint should be removed after its first hit")
	}
}

func TestProcessHitIgnoresDisabledBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint([]int{3}, false, "")
	if err := bm.SetEnabled(bp.ID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if hit := bm.ProcessHit([]int{3}); hit != nil {
		t.Fatalf("expected no hit on a disabled breakpoint, got %+v", hit)
	}
}

func TestDeleteBreakpointUnknownIDErrors(t *testing.T) {
	bm := NewBreakpointManager()
	if err := bm.DeleteBreakpoint(99); err == nil {
		t.Fatal("expected an error deleting an unknown breakpoint id")
	}
}

func TestClearRemovesAllBreakpoints(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint([]int{0}, false, "")
	bm.AddBreakpoint([]int{1}, false, "")
	bm.Clear()
	if bm.Count() != 0 {
		t.Fatalf("Count() after Clear = %d, want 0", bm.Count())
	}
}
