package debugger

import "testing"

func TestHistoryAddThenPreviousReturnsLastCommand(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Add("continue")
	if got := h.Previous(); got != "continue" {
		t.Fatalf("Previous() = %q, want %q", got, "continue")
	}
	if got := h.Previous(); got != "step" {
		t.Fatalf("Previous() = %q, want %q", got, "step")
	}
	if got := h.Previous(); got != "" {
		t.Fatalf("Previous() at start = %q, want empty", got)
	}
}

func TestHistoryRepeatedCommandIsCoalesced(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Add("step")
	if h.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 after repeating the same command", h.Size())
	}
}

func TestHistoryNextAfterPreviousReturnsToNewer(t *testing.T) {
	h := NewCommandHistory()
	h.Add("break 0.1")
	h.Add("watch x")
	h.Previous()
	h.Previous()
	if got := h.Next(); got != "watch x" {
		t.Fatalf("Next() = %q, want %q", got, "watch x")
	}
}

func TestHistoryGetLastAndGetAll(t *testing.T) {
	h := NewCommandHistory()
	h.Add("vars")
	h.Add("info breakpoints")
	if got := h.GetLast(); got != "info breakpoints" {
		t.Fatalf("GetLast() = %q, want %q", got, "info breakpoints")
	}
	all := h.GetAll()
	if len(all) != 2 || all[0] != "vars" || all[1] != "info breakpoints" {
		t.Fatalf("GetAll() = %v", all)
	}
}

func TestHistoryClearResetsSizeAndPosition(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Clear()
	if h.Size() != 0 {
		t.Fatalf("Size() after Clear = %d, want 0", h.Size())
	}
	if got := h.Previous(); got != "" {
		t.Fatalf("Previous() after Clear = %q, want empty", got)
	}
}

func TestHistorySearchMatchesPrefix(t *testing.T) {
	h := NewCommandHistory()
	h.Add("break 0.1")
	h.Add("break 0.2")
	h.Add("watch x")
	results := h.Search("break")
	if len(results) != 2 {
		t.Fatalf("Search(\"break\") = %v, want 2 matches", results)
	}
}
