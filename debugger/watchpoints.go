package debugger

import (
	"fmt"
	"sync"

	"github.com/drawvg/vgs/expr"
)

// Watchpoint monitors one numeric expression, breaking whenever its
// value differs from the last time it was checked. VGS has no memory
// to watch reads/writes against, so unlike the teacher's register/
// memory watchpoints this always observes a value-change: the
// expression is re-evaluated every step and compared to LastValue.
type Watchpoint struct {
	ID         int
	Expression string
	compiled   *expr.Expr
	Enabled    bool
	HasValue   bool
	LastValue  float64
	HitCount   int
}

// WatchpointManager manages all watchpoints.
type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

// NewWatchpointManager returns an empty WatchpointManager.
func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{
		watchpoints: make(map[int]*Watchpoint),
		nextID:      1,
	}
}

// AddWatchpoint compiles expression against varNames and registers a
// watchpoint for it.
func (wm *WatchpointManager) AddWatchpoint(expression string, varNames []string) (*Watchpoint, error) {
	compiled, err := expr.Compile(expression, varNames)
	if err != nil {
		return nil, fmt.Errorf("watch expression %q: %w", expression, err)
	}

	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp := &Watchpoint{
		ID:         wm.nextID,
		Expression: expression,
		compiled:   compiled,
		Enabled:    true,
	}
	wm.watchpoints[wp.ID] = wp
	wm.nextID++
	return wp, nil
}

// DeleteWatchpoint removes a watchpoint by ID.
func (wm *WatchpointManager) DeleteWatchpoint(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(wm.watchpoints, id)
	return nil
}

// SetEnabled enables or disables a watchpoint by ID.
func (wm *WatchpointManager) SetEnabled(id int, enabled bool) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	wp.Enabled = enabled
	return nil
}

// GetAllWatchpoints returns every registered watchpoint.
func (wm *WatchpointManager) GetAllWatchpoints() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	result := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		result = append(result, wp)
	}
	return result
}

// Clear removes every watchpoint.
func (wm *WatchpointManager) Clear() {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.watchpoints = make(map[int]*Watchpoint)
}

// Count reports how many watchpoints are registered.
func (wm *WatchpointManager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.watchpoints)
}

// CheckWatchpoints re-evaluates every enabled watchpoint against vars
// and returns the first whose value changed since the last check.
func (wm *WatchpointManager) CheckWatchpoints(vars []float64, host expr.HostContext) (*Watchpoint, bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for _, wp := range wm.watchpoints {
		if !wp.Enabled {
			continue
		}
		value := wp.compiled.Eval(vars, host)
		if !wp.HasValue {
			wp.HasValue = true
			wp.LastValue = value
			continue
		}
		if value != wp.LastValue {
			wp.HitCount++
			wp.LastValue = value
			return wp, true
		}
	}
	return nil, false
}
