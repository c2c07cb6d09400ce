package api

import (
	"os"
	"sync"
	"time"
)

// ProcessMonitor watches the parent process and triggers shutdown when
// it dies, so a vgs server launched as a child of the debugger GUI or
// vgspreview doesn't linger after its parent is force-quit.
type ProcessMonitor struct {
	parentPID     int
	checkInterval time.Duration
	shutdownFunc  func()
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewProcessMonitor captures the current parent PID and returns a
// monitor that calls shutdownFunc once that PID changes.
func NewProcessMonitor(shutdownFunc func()) *ProcessMonitor {
	return &ProcessMonitor{
		parentPID:     os.Getppid(),
		checkInterval: 2 * time.Second,
		shutdownFunc:  shutdownFunc,
		stopChan:      make(chan struct{}),
	}
}

// Start begins monitoring in a background goroutine.
func (pm *ProcessMonitor) Start() {
	go pm.monitorLoop()
}

// Stop ends monitoring. Safe to call more than once.
func (pm *ProcessMonitor) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
	})
}

func (pm *ProcessMonitor) monitorLoop() {
	ticker := time.NewTicker(pm.checkInterval)
	defer ticker.Stop()

	debugLog("process monitor started (parent pid %d)", pm.parentPID)

	for {
		select {
		case <-ticker.C:
			if ppid := os.Getppid(); ppid != pm.parentPID {
				debugLog("parent process died (pid %d -> %d), shutting down", pm.parentPID, ppid)
				pm.shutdownFunc()
				return
			}
		case <-pm.stopChan:
			debugLog("process monitor stopped")
			return
		}
	}
}
