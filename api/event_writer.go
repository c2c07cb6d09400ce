package api

import "sync"

// EventWriter forwards newly appended interp.Interpreter print-buffer
// lines to a Broadcaster's subscribed WebSocket clients. Unlike the
// teacher's io.Writer-based EventEmittingWriter, VGS's print statement
// appends to an in-memory slice (interp.Interpreter.PrintBuffer) rather
// than a stdout stream, so this tracks how much of that slice has
// already been published instead of wrapping a Write call.
type EventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	mu          sync.Mutex
	published   int
}

// NewEventWriter returns an EventWriter that broadcasts print lines for
// sessionID through broadcaster.
func NewEventWriter(broadcaster *Broadcaster, sessionID string) *EventWriter {
	return &EventWriter{broadcaster: broadcaster, sessionID: sessionID}
}

// PublishNew broadcasts any lines in buffer appended since the last
// call, and remembers how many lines it has now seen. Call this once
// per rendered frame with the session's current PrintBuffer.
func (w *EventWriter) PublishNew(buffer []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.published > len(buffer) {
		// the bounded print buffer trimmed its head; resync rather than
		// replay lines that no longer exist at these indices.
		w.published = 0
	}
	for _, line := range buffer[w.published:] {
		if w.broadcaster != nil {
			w.broadcaster.BroadcastPrint(w.sessionID, line)
		}
	}
	w.published = len(buffer)
}
