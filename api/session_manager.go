package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drawvg/vgs/loader"
	"github.com/drawvg/vgs/service"
)

var (
	// ErrSessionNotFound is returned when a session ID has no match.
	ErrSessionNotFound = errors.New("session not found")
)

// Session is one compiled program bound to a render session and an
// event writer that republishes its print-buffer lines.
type Session struct {
	ID        string
	Render    *service.RenderSession
	Source    *loader.Source
	Events    *EventWriter
	CreatedAt time.Time
}

// SessionManager owns every live Session, keyed by a uuid string.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	broadcaster *Broadcaster
}

// NewSessionManager returns an empty SessionManager that broadcasts
// frame and print events through broadcaster (nil disables broadcasting).
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession compiles req.Source and registers a new Session under
// a fresh uuid.
func (sm *SessionManager) CreateSession(req SessionCreateRequest) (*Session, error) {
	src, err := loader.LoadString(req.Source, req.Metadata)
	if err != nil {
		return nil, err
	}

	width, height, frames, duration := req.Width, req.Height, req.Frames, req.Duration
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 512
	}
	if frames <= 0 {
		frames = 90
	}
	if duration <= 0 {
		duration = 3
	}

	id := uuid.NewString()
	session := &Session{
		ID: id,
		Render: service.New(src, service.Params{
			Width: width, Height: height, Frames: frames,
			Duration: duration, Seed: req.Seed,
		}),
		Source:    src,
		Events:    NewEventWriter(sm.broadcaster, id),
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[id] = session
	debugLog("session %s created (%dx%d, %d frames)", id, width, height, frames)
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// Count reports the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
