package api

import "time"

// SessionCreateRequest is the body of POST /sessions: the full program
// source plus an optional metadata sidecar and the render parameters
// every frame of this session is rendered with.
type SessionCreateRequest struct {
	Source   string             `json:"source"`
	Metadata map[string]float64 `json:"metadata,omitempty"`
	Width    int                `json:"width,omitempty"`
	Height   int                `json:"height,omitempty"`
	Frames   int                `json:"frames,omitempty"`
	Duration float64            `json:"duration,omitempty"`
	Seed     uint64             `json:"seed,omitempty"`
}

// SessionCreateResponse is returned from a successful POST /sessions.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	Frames    int       `json:"frames"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
}

// SessionStatusResponse is returned from GET /sessions/{id}.
type SessionStatusResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	Frames    int       `json:"frames"`
}

// ErrorResponse is the JSON body written on any handler failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
