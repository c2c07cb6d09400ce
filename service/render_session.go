// Package service wraps a compiled VGS program behind a thread-safe
// RenderFrame call shared by the api and debugger packages, so neither
// has to know how to construct an interp.Interpreter or a
// backend.SoftwareSurface itself.
package service

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/drawvg/vgs/backend"
	"github.com/drawvg/vgs/interp"
	"github.com/drawvg/vgs/loader"
)

var serviceLog *log.Logger

func init() {
	if os.Getenv("VGS_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "vgs-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			serviceLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			serviceLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		serviceLog = log.New(io.Discard, "", 0)
	}
}

// Params controls how RenderSession maps a frame index onto the fixed
// interpreter variables n, t, w, h and duration.
type Params struct {
	Width, Height int
	Frames        int
	Duration      float64
	Seed          uint64
}

// RenderSession bundles a compiled program with the render parameters
// and interpreter needed to produce any one of its frames as an image,
// reused across many RenderFrame calls (one interp.Interpreter per
// session, since it pre-indexes procedure definitions once).
type RenderSession struct {
	mu     sync.Mutex
	source *loader.Source
	params Params
	interp *interp.Interpreter
}

// New builds a RenderSession for src, ready to render any frame index.
func New(src *loader.Source, params Params) *RenderSession {
	return &RenderSession{
		source: src,
		params: params,
		interp: interp.New(src.Program, src.Metadata),
	}
}

// RenderFrame interprets the program for frame n and returns the
// resulting raster image. Safe for concurrent use; frames render one
// at a time since interp.Interpreter keeps per-session mutable state.
func (s *RenderSession) RenderFrame(n int) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surface := backend.NewSoftwareSurface(s.params.Width, s.params.Height)

	fp := s.frameParams(n)
	serviceLog.Printf("rendering frame %d (t=%g)", n, fp.T)

	if err := s.interp.RunFrame(surface, fp); err != nil {
		return nil, fmt.Errorf("service: render frame %d: %w", n, err)
	}
	return surface.Image(), nil
}

// FrameCount reports the total number of frames this session was
// configured to render.
func (s *RenderSession) FrameCount() int {
	return s.params.Frames
}

// PrintBuffer returns a copy of the interpreter's print-statement
// output accumulated across every frame rendered so far, oldest line
// first, holding at most the interpreter's last 256 lines.
func (s *RenderSession) PrintBuffer() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.interp.PrintBuffer...)
}

func (s *RenderSession) frameParams(n int) interp.FrameParams {
	denom := s.params.Frames - 1
	if denom < 1 {
		denom = 1
	}
	return interp.FrameParams{
		N:        float64(n),
		T:        float64(n) / float64(denom),
		W:        float64(s.params.Width),
		H:        float64(s.params.Height),
		Duration: s.params.Duration,
		Seed:     s.params.Seed,
	}
}
