// Command vgspreview is an interactive desktop viewer for a VGS
// program: it renders the program's frame sequence in a loop and lets
// the operator scrub, pause, and step through frames with the
// keyboard.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/drawvg/vgs/config"
	"github.com/drawvg/vgs/loader"
	"github.com/drawvg/vgs/service"
)

// game holds the render session and the small amount of playback
// state a desktop viewer needs: which frame is showing, whether
// playback is paused, and the ebiten.Image cache for the current
// frame (rebuilt only when the frame index changes).
type game struct {
	session *service.RenderSession

	frame       int
	paused      bool
	tickEvery   time.Duration
	lastAdvance time.Time

	cached      *ebiten.Image
	cachedFrame int
}

func newGame(session *service.RenderSession, fps int) *game {
	if fps <= 0 {
		fps = 30
	}
	return &game{
		session:     session,
		tickEvery:   time.Second / time.Duration(fps),
		lastAdvance: time.Now(),
		cachedFrame: -1,
	}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.frame = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.advance(1)
		g.paused = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.advance(-1)
		g.paused = true
	}

	if !g.paused && time.Since(g.lastAdvance) >= g.tickEvery {
		g.advance(1)
		g.lastAdvance = time.Now()
	}

	return nil
}

func (g *game) advance(delta int) {
	count := g.session.FrameCount()
	if count <= 0 {
		return
	}
	g.frame = ((g.frame+delta)%count + count) % count
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cached == nil || g.cachedFrame != g.frame {
		img, err := g.session.RenderFrame(g.frame)
		if err != nil {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("render error: %v", err), 8, 8)
			return
		}
		g.cached = ebiten.NewImageFromImage(img)
		g.cachedFrame = g.frame
	}

	op := &ebiten.DrawImageOptions{}
	screen.DrawImage(g.cached, op)

	status := fmt.Sprintf("frame %d/%d  space=pause  R=restart  ←/→=step", g.frame+1, g.session.FrameCount())
	if g.paused {
		status += "  [paused]"
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	img, err := g.session.RenderFrame(g.frame)
	if err != nil {
		return outsideWidth, outsideHeight
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func main() {
	var (
		width    = flag.Int("width", 0, "frame width in pixels (0 uses the configured default)")
		height   = flag.Int("height", 0, "frame height in pixels (0 uses the configured default)")
		frames   = flag.Int("frames", 0, "number of frames in the loop (0 uses the configured default)")
		fps      = flag.Int("fps", 0, "playback frame rate (0 uses the configured default)")
		duration = flag.Float64("duration", 0, "animation duration in seconds (0 uses the configured default)")
		seed     = flag.Uint64("seed", 0, "seed stored in the render parameters; randomg seeds itself from its own argument and does not read it (0 uses the configured default)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: vgspreview [flags] <source.vgs>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if *width == 0 {
		*width = cfg.Render.Width
	}
	if *height == 0 {
		*height = cfg.Render.Height
	}
	if *frames == 0 {
		*frames = cfg.Render.Frames
	}
	if *fps == 0 {
		*fps = cfg.Render.FPS
	}
	if *duration == 0 {
		*duration = cfg.Render.Duration
	}
	if *seed == 0 {
		*seed = cfg.Render.Seed
	}

	source, err := loader.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("parse error:\n%v", err)
	}

	session := service.New(source, service.Params{
		Width: *width, Height: *height,
		Frames: *frames, Duration: *duration, Seed: *seed,
	})

	g := newGame(session, *fps)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("vgspreview - " + flag.Arg(0))

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
