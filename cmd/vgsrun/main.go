// Command vgsrun is the batch entry point for VGS: it renders a
// program's frames to a PNG sequence, or runs it through one of the
// source-level tools (format/lint/xref), the statement debugger, or
// the api HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/drawvg/vgs/api"
	"github.com/drawvg/vgs/backend"
	"github.com/drawvg/vgs/config"
	"github.com/drawvg/vgs/debugger"
	"github.com/drawvg/vgs/interp"
	"github.com/drawvg/vgs/loader"
	"github.com/drawvg/vgs/service"
	"github.com/drawvg/vgs/tools"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")

		apiServer = flag.Bool("api-server", false, "start the HTTP API server instead of rendering a file")
		apiPort   = flag.Int("port", 0, "API server port (0 uses the configured default)")

		width    = flag.Int("width", 0, "frame width in pixels (0 uses the configured default)")
		height   = flag.Int("height", 0, "frame height in pixels (0 uses the configured default)")
		frames   = flag.Int("frames", 0, "number of frames to render (0 uses the configured default)")
		duration = flag.Float64("duration", 0, "animation duration in seconds (0 uses the configured default)")
		seed     = flag.Uint64("seed", 0, "seed stored in the render parameters; randomg seeds itself from its own argument and does not read it (0 uses the configured default)")
		outDir   = flag.String("out", "out", "output directory for the rendered PNG sequence")

		format  = flag.Bool("format", false, "print the canonically formatted source and exit")
		lint    = flag.Bool("lint", false, "run lint checks and exit non-zero if any issue is found")
		xref    = flag.Bool("xref", false, "print a procedure/variable cross-reference report and exit")
		debug   = flag.Bool("debug", false, "start the statement debugger instead of rendering")
		tuiMode = flag.Bool("tui", true, "use the TUI debugger frontend (vs. the Fyne GUI) with -debug")

		verbose = flag.Bool("verbose", false, "verbose output")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("vgs %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		port := *apiPort
		if port == 0 {
			port = portFromListenAddr(cfg.Server.ListenAddr)
		}
		runAPIServer(port)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	path := flag.Arg(0)
	src, err := os.ReadFile(path) // #nosec G304 -- operator-provided path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	if *format {
		out, err := tools.FormatString(string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "format error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	if *lint {
		issues := tools.LintString(string(src))
		for _, issue := range issues {
			fmt.Println(issue.String())
		}
		if len(issues) > 0 {
			os.Exit(1)
		}
		return
	}

	if *xref {
		report, err := tools.GenerateXRef(string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "xref error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(report)
		return
	}

	source, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error:\n%v\n", err)
		os.Exit(1)
	}

	renderWidth, renderHeight, renderFrames, renderDuration, renderSeed := resolveParams(cfg, *width, *height, *frames, *duration, *seed)

	if *debug {
		surface := backend.NewSoftwareSurface(renderWidth, renderHeight)
		fp := interp.FrameParams{
			N: 0, T: 0,
			W: float64(renderWidth), H: float64(renderHeight),
			Duration: renderDuration,
			Seed:     renderSeed,
		}
		dbg := debugger.New(source, surface, fp)
		if *tuiMode {
			runTUIDebugger(dbg)
		} else if err := debugger.RunGUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "debugger error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := os.MkdirAll(*outDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	session := service.New(source, service.Params{
		Width: renderWidth, Height: renderHeight,
		Frames: renderFrames, Duration: renderDuration, Seed: renderSeed,
	})

	if *verbose {
		fmt.Printf("rendering %d frame(s) at %dx%d to %s\n", renderFrames, renderWidth, renderHeight, *outDir)
	}

	for n := 0; n < renderFrames; n++ {
		img, err := session.RenderFrame(n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error rendering frame %d: %v\n", n, err)
			os.Exit(1)
		}
		framePath := filepath.Join(*outDir, fmt.Sprintf("frame_%04d.png", n))
		if err := writePNG(framePath, img); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", framePath, err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("wrote %s\n", framePath)
		}
	}

	for _, line := range session.PrintBuffer() {
		fmt.Println(line)
	}
}

func runTUIDebugger(dbg *debugger.Debugger) {
	t := debugger.NewTUI(dbg)
	if err := t.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "debugger error: %v\n", err)
		os.Exit(1)
	}
}

func resolveParams(cfg *config.Config, width, height, frames int, duration float64, seed uint64) (int, int, int, float64, uint64) {
	if width == 0 {
		width = cfg.Render.Width
	}
	if height == 0 {
		height = cfg.Render.Height
	}
	if frames == 0 {
		frames = cfg.Render.Frames
	}
	if duration == 0 {
		duration = cfg.Render.Duration
	}
	if seed == 0 {
		seed = cfg.Render.Seed
	}
	return width, height, frames, duration, seed
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) // #nosec G304 -- operator-controlled output directory
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nshutting down API server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func portFromListenAddr(addr string) int {
	var port int
	if _, err := fmt.Sscanf(addr, ":%d", &port); err != nil {
		return 8089
	}
	return port
}

func printHelp() {
	fmt.Println(`vgs - a small 2D procedural animation language

Usage:
  vgsrun [flags] <source.vgs>
  vgsrun -api-server [-port N]

Flags:`)
	flag.PrintDefaults()
}
