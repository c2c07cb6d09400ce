package main

import (
	"testing"

	"github.com/drawvg/vgs/config"
)

func TestResolveParamsFallsBackToConfigDefaultsWhenZero(t *testing.T) {
	cfg := config.DefaultConfig()
	w, h, frames, duration, seed := resolveParams(cfg, 0, 0, 0, 0, 0)
	if w != cfg.Render.Width || h != cfg.Render.Height {
		t.Errorf("dimensions = %dx%d, want %dx%d", w, h, cfg.Render.Width, cfg.Render.Height)
	}
	if frames != cfg.Render.Frames {
		t.Errorf("frames = %d, want %d", frames, cfg.Render.Frames)
	}
	if duration != cfg.Render.Duration {
		t.Errorf("duration = %g, want %g", duration, cfg.Render.Duration)
	}
	if seed != cfg.Render.Seed {
		t.Errorf("seed = %d, want %d", seed, cfg.Render.Seed)
	}
}

func TestResolveParamsPrefersExplicitFlagsOverConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	w, h, frames, duration, seed := resolveParams(cfg, 800, 600, 12, 2.5, 99)
	if w != 800 || h != 600 || frames != 12 || duration != 2.5 || seed != 99 {
		t.Errorf("resolveParams did not prefer explicit flags: got %d %d %d %g %d", w, h, frames, duration, seed)
	}
}

func TestPortFromListenAddrParsesPort(t *testing.T) {
	if got := portFromListenAddr(":8089"); got != 8089 {
		t.Errorf("portFromListenAddr(\":8089\") = %d, want 8089", got)
	}
}

func TestPortFromListenAddrFallsBackOnUnparseableAddr(t *testing.T) {
	if got := portFromListenAddr("not-an-addr"); got != 8089 {
		t.Errorf("portFromListenAddr(\"not-an-addr\") = %d, want fallback 8089", got)
	}
}
