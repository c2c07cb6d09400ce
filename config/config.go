// Package config loads and saves the TOML configuration shared by
// cmd/vgsrun, cmd/vgspreview, the debugger, and the api server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration document.
type Config struct {
	Render struct {
		Width    int     `toml:"width"`
		Height   int     `toml:"height"`
		FPS      int     `toml:"fps"`
		Frames   int     `toml:"frames"`
		Seed     uint64  `toml:"seed"`
		Duration float64 `toml:"duration"`
	} `toml:"render"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowSource    bool `toml:"show_source"`
		ShowVariables bool `toml:"show_variables"`
	} `toml:"debugger"`

	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		NumberFormat string `toml:"number_format"` // "dec" or "sci"
	} `toml:"display"`

	Server struct {
		ListenAddr      string `toml:"listen_addr"`
		MaxSessions     int    `toml:"max_sessions"`
		FrameBufferSize int    `toml:"frame_buffer_size"`
	} `toml:"server"`
}

// DefaultConfig returns a Config populated with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Render.Width = 512
	cfg.Render.Height = 512
	cfg.Render.FPS = 30
	cfg.Render.Frames = 90
	cfg.Render.Seed = 1
	cfg.Render.Duration = 3.0

	cfg.Debugger.HistorySize = 500
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowVariables = true

	cfg.Display.ColorOutput = true
	cfg.Display.NumberFormat = "dec"

	cfg.Server.ListenAddr = ":8089"
	cfg.Server.MaxSessions = 32
	cfg.Server.FrameBufferSize = 8

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "vgs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "vgs")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads configuration from the default path, falling back to
// DefaultConfig() silently if no file exists yet.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads configuration from path, layering it over the
// defaults (fields absent from the TOML document keep their default).
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes c to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c to path, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
