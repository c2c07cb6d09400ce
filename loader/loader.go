// Package loader reads a .vgs source file and its optional metadata
// sidecar into a compiled program ready for interp.Interpreter.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/drawvg/vgs/parser"
)

// Source is a compiled program plus the metadata dictionary its
// getmetadata statements read from, loaded together from disk.
type Source struct {
	Path     string
	Program  *parser.Program
	Metadata map[string]float64
}

// Load reads the .vgs file at path, compiles it, and loads a sibling
// "<name>.meta.json" file if one exists (silently using an empty
// metadata map otherwise).
func Load(path string) (*Source, error) {
	text, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied program file
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	prog, err := parser.Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}

	metadata, err := loadMetadata(metadataPath(path))
	if err != nil {
		return nil, fmt.Errorf("loader: metadata for %s: %w", path, err)
	}

	return &Source{Path: path, Program: prog, Metadata: metadata}, nil
}

// LoadString compiles src directly, with an explicit metadata map
// (possibly nil) instead of reading a sidecar file — used by callers
// that already have the source text in memory (the api package's
// POST /sessions handler, tests).
func LoadString(src string, metadata map[string]float64) (*Source, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("loader: parse: %w", err)
	}
	if metadata == nil {
		metadata = map[string]float64{}
	}
	return &Source{Program: prog, Metadata: metadata}, nil
}

func metadataPath(path string) string {
	if strings.HasSuffix(path, ".vgs") {
		return strings.TrimSuffix(path, ".vgs") + ".meta.json"
	}
	return path + ".meta.json"
}

func loadMetadata(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- derived from an operator-supplied program path
	if os.IsNotExist(err) {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, err
	}

	var metadata map[string]float64
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata JSON: %w", err)
	}
	return metadata, nil
}
