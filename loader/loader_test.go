package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReadsProgramAndSidecarMetadata(t *testing.T) {
	dir := t.TempDir()
	vgsPath := filepath.Join(dir, "scene.vgs")
	metaPath := filepath.Join(dir, "scene.meta.json")

	if err := os.WriteFile(vgsPath, []byte(`M 0 0 L 10 10 setcolor red stroke`), 0644); err != nil {
		t.Fatalf("WriteFile vgs: %v", err)
	}
	if err := os.WriteFile(metaPath, []byte(`{"speed": 2.5}`), 0644); err != nil {
		t.Fatalf("WriteFile meta: %v", err)
	}

	src, err := Load(vgsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.Program == nil || len(src.Program.Statements) == 0 {
		t.Fatal("expected a compiled program with statements")
	}
	if src.Metadata["speed"] != 2.5 {
		t.Errorf("Metadata[speed] = %v, want 2.5", src.Metadata["speed"])
	}
}

func TestLoadWithoutSidecarUsesEmptyMetadata(t *testing.T) {
	dir := t.TempDir()
	vgsPath := filepath.Join(dir, "plain.vgs")
	if err := os.WriteFile(vgsPath, []byte(`newpath`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := Load(vgsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(src.Metadata) != 0 {
		t.Errorf("Metadata = %v, want empty", src.Metadata)
	}
}

func TestLoadRejectsInvalidProgram(t *testing.T) {
	dir := t.TempDir()
	vgsPath := filepath.Join(dir, "broken.vgs")
	if err := os.WriteFile(vgsPath, []byte(`notaninstruction`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(vgsPath); err == nil {
		t.Fatal("expected a parse error for an unknown instruction")
	}
}

func TestLoadStringUsesProvidedMetadata(t *testing.T) {
	src, err := LoadString(`setvar x 1`, map[string]float64{"k": 1})
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if src.Metadata["k"] != 1 {
		t.Errorf("Metadata[k] = %v, want 1", src.Metadata["k"])
	}
}

func TestLoadStringNilMetadataBecomesEmptyMap(t *testing.T) {
	src, err := LoadString(`newpath`, nil)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if src.Metadata == nil {
		t.Fatal("expected a non-nil empty metadata map")
	}
}
