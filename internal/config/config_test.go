package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CardPrecision != 4 {
		t.Errorf("CardPrecision = %d, want 4", cfg.CardPrecision)
	}
	if cfg.XSSuffix != "80c" {
		t.Errorf("XSSuffix = %q, want 80c", cfg.XSSuffix)
	}
	if cfg.MatNumberStart != 1 {
		t.Errorf("MatNumberStart = %d, want 1", cfg.MatNumberStart)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `{"card_precision": 6, "xs_suffix": "70c", "allowed_paths": ["/tmp/decks"]}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CardPrecision != 6 {
		t.Errorf("CardPrecision = %d, want 6", cfg.CardPrecision)
	}
	if cfg.XSSuffix != "70c" {
		t.Errorf("XSSuffix = %q, want 70c", cfg.XSSuffix)
	}
	// Unset scalar falls back to default.
	if cfg.MatNumberStart != 1 {
		t.Errorf("MatNumberStart = %d, want 1", cfg.MatNumberStart)
	}
	if len(cfg.AllowedPaths) != 1 || cfg.AllowedPaths[0] != "/tmp/decks" {
		t.Errorf("AllowedPaths = %v", cfg.AllowedPaths)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{bad"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on malformed JSON")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.AllowedPaths = []string{"/a", "/b"}

	overlay := &Config{
		CardPrecision:    8,
		AllowUnsafePaths: true,
		AllowedPaths:     []string{"/b", "/c", "  "},
		DisabledTools:    []string{"material_purge"},
	}

	got := Merge(base, overlay)
	if got.CardPrecision != 8 {
		t.Errorf("CardPrecision = %d, want 8", got.CardPrecision)
	}
	if got.XSSuffix != "80c" {
		t.Errorf("XSSuffix = %q, want base default", got.XSSuffix)
	}
	if !got.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true")
	}
	if len(got.AllowedPaths) != 3 {
		t.Errorf("AllowedPaths = %v, want 3 deduplicated entries", got.AllowedPaths)
	}
	if len(got.DisabledTools) != 1 {
		t.Errorf("DisabledTools = %v", got.DisabledTools)
	}
}
