package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DataDir != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
	if !cfg.AnonymousCanSearch() {
		t.Error("anonymous search should default to true")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magpie", "config.toml")

	allow := false
	want := &Config{
		DataDir: "/tmp/magpie-data",
		Policy:  PolicyConfig{AnonymousCanSearch: &allow},
		UI:      UIConfig{Accent: "#A78BFA", CodeTheme: "dracula"},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.DataDir != want.DataDir {
		t.Errorf("DataDir = %q", got.DataDir)
	}
	if got.AnonymousCanSearch() {
		t.Error("anonymous search should be disabled")
	}
	if got.UI.Accent != "#A78BFA" || got.UI.CodeTheme != "dracula" {
		t.Errorf("UI = %+v", got.UI)
	}
}

func TestLoadFromInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("data_dir = [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv("MAGPIE_CONFIG", "/custom/path.toml")
	if got := DefaultPath(); got != "/custom/path.toml" {
		t.Errorf("DefaultPath = %q", got)
	}
}
