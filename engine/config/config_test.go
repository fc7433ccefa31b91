package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/tessera/engine/geometry"
)

func TestLoadConfig(t *testing.T) {
	content := `log_level = "debug"

[paths]
root = "assets"
deck = "assets/in.demo"
output = "cleaned"

[mesh]
vertex_tolerance = 1e-9
flip_axis = "y"
strict_count = true

[compose]
workers = 3
lenient = true
`
	path := filepath.Join(t.TempDir(), "tessera.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q; want debug", cfg.LogLevel)
	}
	if cfg.Paths.Root != "assets" || cfg.Paths.Deck != "assets/in.demo" {
		t.Fatalf("paths = %+v; want assets root and deck", cfg.Paths)
	}
	if cfg.Mesh.VertexTolerance != 1e-9 || cfg.Mesh.FlipAxis != "y" || !cfg.Mesh.StrictCount {
		t.Fatalf("mesh = %+v; want tolerance 1e-9, flip y, strict count", cfg.Mesh)
	}
	if cfg.Compose.Workers != 3 || !cfg.Compose.Lenient {
		t.Fatalf("compose = %+v; want 3 lenient workers", cfg.Compose)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("log_level = \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded on invalid TOML")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q; want info", cfg.LogLevel)
	}
	if cfg.Paths.Root != "." || cfg.Paths.Output != "out" {
		t.Fatalf("paths = %+v; want root . and output out", cfg.Paths)
	}
	if cfg.Mesh.VertexTolerance != geometry.DefaultVertexTolerance {
		t.Fatalf("VertexTolerance = %g; want %g", cfg.Mesh.VertexTolerance, geometry.DefaultVertexTolerance)
	}
	if cfg.Mesh.DegenerateArea != geometry.DefaultDegenerateArea {
		t.Fatalf("DegenerateArea = %g; want %g", cfg.Mesh.DegenerateArea, geometry.DefaultDegenerateArea)
	}
	if cfg.Compose.Workers < 1 {
		t.Fatalf("Workers = %d; want at least 1", cfg.Compose.Workers)
	}
}

func TestResolveFlagOverrides(t *testing.T) {
	cfg := Config{}
	cfg.Paths.Root = "from-file"
	cfg.Compose.Workers = 2

	cfg.Resolve(Flags{Root: "from-flag", Workers: 8, Lenient: true, FlipAxis: "z"})

	if cfg.Paths.Root != "from-flag" {
		t.Fatalf("Root = %q; flag should override the file", cfg.Paths.Root)
	}
	if cfg.Compose.Workers != 8 {
		t.Fatalf("Workers = %d; want 8", cfg.Compose.Workers)
	}
	if !cfg.Compose.Lenient || cfg.Mesh.FlipAxis != "z" {
		t.Fatalf("config = %+v; want lenient with z flip", cfg)
	}
}
