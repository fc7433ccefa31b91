package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/tessera/engine/geometry"
)

// Config holds every tunable of the ingestion pipeline. Zero values mean
// "not set" and are filled in by Resolve.
type Config struct {
	LogLevel string `toml:"log_level"`

	Paths   PathsConfig   `toml:"paths"`
	Mesh    MeshConfig    `toml:"mesh"`
	Compose ComposeConfig `toml:"compose"`
}

// PathsConfig locates the inputs and outputs of a run.
type PathsConfig struct {
	// Root is the directory relative surf paths resolve against.
	Root string `toml:"root"`
	// Deck is the scene description to compose.
	Deck string `toml:"deck"`
	// Output receives cleaned surf files and the scene manifest.
	Output string `toml:"output"`
}

// MeshConfig carries the per-file pipeline tunables.
type MeshConfig struct {
	VertexTolerance float64 `toml:"vertex_tolerance"`
	DegenerateArea  float64 `toml:"degenerate_area"`
	// FlipAxis holds x, y or z to mirror every mesh, empty for none.
	FlipAxis string `toml:"flip_axis"`
	// Compact rebuilds vertex pools without orphaned vertices.
	Compact        bool `toml:"compact"`
	StrictCount    bool `toml:"strict_count"`
	StrictTrailing bool `toml:"strict_trailing"`
}

// ComposeConfig controls scene assembly.
type ComposeConfig struct {
	Workers int  `toml:"workers"`
	Lenient bool `toml:"lenient"`
}

// Default returns the configuration a run with no config file gets.
func Default() Config {
	var cfg Config
	cfg.Resolve(Flags{})
	return cfg
}

// Load reads a TOML config file. Fields not set in the file keep their zero
// values until Resolve fills them.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Boolean
// flags only switch features on; switching off is done in the file.
type Flags struct {
	LogLevel string
	Root     string
	Deck     string
	Output   string
	FlipAxis string

	Workers int

	Lenient        bool
	Compact        bool
	StrictCount    bool
	StrictTrailing bool
}

// Resolve overlays CLI flags onto the config and fills any remaining empty
// fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Root != "" {
		c.Paths.Root = flags.Root
	}
	if flags.Deck != "" {
		c.Paths.Deck = flags.Deck
	}
	if flags.Output != "" {
		c.Paths.Output = flags.Output
	}
	if flags.FlipAxis != "" {
		c.Mesh.FlipAxis = flags.FlipAxis
	}
	if flags.Workers > 0 {
		c.Compose.Workers = flags.Workers
	}
	if flags.Lenient {
		c.Compose.Lenient = true
	}
	if flags.Compact {
		c.Mesh.Compact = true
	}
	if flags.StrictCount {
		c.Mesh.StrictCount = true
	}
	if flags.StrictTrailing {
		c.Mesh.StrictTrailing = true
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Paths.Root == "" {
		c.Paths.Root = "."
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "out"
	}
	if c.Mesh.VertexTolerance <= 0 {
		c.Mesh.VertexTolerance = geometry.DefaultVertexTolerance
	}
	if c.Mesh.DegenerateArea <= 0 {
		c.Mesh.DegenerateArea = geometry.DefaultDegenerateArea
	}
	if c.Compose.Workers <= 0 {
		c.Compose.Workers = runtime.NumCPU()
	}
}
