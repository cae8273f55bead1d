package primegl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/primegl/sieve"
	"github.com/gogpu/primegl/surface"
)

// Defaults.
const (
	// DefaultMaxBound is the largest sieve bound accepted by default.
	DefaultMaxBound = 100_000_000

	// MaxBoundCeiling is the largest MaxBound a config may set. Its
	// scratch buffer is 4 GiB.
	MaxBoundCeiling = 1 << 36

	// DefaultScratchLimit caps sieve scratch memory (bytes).
	DefaultScratchLimit = sieve.DefaultLimit

	// DefaultSurfaceID names the surface created when none are configured.
	DefaultSurfaceID = "gl-canvas"

	// DefaultSurfaceWidth and DefaultSurfaceHeight size the default surface.
	DefaultSurfaceWidth  = 640
	DefaultSurfaceHeight = 400
)

// Config configures an engine.
type Config struct {
	// MaxBound is the largest bound ComputePrimes accepts.
	MaxBound int `toml:"max_bound" yaml:"max_bound"`

	// ScratchLimit caps the sieve scratch buffer in bytes. Bounds that need
	// more fail with sieve.ErrResourceExhausted.
	ScratchLimit int `toml:"scratch_limit" yaml:"scratch_limit"`

	// Workers is the number of goroutines used to sieve large bounds.
	// Zero or one sieves on the calling goroutine.
	Workers int `toml:"workers" yaml:"workers"`

	// Backend restricts graphics contexts to one backend ("wgpu",
	// "software"). Empty selects the best available.
	Backend string `toml:"backend" yaml:"backend"`

	// Surfaces are the drawable surfaces created at load time.
	Surfaces []SurfaceConfig `toml:"surfaces" yaml:"surfaces"`
}

// SurfaceConfig describes one drawable surface.
type SurfaceConfig struct {
	ID     string `toml:"id" yaml:"id"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`

	// APILevel is the graphics API level the surface can host.
	// Zero means surface.DefaultAPILevel.
	APILevel int `toml:"api_level" yaml:"api_level"`
}

// DefaultConfig returns the configuration used when no file is given:
// a single 640x400 "gl-canvas" surface and bounds up to 100,000,000.
func DefaultConfig() Config {
	return Config{
		MaxBound:     DefaultMaxBound,
		ScratchLimit: DefaultScratchLimit,
		Surfaces: []SurfaceConfig{{
			ID:     DefaultSurfaceID,
			Width:  DefaultSurfaceWidth,
			Height: DefaultSurfaceHeight,
		}},
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxBound == 0 {
		c.MaxBound = d.MaxBound
	}
	if c.ScratchLimit == 0 {
		c.ScratchLimit = d.ScratchLimit
	}
	if len(c.Surfaces) == 0 {
		c.Surfaces = d.Surfaces
	}
	return c
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.MaxBound < sieve.MinBound {
		return fmt.Errorf("%w: max_bound %d is below %d", ErrInvalidConfig, c.MaxBound, sieve.MinBound)
	}
	if c.MaxBound > MaxBoundCeiling {
		return fmt.Errorf("%w: max_bound %d is above %d", ErrInvalidConfig, c.MaxBound, MaxBoundCeiling)
	}
	if c.ScratchLimit < 0 {
		return fmt.Errorf("%w: negative scratch_limit %d", ErrInvalidConfig, c.ScratchLimit)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative workers %d", ErrInvalidConfig, c.Workers)
	}
	seen := make(map[string]struct{}, len(c.Surfaces))
	for i, s := range c.Surfaces {
		if s.ID == "" {
			return fmt.Errorf("%w: surfaces[%d] has no id", ErrInvalidConfig, i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate surface id %q", ErrInvalidConfig, s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: surface %q has size %dx%d", ErrInvalidConfig, s.ID, s.Width, s.Height)
		}
	}
	return nil
}

// buildSurfaces creates the configured surfaces in a new registry.
func (c Config) buildSurfaces() (*surface.Registry, error) {
	reg := surface.NewRegistry()
	for _, sc := range c.Surfaces {
		s := surface.NewImageSurfaceWithOptions(surface.Options{
			Width:    sc.Width,
			Height:   sc.Height,
			APILevel: sc.APILevel,
		})
		if err := reg.Register(sc.ID, s); err != nil {
			_ = reg.Close()
			return nil, err
		}
	}
	return reg, nil
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) config file.
// Fields left unset take their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("primegl: read config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes config data in the format named by ext
// (".toml", ".yaml" or ".yml").
func ParseConfig(data []byte, ext string) (Config, error) {
	var c Config
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("primegl: parse toml config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("primegl: parse yaml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
