// Package config loads the YAML bake configuration: every option the
// solver recognizes, with defaults matching an unconfigured solver run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lightbake/math"
)

// Lighting is the optional sky/sun modulation the AO-only variant uses as
// a uniform sky-color multiplier, and a future direct-lighting variant
// would use in full.
type Lighting struct {
	SkyColor    [3]float32 `yaml:"skyColor"`
	SunColor    [3]float32 `yaml:"sunColor"`
	SunDirection [3]float32 `yaml:"sunDirection"`
}

// Config is every bake option the solver recognizes.
type Config struct {
	MeshPath     string   `yaml:"meshPath"`
	OutputPath   string   `yaml:"outputPath"`
	CellScale    float32  `yaml:"cellScale"`
	RasterWidth  int      `yaml:"rasterWidth"`
	RasterHeight int      `yaml:"rasterHeight"`
	SampleCount  int      `yaml:"sampleCount"`
	ShadowBias   float32  `yaml:"shadowBias"`
	RayMaxDistance float32 `yaml:"rayMaxDistance"`
	Lighting     Lighting `yaml:"lighting"`
	NumWorkers   int      `yaml:"numWorkers"`
	HeapBytes    int      `yaml:"heapBytes"`
	Seed         uint64   `yaml:"seed"`
}

// Default returns the configuration a solver falls back to when a caller
// omits every option.
func Default() Config {
	return Config{
		CellScale:      0.125,
		RasterWidth:    512,
		RasterHeight:   512,
		SampleCount:    80,
		ShadowBias:     0.001,
		RayMaxDistance: 10.0,
		Lighting: Lighting{
			SkyColor: [3]float32{212.0 / 255.0, 250.0 / 255.0, 250.0 / 255.0},
		},
		NumWorkers: 0, // 0 means worker.DefaultWorkers (a fixed 15, not derived from the core count), resolved by the caller
		HeapBytes:  32 * 1024 * 1024,
		Seed:       5489,
	}
}

// Load reads a YAML file at path over top of Default, so an omitted
// field keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if cfg.MeshPath == "" {
		return cfg, fmt.Errorf("config: meshPath is required")
	}
	if cfg.RasterWidth <= 0 || cfg.RasterHeight <= 0 {
		return cfg, fmt.Errorf("config: rasterWidth/rasterHeight must be positive, got %dx%d", cfg.RasterWidth, cfg.RasterHeight)
	}
	return cfg, nil
}

// SkyColorVec returns Lighting.SkyColor as a Vec3, the form the AO solver's
// modulation math wants.
func (l Lighting) SkyColorVec() math.Vec3 {
	return math.Vec3{X: l.SkyColor[0], Y: l.SkyColor[1], Z: l.SkyColor[2]}
}
