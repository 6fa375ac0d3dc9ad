// Package config loads the simulation settings shared by the viewer and the
// headless server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"clothsim/internal/cloth"
	"clothsim/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Cloth      ClothConfig      `yaml:"cloth"`
	Server     ServerConfig     `yaml:"server"`
}

type SimulationConfig struct {
	Gravity     [3]float64 `yaml:"gravity"`
	TimeStep    float64    `yaml:"time_step"`
	Substeps    int        `yaml:"substeps"` // ticks per rendered frame
	Collisions  bool       `yaml:"collisions"`
	Restitution float64    `yaml:"restitution"`
	Demo        string     `yaml:"demo"` // "cloth", "spheres" or "both"
}

type ClothConfig struct {
	Cells           int        `yaml:"cells"`
	Spacing         float64    `yaml:"spacing"`
	Origin          [3]float64 `yaml:"origin"`
	NodeRadius      float64    `yaml:"node_radius"`
	NodeMass        float64    `yaml:"node_mass"`
	KHook           float64    `yaml:"k_hook"`
	KDamp           float64    `yaml:"k_damp"`
	FixBoundaryRows bool       `yaml:"fix_boundary_rows"`
	Floor           bool       `yaml:"floor"`
	FloorY          float64    `yaml:"floor_y"`
	FloorSize       float64    `yaml:"floor_size"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	UpdateInterval time.Duration `yaml:"update_interval"`
}

const (
	DemoCloth   = "cloth"
	DemoSpheres = "spheres"
	DemoBoth    = "both"
)

// Default is the hanging cloth demo.
func Default() Config {
	c := cloth.DefaultConfig()
	return Config{
		Simulation: SimulationConfig{
			Gravity:     physics.DefaultGravity,
			TimeStep:    physics.DefaultTimeStep,
			Substeps:    1,
			Collisions:  false,
			Restitution: 0.3,
			Demo:        DemoCloth,
		},
		Cloth: ClothConfig{
			Cells:           c.Cells,
			Spacing:         c.Spacing,
			Origin:          c.Origin,
			NodeRadius:      c.NodeRadius,
			NodeMass:        c.NodeMass,
			KHook:           c.KHook,
			KDamp:           c.KDamp,
			FixBoundaryRows: c.FixBoundaryRows,
			Floor:           c.Floor,
			FloorY:          c.FloorY,
			FloorSize:       c.FloorSize,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			UpdateInterval: 50 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	s := c.Simulation
	if !(s.TimeStep > 0) {
		return fmt.Errorf("%w: time_step must be positive, got %v", physics.ErrInvalidInput, s.TimeStep)
	}
	if s.Substeps < 1 {
		return fmt.Errorf("%w: substeps must be at least 1, got %d", physics.ErrInvalidInput, s.Substeps)
	}
	if s.Restitution < 0 || s.Restitution > 1 {
		return fmt.Errorf("%w: restitution must be within [0, 1], got %v", physics.ErrInvalidInput, s.Restitution)
	}
	switch s.Demo {
	case DemoCloth, DemoSpheres, DemoBoth:
	default:
		return fmt.Errorf("%w: unknown demo %q", physics.ErrInvalidInput, s.Demo)
	}
	if c.Server.UpdateInterval <= 0 {
		return fmt.Errorf("%w: update_interval must be positive", physics.ErrInvalidInput)
	}
	return c.ClothConfig().Validate()
}

func (c Config) GravityVec() mgl64.Vec3 {
	return mgl64.Vec3(c.Simulation.Gravity)
}

func (c Config) ClothConfig() cloth.Config {
	cc := c.Cloth
	return cloth.Config{
		Cells:           cc.Cells,
		Spacing:         cc.Spacing,
		Origin:          mgl64.Vec3(cc.Origin),
		NodeRadius:      cc.NodeRadius,
		NodeMass:        cc.NodeMass,
		KHook:           cc.KHook,
		KDamp:           cc.KDamp,
		FixBoundaryRows: cc.FixBoundaryRows,
		Floor:           cc.Floor,
		FloorY:          cc.FloorY,
		FloorSize:       cc.FloorSize,
	}
}

// WorldOptions turns the simulation section into physics.World options.
func (c Config) WorldOptions() []physics.WorldOption {
	return []physics.WorldOption{
		physics.WithGravity(c.GravityVec()),
		physics.WithTimeStep(c.Simulation.TimeStep),
		physics.WithCollisions(c.Simulation.Collisions),
		physics.WithRestitution(c.Simulation.Restitution),
	}
}

// NewWorld builds the configured demo scene.
func (c Config) NewWorld(opts ...physics.WorldOption) (*physics.World, *cloth.Grid, error) {
	w := physics.NewWorld(append(c.WorldOptions(), opts...)...)

	var grid *cloth.Grid
	if c.Simulation.Demo == DemoCloth || c.Simulation.Demo == DemoBoth {
		g, err := cloth.BuildGrid(w, c.ClothConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("build cloth: %w", err)
		}
		grid = g
	}
	if c.Simulation.Demo == DemoSpheres || c.Simulation.Demo == DemoBoth {
		if _, err := cloth.DemoSpheres(w); err != nil {
			return nil, nil, fmt.Errorf("demo spheres: %w", err)
		}
	}
	return w, grid, nil
}
