// Package config loads renderer settings from YAML.
package config

import (
	"fmt"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/junaydb/octree-pointcloud-renderer/octree"
	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
	"github.com/junaydb/octree-pointcloud-renderer/view"
)

// Shapes of synthetic cloud a Source can generate.
const (
	ShapeCube   = "cube"
	ShapeSphere = "sphere"
)

// Config describes a renderer: its budgets, its viewport and the cloud it draws.
type Config struct {
	Budgets Budgets `yaml:"budgets"`
	View    View    `yaml:"view"`
	Source  Source  `yaml:"source"`
}

// Budgets are the octree's point budgets. Any value is valid; the root is streamed and drawn outside
// both, so zero budgets render the root only.
type Budgets struct {
	FrameBudget      uint `yaml:"frame_budget"`
	BufferBudget     uint `yaml:"buffer_budget"`
	MinPointsPerNode uint `yaml:"min_points_per_node"`
}

// View describes the viewport.
type View struct {
	FOV    float64 `yaml:"fov"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Near   float64 `yaml:"near"`
	Far    float64 `yaml:"far"`
}

// Source describes a synthetic point cloud.
type Source struct {
	Shape  string  `yaml:"shape"`
	Points int     `yaml:"points"`
	Size   float64 `yaml:"size"`
	Seed   int64   `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	p := view.DefaultParams()
	return Config{
		Budgets: Budgets{
			FrameBudget:      1_000_000,
			BufferBudget:     10_000_000,
			MinPointsPerNode: 1000,
		},
		View: View{FOV: p.FOV, Width: p.Width, Height: p.Height, Near: p.Near, Far: p.Far},
		Source: Source{
			Shape:  ShapeSphere,
			Points: 1_000_000,
			Size:   100,
			Seed:   1,
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the result. Environment
// variables in the file are expanded first. Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := envsubst.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	if err := cfg.Validate("config"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if err := cfg.View.Validate(fmt.Sprintf("%s.%s", path, "view")); err != nil {
		return err
	}
	return cfg.Source.Validate(fmt.Sprintf("%s.%s", path, "source"))
}

// Params converts the budgets to octree parameters.
func (b Budgets) Params() octree.Params {
	return octree.Params{
		FrameBudget:      b.FrameBudget,
		BufferBudget:     b.BufferBudget,
		MinPointsPerNode: b.MinPointsPerNode,
	}
}

// Validate ensures the viewport can be projected.
func (v *View) Validate(path string) error {
	if v.FOV <= 0 || v.FOV >= 180 {
		return newValidationError(path, "fov", "must be between 0 and 180 degrees, got %v", v.FOV)
	}
	if v.Height <= 0 {
		return newValidationError(path, "height", "must be positive, got %d", v.Height)
	}
	if v.Width <= 0 {
		return newValidationError(path, "width", "must be positive, got %d", v.Width)
	}
	if v.Near <= 0 || v.Far <= v.Near {
		return newValidationError(path, "far", "clip planes must satisfy 0 < near < far, got %v and %v", v.Near, v.Far)
	}
	return nil
}

// Params converts the viewport to projection parameters.
func (v View) Params() view.Params {
	return view.Params{FOV: v.FOV, Width: v.Width, Height: v.Height, Near: v.Near, Far: v.Far}
}

// Validate ensures the source names a known shape.
func (s *Source) Validate(path string) error {
	switch s.Shape {
	case ShapeCube, ShapeSphere:
	case "":
		return errors.Errorf("%s: %q is required", path, "shape")
	default:
		return newValidationError(path, "shape", "unknown shape %q", s.Shape)
	}
	if s.Points < 0 {
		return newValidationError(path, "points", "must not be negative, got %d", s.Points)
	}
	if s.Size <= 0 {
		return newValidationError(path, "size", "must be positive, got %v", s.Size)
	}
	return nil
}

// Cloud generates the configured cloud. For a cube Size is the side length, for a sphere the radius.
func (s Source) Cloud() *pointcloud.Cloud {
	if s.Shape == ShapeCube {
		return pointcloud.NewUniformCube(s.Points, s.Size, s.Seed)
	}
	return pointcloud.NewSphereShell(s.Points, s.Size, s.Seed)
}

func newValidationError(path, field, format string, args ...interface{}) error {
	return errors.Errorf("%s.%s: %s", path, field, fmt.Sprintf(format, args...))
}
