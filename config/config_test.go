package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/junaydb/octree-pointcloud-renderer/octree"
	"github.com/junaydb/octree-pointcloud-renderer/view"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pointlod.yaml")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.Validate("config"), test.ShouldBeNil)
	test.That(t, cfg.View.Params(), test.ShouldResemble, view.DefaultParams())
	test.That(t, cfg.Source.Shape, test.ShouldEqual, ShapeSphere)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
budgets:
  frame_budget: 5000
  buffer_budget: 20000
  min_points_per_node: 0
view:
  fov: 90
source:
  shape: cube
  points: 300
`)
	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Budgets.Params(), test.ShouldResemble, octree.Params{
		FrameBudget:      5000,
		BufferBudget:     20000,
		MinPointsPerNode: 0,
	})
	test.That(t, cfg.View.FOV, test.ShouldEqual, 90.0)
	// Unset fields keep their defaults.
	test.That(t, cfg.View.Height, test.ShouldEqual, 720)
	test.That(t, cfg.View.Far, test.ShouldEqual, 1000.0)
	test.That(t, cfg.Source.Size, test.ShouldEqual, 100.0)

	cloud := cfg.Source.Cloud()
	test.That(t, cloud.Len(), test.ShouldEqual, 300)
	dims := cloud.Bounds().Dimensions()
	test.That(t, dims.X, test.ShouldBeLessThanOrEqualTo, 100.0)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("POINTLOD_FRAME_BUDGET", "4321")
	t.Setenv("POINTLOD_SHAPE", "cube")
	path := writeConfig(t, `
budgets:
  frame_budget: ${POINTLOD_FRAME_BUDGET}
source:
  shape: $POINTLOD_SHAPE
`)
	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)

	expected := Default()
	expected.Budgets.FrameBudget = 4321
	expected.Source.Shape = ShapeCube
	test.That(t, cmp.Diff(expected, cfg), test.ShouldBeEmpty)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "reading config")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "budgets: [1, 2"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "parsing")
	})

	t.Run("negative budget", func(t *testing.T) {
		_, err := Load(writeConfig(t, "budgets:\n  frame_budget: -1\n"))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("invalid view", func(t *testing.T) {
		_, err := Load(writeConfig(t, "view:\n  fov: 180\n"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "config.view.fov")
	})
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		err    string
	}{
		{"zero budgets", func(c *Config) { c.Budgets = Budgets{} }, ""},
		{"frame budget above buffer budget", func(c *Config) {
			c.Budgets.FrameBudget, c.Budgets.BufferBudget = 5000, 10
		}, ""},
		{"zero fov", func(c *Config) { c.View.FOV = 0 }, "path.view.fov"},
		{"zero height", func(c *Config) { c.View.Height = 0 }, "path.view.height"},
		{"zero width", func(c *Config) { c.View.Width = 0 }, "path.view.width"},
		{"inverted clip planes", func(c *Config) { c.View.Far = c.View.Near }, "path.view.far"},
		{"no shape", func(c *Config) { c.Source.Shape = "" }, `path.source: "shape" is required`},
		{"unknown shape", func(c *Config) { c.Source.Shape = "torus" }, `unknown shape "torus"`},
		{"negative points", func(c *Config) { c.Source.Points = -1 }, "path.source.points"},
		{"zero size", func(c *Config) { c.Source.Size = 0 }, "path.source.size"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate("path")
			if tc.err == "" {
				test.That(t, err, test.ShouldBeNil)
				return
			}
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}
}
