package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(&out, &errOut)
	err := app.Run(append([]string{"pointlod"}, args...))
	return out.String(), err
}

func TestBuildAction(t *testing.T) {
	out, err := runApp(t, "build",
		"--points", "1000", "--shape", "cube", "--size", "10",
		"--min-points", "2000", "--buffer-budget", "1000")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "cloud: 1,000 points")
	test.That(t, out, test.ShouldContainSubstring, "octree: 1 nodes, max depth 0, min 2,000 points per node")
	test.That(t, out, test.ShouldContainSubstring, "streamed: 1 nodes, 1,000 points (15 kB), buffer budget 1,000")
	test.That(t, out, test.ShouldContainSubstring, "points per node: mean 1000.0, median 1000.0, p95 1000.0, max 1,000")
	test.That(t, out, test.ShouldContainSubstring, "nodes per depth: 1\n")
}

func TestBuildActionDepthTable(t *testing.T) {
	out, err := runApp(t, "build",
		"--points", "4000", "--shape", "sphere", "--size", "10",
		"--min-points", "16", "--buffer-budget", "4000", "--histogram", "4")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "DEPTH")
	test.That(t, out, test.ShouldContainSubstring, "SHARE")
	test.That(t, out, test.ShouldContainSubstring, "points per node:\n")
	test.That(t, out, test.ShouldNotContainSubstring, "every node holds")

	out, err = runApp(t, "build",
		"--points", "100", "--min-points", "1000", "--buffer-budget", "100", "--histogram", "4")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "100.0%")
	test.That(t, out, test.ShouldContainSubstring, "every node holds 100 points")
}

func TestBuildActionLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointlod.log")
	_, err := runApp(t, "--log-file", path, "build", "--points", "100", "--buffer-budget", "100")
	test.That(t, err, test.ShouldBeNil)

	raw, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(raw), test.ShouldContainSubstring, `"msg":"built octree"`)
	test.That(t, string(raw), test.ShouldContainSubstring, `"msg":"streamed octree"`)
	test.That(t, string(raw), test.ShouldNotContainSubstring, "generated cloud")
}

func TestBuildActionConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointlod.yaml")
	test.That(t, os.WriteFile(path, []byte(`
budgets:
  buffer_budget: 0
  min_points_per_node: 4
source:
  shape: sphere
  points: 500
  size: 5
`), 0o600), test.ShouldBeNil)

	out, err := runApp(t, "--config", path, "build")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "cloud: 500 points")
	// A zero buffer budget still streams the root.
	test.That(t, out, test.ShouldContainSubstring, "streamed: 1 nodes, ")
	test.That(t, out, test.ShouldContainSubstring, ", buffer budget 0\n")

	// Flags win over the file.
	out, err = runApp(t, "--config", path, "build", "--points", "50")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "cloud: 50 points")
}

func TestBuildActionInvalid(t *testing.T) {
	_, err := runApp(t, "build", "--shape", "torus")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown shape "torus"`)

	_, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "build")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFlyAction(t *testing.T) {
	out, err := runApp(t, "fly",
		"--points", "5000", "--shape", "sphere", "--size", "10", "--min-points", "32",
		"--buffer-budget", "5000", "--frame-budget", "0", "--frames", "3", "--from", "600", "--to", "100")
	test.That(t, err, test.ShouldBeNil)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.That(t, lines, test.ShouldHaveLength, 3)
	// With no frame budget only the root is drawn.
	test.That(t, lines[0], test.ShouldStartWith, "frame 0: distance 600.0, 1 buffers, ")
	test.That(t, lines[1], test.ShouldStartWith, "frame 1: distance 350.0, 1 buffers, ")
	test.That(t, lines[2], test.ShouldStartWith, "frame 2: distance 100.0, 1 buffers, ")
}

func TestFlyActionMetrics(t *testing.T) {
	out, err := runApp(t, "fly",
		"--points", "2000", "--min-points", "16", "--buffer-budget", "2000", "--frame-budget", "500",
		"--frames", "2", "--metrics")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "frame 1: distance 50.0")
	test.That(t, out, test.ShouldContainSubstring, "pointlod_frames_total 2")
	test.That(t, out, test.ShouldContainSubstring, "pointlod_octree_points_streamed 2000")
}

func TestFlyActionLevel(t *testing.T) {
	out, err := runApp(t, "fly",
		"--points", "2000", "--min-points", "2000", "--buffer-budget", "2000",
		"--frames", "1", "--level", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "frame 0: distance 600.0, 0 buffers, 0 points")

	out, err = runApp(t, "fly",
		"--points", "2000", "--min-points", "2000", "--buffer-budget", "2000",
		"--frames", "1", "--level", "0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "frame 0: distance 600.0, 1 buffers, 2,000 points")
}

func TestFlyActionWithoutOctree(t *testing.T) {
	out, err := runApp(t, "fly", "--points", "1234", "--frames", "2", "--no-octree", "--metrics")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "frame 0: distance 600.0, 1 buffers, 1,234 points")
	test.That(t, out, test.ShouldContainSubstring, "frame 1: distance 50.0, 1 buffers, 1,234 points")
	test.That(t, out, test.ShouldContainSubstring, "pointlod_frames_total 0")
}

func TestFlyActionInvalidFrames(t *testing.T) {
	_, err := runApp(t, "fly", "--frames", "0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--frames must be at least 1")
}

func TestFlight(t *testing.T) {
	f := flight{frames: 5, from: 100, to: 0}
	test.That(t, f.distance(0), test.ShouldEqual, 100.0)
	test.That(t, f.distance(2), test.ShouldEqual, 50.0)
	test.That(t, f.distance(4), test.ShouldEqual, 0.0)
	test.That(t, f.camera(1).Position.Z, test.ShouldEqual, 75.0)

	single := flight{frames: 1, from: 30, to: 10}
	test.That(t, single.distance(0), test.ShouldEqual, 30.0)
}
