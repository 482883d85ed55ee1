package octree

import (
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
	"github.com/junaydb/octree-pointcloud-renderer/view"
)

// testBounds is a 20 unit cube centred on the origin. Its grid cell size is about 0.135 and its
// children's about 0.068.
var testBounds = pointcloud.NewBoundingVolume(r3.Vector{X: -10, Y: -10, Z: -10}, r3.Vector{X: 10, Y: 10, Z: 10})

func cloudIn(bounds pointcloud.BoundingVolume, positions ...r3.Vector) *pointcloud.Cloud {
	points := make([]pointcloud.Point, len(positions))
	for i, p := range positions {
		points[i] = pointcloud.Point{Position: p, Colour: pointcloud.Colour{R: uint8(i), G: 1, B: 2}}
	}
	return pointcloud.NewCloudWithBounds(points, bounds)
}

func vec(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// hostPoints returns the point indices held on the host by each node, representatives first.
func hostPoints(o *Octree) map[NodeID][]int {
	held := map[NodeID][]int{}
	for i := range o.nodes {
		n := &o.nodes[i]
		ids := append(append([]int(nil), n.grid.points...), n.overflow...)
		if len(ids) > 0 {
			held[NodeID(i)] = ids
		}
	}
	return held
}

// validateOctree recursively checks the structural invariants of a freshly built octree.
func validateOctree(t *testing.T, o *Octree) {
	t.Helper()

	root := &o.nodes[RootID]
	test.That(t, root.depth, test.ShouldEqual, uint(0))
	test.That(t, root.bounds, test.ShouldResemble, o.cloud.Bounds())

	var maxDepth uint
	visited := 0
	var visit func(id NodeID)
	visit = func(id NodeID) {
		visited++
		n := &o.nodes[id]
		if n.depth > maxDepth {
			maxDepth = n.depth
		}
		test.That(t, n.grid.cellSize, test.ShouldAlmostEqual, n.bounds.Scale()/GridResolution)
		test.That(t, n.grid.len(), test.ShouldEqual, len(n.grid.cells))
		if uint(n.grid.len()+len(n.overflow)) > o.params.MinPointsPerNode {
			test.That(t, n.overflow, test.ShouldBeEmpty)
		}

		for octant, child := range n.children {
			if !n.active.has(octant) {
				test.That(t, child, test.ShouldEqual, noNode)
				continue
			}
			c := &o.nodes[child]
			test.That(t, c.depth, test.ShouldEqual, n.depth+1)
			test.That(t, c.bounds.IsUniform(1e-9*c.bounds.Scale()), test.ShouldBeTrue)
			test.That(t, c.center.Distance(n.bounds.Octant(octant).Center()), test.ShouldAlmostEqual, 0, 1e-9)
			test.That(t, c.pointCount(), test.ShouldBeGreaterThan, 0)
			visit(child)
		}
	}
	visit(RootID)

	test.That(t, visited, test.ShouldEqual, o.TotalNodes())
	test.That(t, maxDepth, test.ShouldEqual, o.MaxDepth())
}

// identityFrame is a frame whose model-view transform leaves positions untouched.
func identityFrame(camera r3.Vector) view.Frame {
	return view.Frame{CameraPos: camera, ModelView: mgl64.Ident4(), View: view.DefaultParams()}
}

// expectedDraws orders the streamed non-root nodes the way a frame should, then applies the
// frame budget with a hard cutoff.
func expectedDraws(o *Octree, frame view.Frame) []NodeID {
	type scored struct {
		id   NodeID
		size float64
	}
	var all []scored
	for i := 1; i < len(o.nodes); i++ {
		n := &o.nodes[i]
		if !n.buffered || !ancestorsBuffered(o, NodeID(i)) {
			continue
		}
		size := frame.View.ScreenProjectedSize(n.radius, frame.CameraPos.Distance(frame.ToView(n.center)))
		if size > MinScreenSize {
			all = append(all, scored{NodeID(i), size})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].size > all[j].size })

	var ids []NodeID
	if o.nodes[RootID].buffered {
		ids = append(ids, RootID)
	}
	var total uint
	for _, s := range all {
		count := uint(o.nodes[s.id].count)
		if total+count > o.params.FrameBudget {
			break
		}
		total += count
		ids = append(ids, s.id)
	}
	return ids
}

func ancestorsBuffered(o *Octree, id NodeID) bool {
	parents := map[NodeID]NodeID{}
	for i := range o.nodes {
		for _, c := range o.nodes[i].childIDs() {
			parents[c] = NodeID(i)
		}
	}
	for id != RootID {
		id = parents[id]
		if id != RootID && !o.nodes[id].buffered {
			return false
		}
	}
	return true
}
