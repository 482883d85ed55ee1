package octree

import (
	"math/bits"

	"github.com/golang/geo/r3"

	"github.com/junaydb/octree-pointcloud-renderer/device"
	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
)

// childMask records which of a node's eight octants hold a child.
type childMask uint8

func (m childMask) has(octant int) bool {
	return m&(1<<uint(octant)) != 0
}

func (m *childMask) set(octant int) {
	*m |= 1 << uint(octant)
}

func (m childMask) count() int {
	return bits.OnesCount8(uint8(m))
}

// node is one cell of the hierarchy. Its volume, depth and grid cell size never change after
// creation. Points are stored as indices into the octree's cloud until the node is streamed.
type node struct {
	bounds pointcloud.BoundingVolume
	center r3.Vector
	radius float64
	depth  uint

	grid     spatialHashGrid
	overflow []int

	children [8]NodeID
	active   childMask

	buffered bool
	handle   device.Handle
	count    int
}

func newNode(bounds pointcloud.BoundingVolume, depth uint) node {
	n := node{
		bounds: bounds,
		center: bounds.Center(),
		radius: bounds.BoundingSphereRadius(),
		depth:  depth,
		grid:   newSpatialHashGrid(bounds.Scale() / GridResolution),
	}
	for i := range n.children {
		n.children[i] = noNode
	}
	return n
}

func (n *node) pointCount() int {
	if n.buffered {
		return n.count
	}
	return n.grid.len() + len(n.overflow)
}

func (n *node) childIDs() []NodeID {
	if n.active == 0 {
		return nil
	}
	ids := make([]NodeID, 0, n.active.count())
	for octant, id := range n.children {
		if n.active.has(octant) {
			ids = append(ids, id)
		}
	}
	return ids
}

// childIndex returns the octant of center that p falls in: bit 2 is set when p is above center in
// x, bit 1 in y and bit 0 in z. Points on a dividing plane go to the lower octant.
func childIndex(center, p r3.Vector) int {
	idx := 0
	if p.X > center.X {
		idx |= 4
	}
	if p.Y > center.Y {
		idx |= 2
	}
	if p.Z > center.Z {
		idx |= 1
	}
	return idx
}
