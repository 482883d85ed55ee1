package octree

import (
	"time"

	"github.com/golang/geo/r3"

	"github.com/junaydb/octree-pointcloud-renderer/logging"
	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
)

// Build inserts every point of cloud, in order, into a new octree whose root spans the cloud's
// bounds. The root keeps the cloud's bounds as given; every other node is a cube. The insertion
// order decides which point becomes each cell's representative and nothing else.
func Build(cloud *pointcloud.Cloud, params Params, logger logging.Logger) *Octree {
	start := time.Now()

	o := &Octree{
		logger: logger,
		params: params,
		cloud:  cloud,
		nodes:  []node{newNode(cloud.Bounds(), 0)},
	}
	for i := 0; i < cloud.Len(); i++ {
		o.insert(RootID, i)
	}

	logger.Infow("built octree",
		"points", cloud.Len(),
		"nodes", o.TotalNodes(),
		"max_depth", o.maxDepth,
		"min_points_per_node", params.MinPointsPerNode,
		"duration", time.Since(start),
	)
	return o
}

// insert places the point with index point into the subtree rooted at id. A free grid cell takes
// the point outright; otherwise it waits in the overflow list while the node is under its point
// threshold, or goes to the child octant containing it. As soon as the node is over the threshold
// all of its overflow is pushed down.
//
// Children are appended to the arena during insertion, so node pointers are re-fetched after any
// call that can create one.
func (o *Octree) insert(id NodeID, point int) {
	minPoints := o.params.MinPointsPerNode
	pos := o.position(point)

	n := &o.nodes[id]
	switch {
	case n.grid.claim(n.grid.cellIndex(pos), point):
	case uint(n.grid.len()+len(n.overflow)) < minPoints:
		n.overflow = append(n.overflow, point)
	default:
		o.insert(o.childFor(id, pos), point)
	}

	n = &o.nodes[id]
	if uint(n.grid.len()+len(n.overflow)) > minPoints && len(n.overflow) > 0 {
		overflow := n.overflow
		n.overflow = nil
		for _, p := range overflow {
			o.insert(o.childFor(id, o.position(p)), p)
		}
	}
}

func (o *Octree) position(point int) r3.Vector {
	return o.cloud.At(point).Position
}

// childFor returns the child of id whose octant contains pos, creating it if needed.
func (o *Octree) childFor(id NodeID, pos r3.Vector) NodeID {
	n := &o.nodes[id]
	octant := childIndex(n.center, pos)
	if n.active.has(octant) {
		return n.children[octant]
	}
	return o.createChild(id, octant)
}

func (o *Octree) createChild(parent NodeID, octant int) NodeID {
	p := &o.nodes[parent]
	depth := p.depth + 1
	child := newNode(p.bounds.Octant(octant).Uniform(), depth)

	id := NodeID(len(o.nodes))
	o.nodes = append(o.nodes, child)

	p = &o.nodes[parent]
	p.children[octant] = id
	p.active.set(octant)

	if depth > o.maxDepth {
		o.maxDepth = depth
	}
	return id
}
