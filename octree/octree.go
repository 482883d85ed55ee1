// Package octree implements a level of detail index over a point cloud. Points are partitioned into
// a hierarchy of cubic cells, each node keeping at most one representative point per cell of its
// spatial hash grid and pushing the rest down to its children. A budget-bounded, breadth-first prefix
// of the hierarchy is streamed to a device once, after which every frame selects the nodes with the
// largest on-screen footprint until a point budget is spent.
//
// An Octree goes through three phases: Build, then Stream, then any number of SelectAndDraw calls.
// It is not safe for concurrent use.
package octree

import (
	"github.com/junaydb/octree-pointcloud-renderer/logging"
	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
)

const (
	// GridResolution is the number of spatial hash cells along each axis of a node.
	GridResolution = 256
	// MinScreenSize is the screen projected size, in pixels, a node must exceed to be drawn.
	MinScreenSize = 1.0
)

// NodeID addresses a node in an octree's arena. IDs are handed out in creation order, so a smaller
// ID always belongs to a node created earlier.
type NodeID int32

const (
	// RootID is the ID of the root node.
	RootID NodeID = 0
	noNode NodeID = -1
)

// Params are the budgets an octree is built with.
type Params struct {
	// FrameBudget caps the points drawn per frame, not counting the root.
	FrameBudget uint
	// BufferBudget caps the points uploaded to the device, not counting the root.
	BufferBudget uint
	// MinPointsPerNode is how many points a node holds before it pushes points down to children.
	MinPointsPerNode uint
}

// Stats is a snapshot of an octree's counters.
type Stats struct {
	TotalNodes     int
	MaxDepth       uint
	NodesStreamed  int
	PointsStreamed uint
	// NodesDrawn and PointsDrawn cover the most recent frame and exclude the root.
	NodesDrawn  int
	PointsDrawn uint
}

// Octree is the root of the hierarchy together with its budgets and running counters.
type Octree struct {
	logger logging.Logger
	params Params
	cloud  *pointcloud.Cloud
	nodes  []node

	maxDepth       uint
	streamed       bool
	nodesStreamed  int
	pointsStreamed uint
	pointsDrawn    uint

	candidates []candidate
	drawn      []NodeID
}

// Params returns the budgets the octree was built with.
func (o *Octree) Params() Params {
	return o.params
}

// TotalNodes returns the number of nodes, root included.
func (o *Octree) TotalNodes() int {
	return len(o.nodes)
}

// MaxDepth returns the depth of the deepest node. The root is at depth 0.
func (o *Octree) MaxDepth() uint {
	return o.maxDepth
}

// PointsDrawn returns the non-root points drawn by the most recent SelectAndDraw.
func (o *Octree) PointsDrawn() uint {
	return o.pointsDrawn
}

// PointsStreamed returns the points uploaded to the device.
func (o *Octree) PointsStreamed() uint {
	return o.pointsStreamed
}

// Stats returns a snapshot of all counters.
func (o *Octree) Stats() Stats {
	nodesDrawn := 0
	for _, id := range o.drawn {
		if id != RootID {
			nodesDrawn++
		}
	}
	return Stats{
		TotalNodes:     o.TotalNodes(),
		MaxDepth:       o.maxDepth,
		NodesStreamed:  o.nodesStreamed,
		PointsStreamed: o.pointsStreamed,
		NodesDrawn:     nodesDrawn,
		PointsDrawn:    o.pointsDrawn,
	}
}

// NodeInfo is a read-only view of one node.
type NodeInfo struct {
	ID       NodeID
	Depth    uint
	Bounds   pointcloud.BoundingVolume
	CellSize float64
	// GridPoints and OverflowPoints are zero once the node has been streamed.
	GridPoints     int
	OverflowPoints int
	// PointCount is the node's point count, whether held on the host or on the device.
	PointCount int
	Buffered   bool
	Children   []NodeID
}

// Node returns information about the node with the given ID.
func (o *Octree) Node(id NodeID) (NodeInfo, bool) {
	if id < 0 || int(id) >= len(o.nodes) {
		return NodeInfo{}, false
	}
	n := &o.nodes[id]
	return NodeInfo{
		ID:             id,
		Depth:          n.depth,
		Bounds:         n.bounds,
		CellSize:       n.grid.cellSize,
		GridPoints:     n.grid.len(),
		OverflowPoints: len(n.overflow),
		PointCount:     n.pointCount(),
		Buffered:       n.buffered,
		Children:       n.childIDs(),
	}, true
}

// Walk visits every node in level order, children in octant order, until fn returns false.
func (o *Octree) Walk(fn func(info NodeInfo) bool) {
	o.levelOrder(func(id NodeID) bool {
		info, _ := o.Node(id)
		return fn(info)
	})
}

// levelOrder visits node IDs breadth first, children in octant order, until fn returns false.
func (o *Octree) levelOrder(fn func(id NodeID) bool) {
	if len(o.nodes) == 0 {
		return
	}
	queue := make([]NodeID, 0, len(o.nodes))
	queue = append(queue, RootID)
	for head := 0; head < len(queue); head++ {
		id := queue[head]
		if !fn(id) {
			return
		}
		queue = append(queue, o.nodes[id].childIDs()...)
	}
}
