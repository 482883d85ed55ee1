package octree

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/junaydb/octree-pointcloud-renderer/device"
	"github.com/junaydb/octree-pointcloud-renderer/view"
)

// candidate is a node that passed the screen size test this frame.
type candidate struct {
	id   NodeID
	size float64
}

// SelectAndDraw draws one frame. The root is always drawn in full when it is on the device and
// does not count against the frame budget. Every other streamed node whose screen projected size
// exceeds MinScreenSize is a candidate, whether or not its ancestors are. Candidates are drawn
// largest first, ties going to the node created first, until the next one would exceed the frame
// budget; at that point the rest of the frame is skipped.
//
// Draw errors are returned to the caller; nodes submitted before the error stay counted.
func (o *Octree) SelectAndDraw(ctx context.Context, dev device.Device, frame view.Frame) error {
	o.pointsDrawn = 0
	o.drawn = o.drawn[:0]
	o.candidates = o.candidates[:0]

	root := &o.nodes[RootID]
	if root.buffered {
		if err := dev.SubmitDraw(ctx, root.handle, root.count); err != nil {
			return errors.Wrap(err, "drawing root node")
		}
		o.drawn = append(o.drawn, RootID)
	}

	o.collect(RootID, frame)
	sort.Slice(o.candidates, func(i, j int) bool {
		a, b := o.candidates[i], o.candidates[j]
		if a.size != b.size {
			return a.size > b.size
		}
		return a.id < b.id
	})

	for _, c := range o.candidates {
		n := &o.nodes[c.id]
		if o.pointsDrawn+uint(n.count) > o.params.FrameBudget {
			break
		}
		if err := dev.SubmitDraw(ctx, n.handle, n.count); err != nil {
			return errors.Wrapf(err, "drawing node %d", c.id)
		}
		o.pointsDrawn += uint(n.count)
		o.drawn = append(o.drawn, c.id)
	}
	return nil
}

// collect scores id's streamed descendants, and id itself unless it is the root.
func (o *Octree) collect(id NodeID, frame view.Frame) {
	n := &o.nodes[id]
	if id != RootID {
		distance := frame.CameraPos.Distance(frame.ToView(n.center))
		size := frame.View.ScreenProjectedSize(n.radius, distance)
		if size > MinScreenSize {
			o.candidates = append(o.candidates, candidate{id: id, size: size})
		}
	}

	for octant, child := range n.children {
		if n.active.has(octant) && o.nodes[child].buffered {
			o.collect(child, frame)
		}
	}
}

// Drawn returns the nodes drawn by the most recent frame, root first when it was drawn, then in
// draw order.
func (o *Octree) Drawn() []NodeID {
	return append([]NodeID(nil), o.drawn...)
}
