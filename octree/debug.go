package octree

import (
	"context"

	"github.com/pkg/errors"

	"github.com/junaydb/octree-pointcloud-renderer/device"
)

// DrawAllBounds draws the bounding volume of every node in creation order.
func (o *Octree) DrawAllBounds(ctx context.Context, drawer device.BoundsDrawer) error {
	for i := range o.nodes {
		b := o.nodes[i].bounds
		if err := drawer.DrawBounds(ctx, b.Min, b.Max); err != nil {
			return errors.Wrapf(err, "drawing bounds of node %d", i)
		}
	}
	return nil
}

// DrawDrawnBounds draws the bounding volume of the root and of every node drawn in the most recent
// frame.
func (o *Octree) DrawDrawnBounds(ctx context.Context, drawer device.BoundsDrawer) error {
	ids := o.drawn
	if len(ids) == 0 || ids[0] != RootID {
		ids = append([]NodeID{RootID}, ids...)
	}
	for _, id := range ids {
		b := o.nodes[id].bounds
		if err := drawer.DrawBounds(ctx, b.Min, b.Max); err != nil {
			return errors.Wrapf(err, "drawing bounds of node %d", id)
		}
	}
	return nil
}

// DrawLevel draws every streamed node at exactly the given depth, ignoring the frame budget. It
// replaces the frame's record of drawn nodes and points, which like SelectAndDraw leaves the root
// out of PointsDrawn.
func (o *Octree) DrawLevel(ctx context.Context, dev device.Device, level uint) error {
	o.drawn = o.drawn[:0]
	o.pointsDrawn = 0

	var err error
	o.levelOrder(func(id NodeID) bool {
		n := &o.nodes[id]
		// Level order never returns to a shallower depth.
		if n.depth > level {
			return false
		}
		if n.depth < level || !n.buffered {
			return true
		}
		if err = dev.SubmitDraw(ctx, n.handle, n.count); err != nil {
			err = errors.Wrapf(err, "drawing node %d", id)
			return false
		}
		o.drawn = append(o.drawn, id)
		if id != RootID {
			o.pointsDrawn += uint(n.count)
		}
		return true
	})
	return err
}
