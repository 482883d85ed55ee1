package octree

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/junaydb/octree-pointcloud-renderer/device"
)

// Stream uploads nodes to dev in level order. The root is always uploaded and does not count
// against the buffer budget, so even a zero budget leaves it drawable. Below the root, streaming
// stops at the first node that would take the budgeted point total past the buffer budget; that
// node and every node after it in level order stay on the host and are never drawn. Stream may only
// be called once.
//
// Upload errors are returned as is, wrapped with the failing node; nodes streamed before the error
// stay on the device.
func (o *Octree) Stream(ctx context.Context, dev device.Device) error {
	if o.streamed {
		return errors.New("octree has already been streamed")
	}
	o.streamed = true

	var (
		err      error
		budgeted uint
	)
	o.levelOrder(func(id NodeID) bool {
		count := uint(o.nodes[id].pointCount())
		if id != RootID && budgeted+count > o.params.BufferBudget {
			o.logger.Debugw("buffer budget exhausted",
				"node", id,
				"depth", o.nodes[id].depth,
				"node_points", count,
				"budgeted_points", budgeted,
				"budget", o.params.BufferBudget,
			)
			return false
		}
		if err = o.bufferNode(ctx, dev, id); err != nil {
			err = errors.Wrapf(err, "streaming node %d", id)
			return false
		}
		o.nodesStreamed++
		o.pointsStreamed += count
		if id != RootID {
			budgeted += count
		}
		return true
	})
	if err != nil {
		return err
	}

	o.logger.Infow("streamed octree",
		"nodes", o.nodesStreamed,
		"of_nodes", o.TotalNodes(),
		"points", o.pointsStreamed,
		"budget", o.params.BufferBudget,
	)
	return nil
}

// bufferNode packs the node's representatives, then its overflow, into contiguous buffers and
// uploads them. The host copies are dropped once the upload succeeds.
func (o *Octree) bufferNode(ctx context.Context, dev device.Device, id NodeID) error {
	n := &o.nodes[id]
	count := n.pointCount()
	positions := make([]float32, 0, 3*count)
	colours := make([]uint8, 0, 3*count)

	pack := func(point int) {
		p := o.cloud.At(point)
		positions = append(positions, float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z))
		colours = append(colours, p.Colour.R, p.Colour.G, p.Colour.B)
	}
	for _, point := range n.grid.points {
		pack(point)
	}
	for _, point := range n.overflow {
		pack(point)
	}

	handle, err := dev.AllocateAndUpload(ctx, positions, colours, count)
	if err != nil {
		return err
	}

	n.grid.release()
	n.overflow = nil
	n.handle = handle
	n.count = count
	n.buffered = true
	return nil
}

// Release frees every device buffer the octree holds. Released nodes are no longer drawn. All
// release errors are returned together.
func (o *Octree) Release(ctx context.Context, dev device.Device) error {
	var errs error
	for i := range o.nodes {
		n := &o.nodes[i]
		if !n.buffered {
			continue
		}
		if err := dev.Release(ctx, n.handle); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "releasing node %d", i))
			continue
		}
		n.buffered = false
		n.handle = 0
		n.count = 0
	}
	o.drawn = o.drawn[:0]
	return errs
}
