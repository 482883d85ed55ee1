// Package device defines the narrow graphics-device surface the octree streams into and draws from,
// plus an in-memory implementation that records everything it is asked to do.
package device

import (
	"context"

	"github.com/golang/geo/r3"
)

// Handle identifies a device resident point buffer. The zero Handle is never returned by a
// successful upload.
type Handle uint32

// A Device owns device resident point storage. Positions are packed as x,y,z float32 triples and
// colours as r,g,b byte triples, both count entries long. Callers must not reuse the slices passed
// to AllocateAndUpload; the host copy belongs to the device once uploaded.
type Device interface {
	AllocateAndUpload(ctx context.Context, positions []float32, colours []uint8, count int) (Handle, error)
	SubmitDraw(ctx context.Context, handle Handle, count int) error
	Release(ctx context.Context, handle Handle) error
}

// BoundsDrawer draws wireframe boxes for debugging.
type BoundsDrawer interface {
	DrawBounds(ctx context.Context, min, max r3.Vector) error
}
