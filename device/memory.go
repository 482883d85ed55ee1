package device

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
)

// Buffer is one uploaded point buffer.
type Buffer struct {
	Positions []float32
	Colours   []uint8
	Count     int
}

// Draw is one recorded draw submission.
type Draw struct {
	Handle Handle
	Count  int
}

// Memory is a Device and BoundsDrawer that keeps uploaded buffers in host memory and records draw
// submissions. It is not safe for concurrent use.
type Memory struct {
	// UploadHook, if set, runs before each upload and can fail it.
	UploadHook func(count int) error
	// DrawHook, if set, runs before each draw and can fail it.
	DrawHook func(handle Handle, count int) error

	next    Handle
	buffers map[Handle]Buffer
	draws   []Draw
	bounds  []pointcloud.BoundingVolume
}

// NewMemory returns an empty in-memory device.
func NewMemory() *Memory {
	return &Memory{buffers: map[Handle]Buffer{}}
}

// AllocateAndUpload stores the buffer and returns a fresh handle.
func (m *Memory) AllocateAndUpload(ctx context.Context, positions []float32, colours []uint8, count int) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(positions) != 3*count || len(colours) != 3*count {
		return 0, errors.Errorf("buffer size mismatch: %d positions and %d colours for %d points",
			len(positions), len(colours), count)
	}
	if m.UploadHook != nil {
		if err := m.UploadHook(count); err != nil {
			return 0, err
		}
	}
	m.next++
	m.buffers[m.next] = Buffer{Positions: positions, Colours: colours, Count: count}
	return m.next, nil
}

// SubmitDraw records a draw against a previously uploaded buffer.
func (m *Memory) SubmitDraw(ctx context.Context, handle Handle, count int) error {
	buf, ok := m.buffers[handle]
	if !ok {
		return errors.Errorf("unknown buffer handle %d", handle)
	}
	if count > buf.Count {
		return errors.Errorf("draw of %d points exceeds buffer %d of %d points", count, handle, buf.Count)
	}
	if m.DrawHook != nil {
		if err := m.DrawHook(handle, count); err != nil {
			return err
		}
	}
	m.draws = append(m.draws, Draw{Handle: handle, Count: count})
	return nil
}

// Release frees a buffer.
func (m *Memory) Release(ctx context.Context, handle Handle) error {
	if _, ok := m.buffers[handle]; !ok {
		return errors.Errorf("unknown buffer handle %d", handle)
	}
	delete(m.buffers, handle)
	return nil
}

// DrawBounds records a debug box.
func (m *Memory) DrawBounds(ctx context.Context, min, max r3.Vector) error {
	m.bounds = append(m.bounds, pointcloud.NewBoundingVolume(min, max))
	return nil
}

// Buffer returns the buffer stored under handle.
func (m *Memory) Buffer(handle Handle) (Buffer, bool) {
	buf, ok := m.buffers[handle]
	return buf, ok
}

// Resident returns the number of live buffers and the total points they hold.
func (m *Memory) Resident() (buffers, points int) {
	for _, buf := range m.buffers {
		points += buf.Count
	}
	return len(m.buffers), points
}

// Draws returns the draws recorded since the last Reset.
func (m *Memory) Draws() []Draw {
	return m.draws
}

// DrawnBounds returns the debug boxes recorded since the last Reset.
func (m *Memory) DrawnBounds() []pointcloud.BoundingVolume {
	return m.bounds
}

// Reset forgets recorded draws and boxes, keeping uploaded buffers. Call it between frames.
func (m *Memory) Reset() {
	m.draws = m.draws[:0]
	m.bounds = m.bounds[:0]
}
