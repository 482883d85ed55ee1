package pointcloud

import (
	"math"
)

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	HasColor bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData creates a new MetaData whose extent is empty.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Empty reports whether no point has been merged yet.
func (meta *MetaData) Empty() bool {
	return meta.MinX > meta.MaxX
}

// Merge updates the extent to include p.
func (meta *MetaData) Merge(p Point) {
	if p.Colour != (Colour{}) {
		meta.HasColor = true
	}

	v := p.Position
	if v.X > meta.MaxX {
		meta.MaxX = v.X
	}
	if v.Y > meta.MaxY {
		meta.MaxY = v.Y
	}
	if v.Z > meta.MaxZ {
		meta.MaxZ = v.Z
	}

	if v.X < meta.MinX {
		meta.MinX = v.X
	}
	if v.Y < meta.MinY {
		meta.MinY = v.Y
	}
	if v.Z < meta.MinZ {
		meta.MinZ = v.Z
	}
}

// Bounds returns the axis aligned extent of every merged point. An empty MetaData yields a
// degenerate volume at the origin.
func (meta *MetaData) Bounds() BoundingVolume {
	if meta.Empty() {
		return BoundingVolume{}
	}
	return NewBoundingVolume(
		NewVector(meta.MinX, meta.MinY, meta.MinZ),
		NewVector(meta.MaxX, meta.MaxY, meta.MaxZ),
	)
}
