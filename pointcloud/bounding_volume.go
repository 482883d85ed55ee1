package pointcloud

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// BoundingVolume is an axis aligned box given by its minimum and maximum corners.
type BoundingVolume struct {
	Min r3.Vector
	Max r3.Vector
}

// NewBoundingVolume returns the box spanning min to max.
func NewBoundingVolume(min, max r3.Vector) BoundingVolume {
	return BoundingVolume{Min: min, Max: max}
}

// Center returns the midpoint of the box.
func (bv BoundingVolume) Center() r3.Vector {
	return bv.Min.Add(bv.Max).Mul(0.5)
}

// Dimensions returns the side lengths along each axis.
func (bv BoundingVolume) Dimensions() r3.Vector {
	return bv.Max.Sub(bv.Min)
}

// Scale is the length of the box diagonal.
func (bv BoundingVolume) Scale() float64 {
	return bv.Dimensions().Norm()
}

// BoundingSphereRadius is the radius of the sphere centred on the box that touches its corners.
func (bv BoundingVolume) BoundingSphereRadius() float64 {
	return bv.Scale() * 0.5
}

// Uniform returns the cube sharing this box's centre whose side is the box's longest side.
func (bv BoundingVolume) Uniform() BoundingVolume {
	dims := bv.Dimensions()
	halfExtent := math.Max(dims.X, math.Max(dims.Y, dims.Z)) * 0.5
	center := bv.Center()
	offset := r3.Vector{X: halfExtent, Y: halfExtent, Z: halfExtent}
	return BoundingVolume{Min: center.Sub(offset), Max: center.Add(offset)}
}

// IsUniform reports whether all three side lengths agree within epsilon.
func (bv BoundingVolume) IsUniform(epsilon float64) bool {
	dims := bv.Dimensions()
	return math.Abs(dims.X-dims.Y) <= epsilon && math.Abs(dims.Y-dims.Z) <= epsilon
}

// Octant returns the sub-box for the given 3-bit octant index: bit 2 selects the upper half in x,
// bit 1 in y and bit 0 in z.
func (bv BoundingVolume) Octant(idx int) BoundingVolume {
	center := bv.Center()
	childMin := bv.Min
	childMax := center

	if idx&4 != 0 {
		childMin.X = center.X
		childMax.X = bv.Max.X
	}
	if idx&2 != 0 {
		childMin.Y = center.Y
		childMax.Y = bv.Max.Y
	}
	if idx&1 != 0 {
		childMin.Z = center.Z
		childMax.Z = bv.Max.Z
	}
	return BoundingVolume{Min: childMin, Max: childMax}
}

// Contains reports whether p lies inside the box, boundaries included.
func (bv BoundingVolume) Contains(p r3.Vector) bool {
	return p.X >= bv.Min.X && p.X <= bv.Max.X &&
		p.Y >= bv.Min.Y && p.Y <= bv.Max.Y &&
		p.Z >= bv.Min.Z && p.Z <= bv.Max.Z
}

func (bv BoundingVolume) String() string {
	return fmt.Sprintf("bounding volume from %v to %v", bv.Min, bv.Max)
}
