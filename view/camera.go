package view

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Camera is a viewer placement. Moving it is up to the caller.
type Camera struct {
	Position  r3.Vector
	Direction r3.Vector
	Up        r3.Vector
}

// NewCamera returns a camera 100 units back on +z, looking down -z with +y up, far enough back
// that a cloud fitted with FitModelMatrix is in view.
func NewCamera() Camera {
	return Camera{
		Position:  r3.Vector{X: 0, Y: 0, Z: 100},
		Direction: r3.Vector{X: 0, Y: 0, Z: -1},
		Up:        r3.Vector{X: 0, Y: 1, Z: 0},
	}
}

// ViewMatrix returns the world to view transform.
func (c Camera) ViewMatrix() mgl64.Mat4 {
	eye := toVec3(c.Position)
	center := toVec3(c.Position.Add(c.Direction))
	return mgl64.LookAtV(eye, center, toVec3(c.Up))
}

// LookAt points the camera at target.
func (c Camera) LookAt(target r3.Vector) Camera {
	c.Direction = target.Sub(c.Position).Normalize()
	return c
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
