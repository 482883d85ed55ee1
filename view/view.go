// Package view holds the per-frame camera inputs that drive level of detail selection: projection
// parameters, camera placement and the model-view transform.
package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
)

// ScreenScaleTarget is the size, in world units, that FitModelMatrix scales a cloud's diagonal to.
const ScreenScaleTarget = 300

// Params are the projection parameters of the viewport. Only FOV and Height affect level of detail
// selection; the rest feed the projection matrix.
type Params struct {
	// FOV is the vertical field of view in degrees.
	FOV    float64
	Width  int
	Height int
	Near   float64
	Far    float64
}

// DefaultParams returns a 1280x720 viewport with a 70 degree field of view.
func DefaultParams() Params {
	return Params{FOV: 70, Width: 1280, Height: 720, Near: 0.1, Far: 1000}
}

// ScreenProjectedSize returns the apparent on-screen radius, in pixels, of a sphere of the given
// radius at the given distance from the viewer.
func (p Params) ScreenProjectedSize(radius, distance float64) float64 {
	slope := math.Tan(mgl64.DegToRad(p.FOV) * 0.5)
	return float64(p.Height) * 0.5 * (radius / (slope * distance))
}

// Projection returns the perspective projection matrix for these parameters.
func (p Params) Projection() mgl64.Mat4 {
	aspect := 1.0
	if p.Height > 0 {
		aspect = float64(p.Width) / float64(p.Height)
	}
	return mgl64.Perspective(mgl64.DegToRad(p.FOV), aspect, p.Near, p.Far)
}

// FitModelMatrix returns the model matrix that moves the centre of bounds to the origin and scales
// its diagonal to ScreenScaleTarget.
func FitModelMatrix(bounds pointcloud.BoundingVolume) mgl64.Mat4 {
	scale := 1.0
	if s := bounds.Scale(); s > 0 {
		scale = ScreenScaleTarget / s
	}
	c := bounds.Center().Mul(scale)
	return mgl64.Translate3D(-c.X, -c.Y, -c.Z).Mul4(mgl64.Scale3D(scale, scale, scale))
}

// Frame is everything level of detail selection needs to know about one frame.
type Frame struct {
	// CameraPos is the camera's world space position. Selection measures the distance from it to
	// node centres that have already been moved into view space; the screen size threshold is tuned
	// for that mixed-space distance, so keep it as is.
	CameraPos r3.Vector
	ModelView mgl64.Mat4
	View      Params
}

// NewFrame composes the camera's view matrix with the model matrix.
func NewFrame(cam Camera, model mgl64.Mat4, params Params) Frame {
	return Frame{
		CameraPos: cam.Position,
		ModelView: cam.ViewMatrix().Mul4(model),
		View:      params,
	}
}

// ToView transforms a model space position by the model-view matrix, without a perspective divide.
func (f Frame) ToView(p r3.Vector) r3.Vector {
	v := f.ModelView.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
