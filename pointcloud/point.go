package pointcloud

import (
	"image/color"

	"github.com/golang/geo/r3"
)

// NewVector convenience method for creating a vector.
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// Colour is an 8-bit RGB colour. Point clouds carry no alpha channel.
type Colour struct {
	R, G, B uint8
}

// NewColour converts any color.Color into a Colour, dropping alpha.
func NewColour(c color.Color) Colour {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Colour{R: n.R, G: n.G, B: n.B}
}

// RGBA implements color.Color. The colour is always opaque.
func (c Colour) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// Point is a single position with its colour.
type Point struct {
	Position r3.Vector
	Colour   Colour
}

// NewPoint returns a point at the given position with the given colour.
func NewPoint(x, y, z float64, c Colour) Point {
	return Point{Position: NewVector(x, y, z), Colour: c}
}
