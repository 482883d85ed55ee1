package pointcloud

import (
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// NewUniformCube returns n points spread uniformly through an axis aligned cube of the given side
// centred on the origin. Colours follow hue around the vertical axis. The same seed always yields the
// same cloud.
func NewUniformCube(n int, side float64, seed int64) *Cloud {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(seed))
	half := side / 2
	points := make([]Point, n)
	for i := range points {
		x := rnd.Float64()*side - half
		y := rnd.Float64()*side - half
		z := rnd.Float64()*side - half
		points[i] = NewPoint(x, y, z, hueColour(x, z))
	}
	return NewCloud(points)
}

// NewSphereShell returns n points on the surface of a sphere of the given radius centred on the
// origin, coloured with a height gradient.
func NewSphereShell(n int, radius float64, seed int64) *Cloud {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(seed))
	points := make([]Point, n)
	for i := range points {
		// Marsaglia's method keeps the distribution uniform over the surface.
		var u, v, s float64
		for {
			u = rnd.Float64()*2 - 1
			v = rnd.Float64()*2 - 1
			s = u*u + v*v
			if s < 1 {
				break
			}
		}
		f := 2 * math.Sqrt(1-s)
		points[i].Position = NewVector(radius*u*f, radius*v*f, radius*(1-2*s))
	}
	ApplyGradient(points)
	return NewCloud(points)
}

func hueColour(x, z float64) Colour {
	hue := math.Atan2(z, x)*180/math.Pi + 180
	r, g, b := colorful.Hsv(hue, 0.7, 0.9).Clamped().RGB255()
	return Colour{R: r, G: g, B: b}
}
