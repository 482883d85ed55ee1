package pointcloud

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// gradientBaseBrightness keeps the lowest points from being drawn pure black.
const gradientBaseBrightness = 0.1

// ApplyGradient overwrites every point's colour with a grayscale ramp along z, darkest at the
// lowest point. It is meant for sources that carry no colour of their own.
func ApplyGradient(points []Point) {
	if len(points) == 0 {
		return
	}
	minZ, maxZ := points[0].Position.Z, points[0].Position.Z
	for _, p := range points[1:] {
		if p.Position.Z < minZ {
			minZ = p.Position.Z
		}
		if p.Position.Z > maxZ {
			maxZ = p.Position.Z
		}
	}

	zRange := maxZ - minZ
	for i := range points {
		var normalised float64
		if zRange > 0 {
			normalised = (points[i].Position.Z - minZ) / zRange
		}
		brightness := gradientBaseBrightness + (1-gradientBaseBrightness)*normalised
		r, g, b := colorful.Color{R: brightness, G: brightness, B: brightness}.RGB255()
		points[i].Colour = Colour{R: r, G: g, B: b}
	}
}
