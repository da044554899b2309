// ABOUTME: Heading math shared by the matcher, traverser and placement solver
// ABOUTME: Headings are degrees, 0 faces +Y and grow counter-clockwise
package models

import "math"

// NormalizeHeading maps any heading onto [0, 360).
func NormalizeHeading(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	// math.Mod of a tiny negative value can round back up to 360
	if h >= 360 {
		h = 0
	}
	return h
}

// HeadingDifference is the plain absolute difference of two normalized
// headings, in [0, 360). It does not wrap at the seam: 350 and 10 are 340
// apart.
func HeadingDifference(a, b float64) float64 {
	return math.Abs(NormalizeHeading(a) - NormalizeHeading(b))
}

// Direction converts a heading into a unit vector on the ground plane.
func Direction(heading float64) Vector3 {
	rad := NormalizeHeading(heading) * math.Pi / 180
	return Vector3{X: -math.Sin(rad), Y: math.Cos(rad)}
}

// HeadingTowards returns the heading that points from a to b.
func HeadingTowards(a, b Vector3) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	return NormalizeHeading(math.Atan2(-dx, dy) * 180 / math.Pi)
}
