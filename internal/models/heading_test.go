// ABOUTME: Tests for heading normalization, deltas and direction vectors
// ABOUTME: Covers wrap-around at the 0/360 seam
package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-360, 0},
		{725, 5},
		{359.5, 359.5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeHeading(tt.in), 1e-9, "NormalizeHeading(%v)", tt.in)
	}
}

func TestNormalizeHeading_RangeAndPeriodicity(t *testing.T) {
	for h := -1080.0; h <= 1080.0; h += 7.25 {
		n := NormalizeHeading(h)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.Less(t, n, 360.0)
		assert.InDelta(t, n, NormalizeHeading(h+360), 1e-9, "heading %v", h)
	}
}

func TestNormalizeHeading_NonFinite(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeHeading(math.NaN()))
	assert.Equal(t, 0.0, NormalizeHeading(math.Inf(1)))
}

func TestHeadingDifference(t *testing.T) {
	assert.InDelta(t, 340, HeadingDifference(350, 10), 1e-9)
	assert.InDelta(t, 340, HeadingDifference(10, 350), 1e-9)
	assert.InDelta(t, 180, HeadingDifference(0, 180), 1e-9)
	assert.InDelta(t, 0, HeadingDifference(45, 405), 1e-9)
	assert.InDelta(t, 270, HeadingDifference(-45, 45), 1e-9)
	assert.InDelta(t, 245, HeadingDifference(245, 0), 1e-9)
}

func TestDirection(t *testing.T) {
	north := Direction(0)
	assert.InDelta(t, 0, north.X, 1e-9)
	assert.InDelta(t, 1, north.Y, 1e-9)

	west := Direction(90)
	assert.InDelta(t, -1, west.X, 1e-9)
	assert.InDelta(t, 0, west.Y, 1e-9)

	east := Direction(-90)
	assert.InDelta(t, 1, east.X, 1e-9)
}

func TestHeadingTowards_RoundTrip(t *testing.T) {
	origin := Vector3{X: 3, Y: -2}
	for _, h := range []float64{0, 30, 90, 179, 270, 359} {
		target := origin.Add(Direction(h).Scale(10))
		assert.InDelta(t, h, HeadingTowards(origin, target), 1e-6, "heading %v", h)
	}
	assert.Equal(t, 0.0, HeadingTowards(origin, origin))
}
