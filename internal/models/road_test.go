// ABOUTME: Tests for RoadSegment classification, lane helpers and PathResult
// ABOUTME: Verifies segment validation rules
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRoadKind(t *testing.T) {
	assert.Equal(t, RoadKindIntersection, ClassifyRoadKind(NodeInfo{Flags: FlagJunction}))
	assert.Equal(t, RoadKindRoad, ClassifyRoadKind(NodeInfo{Flags: FlagAlley}))
}

func TestRoadSegment_WidthAndDirections(t *testing.T) {
	seg := RoadSegment{
		ID:   "seg",
		Kind: RoadKindRoad,
		Lanes: []Lane{
			{Index: 0, Width: 5},
			{Index: 1, Width: 4.5},
			{Index: 2, Width: 5, Opposite: true},
		},
	}

	assert.InDelta(t, 14.5, seg.Width(), 1e-9)
	assert.Len(t, seg.LanesInDirection(false), 2)
	assert.Len(t, seg.LanesInDirection(true), 1)
	assert.NoError(t, seg.Validate())
	assert.False(t, seg.IsIntersection())
}

func TestRoadSegment_Validate(t *testing.T) {
	tests := []struct {
		name string
		seg  RoadSegment
	}{
		{"missing id", RoadSegment{Kind: RoadKindRoad, Lanes: []Lane{{Width: 1}}}},
		{"bad kind", RoadSegment{ID: "x", Kind: "bridge", Lanes: []Lane{{Width: 1}}}},
		{"no lanes", RoadSegment{ID: "x", Kind: RoadKindRoad}},
		{"zero width", RoadSegment{ID: "x", Kind: RoadKindRoad, Lanes: []Lane{{Width: 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.seg.Validate())
		})
	}
}

func TestPathResult(t *testing.T) {
	var empty PathResult
	assert.True(t, empty.Empty())
	_, ok := empty.Last()
	assert.False(t, ok)

	a := NewNodeInfo(Vector3{Y: 5}, 0, 1, 1, 0, FlagNone)
	b := NewNodeInfo(Vector3{Y: 10}, 0, 1, 1, 0, FlagNone)
	p := PathResult{Nodes: []NodeInfo{a, b}}

	last, ok := p.Last()
	assert.True(t, ok)
	assert.Equal(t, b, last)
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Contains(Vector3{Y: 5}))
	assert.False(t, p.Contains(Vector3{Y: 7}))
}

func TestVector3(t *testing.T) {
	a := Vector3{X: 3, Y: 4, Z: 12}
	assert.InDelta(t, 13, a.Distance(Vector3{}), 1e-9)
	assert.InDelta(t, 5, a.Distance2D(Vector3{}), 1e-9)
	assert.Equal(t, Vector3{X: 3, Y: 4, Z: 17}, a.Raise(5))
	assert.Equal(t, Vector3{X: 6, Y: 8, Z: 24}, a.Scale(2))
	assert.Equal(t, "(3.00, 4.00, 12.00)", a.String())
}
