// ABOUTME: RoadSegment and Lane describe the resolved road a roadblock is placed on
// ABOUTME: A segment is classified as road or intersection from its terminal node
package models

import (
	"errors"
	"fmt"
)

// RoadKind classifies a resolved segment
type RoadKind string

const (
	RoadKindRoad         RoadKind = "road"
	RoadKindIntersection RoadKind = "intersection"
)

// Lane is one lane of a resolved road
type Lane struct {
	Index    int     `json:"index"`
	Position Vector3 `json:"position"`
	Width    float64 `json:"width"`
	Heading  float64 `json:"heading"`
	Opposite bool    `json:"opposite"`
}

// DistanceTo returns the distance between two lane centers
func (l Lane) DistanceTo(o Lane) float64 {
	return l.Position.Distance(o.Position)
}

// RoadSegment is a road (non-junction) or intersection (junction) entity.
// Lanes are ordered from the heading-90 side of the road towards the
// heading+90 side.
type RoadSegment struct {
	ID    string   `json:"id"`
	Kind  RoadKind `json:"kind"`
	Node  NodeInfo `json:"node"`
	Lanes []Lane   `json:"lanes"`
}

// ClassifyRoadKind picks the segment kind from the node's junction flag
func ClassifyRoadKind(node NodeInfo) RoadKind {
	if node.IsJunction() {
		return RoadKindIntersection
	}
	return RoadKindRoad
}

// IsIntersection reports whether the segment was built from a junction node
func (r RoadSegment) IsIntersection() bool {
	return r.Kind == RoadKindIntersection
}

// Width sums the lane widths
func (r RoadSegment) Width() float64 {
	var w float64
	for _, l := range r.Lanes {
		w += l.Width
	}
	return w
}

// LanesInDirection returns the lanes flowing with (opposite=false) or
// against (opposite=true) the segment heading.
func (r RoadSegment) LanesInDirection(opposite bool) []Lane {
	lanes := make([]Lane, 0, len(r.Lanes))
	for _, l := range r.Lanes {
		if l.Opposite == opposite {
			lanes = append(lanes, l)
		}
	}
	return lanes
}

// Validate checks the segment has something to place on
func (r RoadSegment) Validate() error {
	if r.ID == "" {
		return errors.New("road segment ID cannot be empty")
	}
	if r.Kind != RoadKindRoad && r.Kind != RoadKindIntersection {
		return fmt.Errorf("invalid road kind %q", r.Kind)
	}
	if len(r.Lanes) == 0 {
		return errors.New("road segment has no lanes")
	}
	for i, l := range r.Lanes {
		if l.Width <= 0 {
			return fmt.Errorf("lane %d has non-positive width %.2f", i, l.Width)
		}
	}
	return nil
}
