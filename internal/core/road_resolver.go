// ABOUTME: RoadResolver turns a terminal path node into a RoadSegment with lanes
// ABOUTME: Lays lanes out across the road axis from the node's lane counts
package core

import (
	"github.com/google/uuid"

	"github.com/harper/roadblock/internal/models"
)

// DefaultLaneWidth is the width assumed for every lane of a resolved road
const DefaultLaneWidth = 5.5

// RoadResolver builds road segments from nodes
type RoadResolver struct {
	laneWidth float64
}

// NewRoadResolver creates a resolver using laneWidth for every lane
func NewRoadResolver(laneWidth float64) *RoadResolver {
	if laneWidth <= 0 {
		laneWidth = DefaultLaneWidth
	}
	return &RoadResolver{laneWidth: laneWidth}
}

// LaneWidth returns the width used for each lane
func (r *RoadResolver) LaneWidth() float64 {
	return r.laneWidth
}

// Resolve classifies node as road or intersection and lays its lanes out.
// Same-direction lanes sit on the heading-90 side, opposite lanes follow.
// A node without lane metadata still yields one lane.
func (r *RoadResolver) Resolve(node models.NodeInfo) models.RoadSegment {
	same, opposite := node.LanesSameDirection, node.LanesOppositeDirection
	if same+opposite == 0 {
		same = 1
	}
	total := same + opposite
	right := models.Direction(node.Heading - 90)
	halfWidth := float64(total) * r.laneWidth / 2

	lanes := make([]models.Lane, 0, total)
	for i := 0; i < total; i++ {
		offset := halfWidth - r.laneWidth*(float64(i)+0.5)
		isOpposite := i >= same
		heading := node.Heading
		if isOpposite {
			heading = models.NormalizeHeading(heading + 180)
		}
		lanes = append(lanes, models.Lane{
			Index:    i,
			Position: node.Position.Add(right.Scale(offset)),
			Width:    r.laneWidth,
			Heading:  heading,
			Opposite: isOpposite,
		})
	}

	return models.RoadSegment{
		ID:    uuid.New().String(),
		Kind:  models.ClassifyRoadKind(node),
		Node:  node,
		Lanes: lanes,
	}
}

// ResolvePath resolves the terminal node of a traversal. ok is false for an
// empty path.
func (r *RoadResolver) ResolvePath(path models.PathResult) (models.RoadSegment, bool) {
	last, ok := path.Last()
	if !ok {
		return models.RoadSegment{}, false
	}
	return r.Resolve(last), true
}
