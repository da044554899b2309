// ABOUTME: Lane selection for roadblock placement
// ABOUTME: Drops lanes packed too closely together, never returning an empty set
package core

import (
	"github.com/harper/roadblock/internal/metrics"
	"github.com/harper/roadblock/internal/models"
)

// DefaultLaneSpacing is the minimum distance between two selected lanes
const DefaultLaneSpacing = 4.0

// SelectLanes walks lanes in order and keeps each lane at least minSpacing
// away from the previously kept one. The first lane is always kept. If the
// filter would leave nothing the unfiltered lanes are returned instead.
func SelectLanes(lanes []models.Lane, minSpacing float64) []models.Lane {
	if len(lanes) == 0 {
		return []models.Lane{}
	}

	selected := make([]models.Lane, 0, len(lanes))
	for _, lane := range lanes {
		if len(selected) > 0 && lane.DistanceTo(selected[len(selected)-1]) < minSpacing {
			continue
		}
		selected = append(selected, lane)
	}

	if len(selected) == 0 {
		metrics.LaneFilterFallbacks.Inc()
		return append([]models.Lane(nil), lanes...)
	}
	return selected
}
