// ABOUTME: Prometheus metrics for road search, traversal and roadblock lifecycle
// ABOUTME: Registered on the default registry and served by cmd/server
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OracleQueries counts nearest-node queries issued to the host oracle
	OracleQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadblock_oracle_queries_total",
		Help: "Total nearest-node queries issued to the node oracle",
	})

	// LocatedNodes tracks how many distinct nodes one spiral search finds
	LocatedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadblock_located_nodes",
		Help:    "Distinct nodes discovered per spiral search",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
	})

	// Traversals counts finished traversals by result
	Traversals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadblock_traversals_total",
		Help: "Total road traversals by result (complete, junction, aborted, empty)",
	}, []string{"result"})

	// TraversalFailedAttempts counts probes that found no usable node
	TraversalFailedAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadblock_traversal_failed_attempts_total",
		Help: "Total traversal probes that found no usable next node",
	})

	// TraversalDistance tracks distance covered per traversal
	TraversalDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadblock_traversal_distance_units",
		Help:    "Distance covered per traversal in world units",
		Buckets: prometheus.LinearBuckets(0, 25, 10),
	})

	// LaneFilterFallbacks counts lane selections that fell back to all lanes
	LaneFilterFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadblock_lane_filter_fallbacks_total",
		Help: "Total lane selections that discarded the spacing filter",
	})

	// SlotShifts counts vehicles moved to resolve clipping
	SlotShifts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadblock_slot_shifts_total",
		Help: "Total slot vehicles shifted to avoid clipping",
	})

	// StateTransitions counts roadblock state changes by target state
	StateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadblock_state_transitions_total",
		Help: "Total roadblock state transitions by target state",
	}, []string{"state"})
)
