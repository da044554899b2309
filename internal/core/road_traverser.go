// ABOUTME: RoadTraverser walks the road graph along a heading to cover a distance
// ABOUTME: Grows its probe step on misses, gives up after a bounded number of failures
package core

import (
	"github.com/charmbracelet/log"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/metrics"
	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/util"
)

// TraverseRequest describes one walk
type TraverseRequest struct {
	Start               models.Vector3
	Heading             float64
	Distance            float64
	NodeType            models.NodeType
	Blacklist           models.NodeFlags
	StopAtFirstJunction bool
}

// RoadTraverser builds paths by repeatedly matching the next node ahead
type RoadTraverser struct {
	matcher *HeadingMatcher
	backoff util.StepBackoff
	logger  *log.Logger
}

// NewRoadTraverser creates a traverser. A zero backoff uses the defaults.
func NewRoadTraverser(matcher *HeadingMatcher, backoff util.StepBackoff, logger *log.Logger) *RoadTraverser {
	if matcher == nil {
		panic("core: NewRoadTraverser requires a HeadingMatcher")
	}
	def := util.DefaultStepBackoff()
	if backoff.Base <= 0 {
		backoff.Base = def.Base
	}
	if backoff.Factor <= 1 {
		backoff.Factor = def.Factor
	}
	if backoff.MaxAttempts <= 0 {
		backoff.MaxAttempts = def.MaxAttempts
	}
	return &RoadTraverser{
		matcher: matcher,
		backoff: backoff,
		logger:  logging.Component(logger, "traverser"),
	}
}

// Traverse walks from req.Start along req.Heading until req.Distance is
// covered and the last node is not a junction. A short or empty path is a
// degraded result, not an error.
func (t *RoadTraverser) Traverse(req TraverseRequest) models.PathResult {
	var (
		result   models.PathResult
		last     = models.NewNodeInfo(req.Start, req.Heading, 0, 0, 0, models.FlagNone)
		failures int
		haveLast bool
	)

	for result.Distance < req.Distance || (haveLast && last.IsJunction()) {
		nodeType := req.NodeType
		if !haveLast && nodeType.IncludesJunctions() {
			// never start by snapping onto a junction
			nodeType = nodeType.WithoutJunctions()
		}

		step := t.backoff.Step(failures)
		probe := last.Position.Add(models.Direction(last.Heading).Scale(step))

		node, ok := t.matcher.Match(probe, last.Heading, nodeType, req.Blacklist)
		if !ok || node.Position == last.Position || result.Contains(node.Position) {
			failures++
			result.FailedAttempts++
			metrics.TraversalFailedAttempts.Inc()
			t.logger.Debug("probe missed", "probe", probe, "step", step, "failures", failures)

			if t.backoff.Exhausted(failures) {
				result.Aborted = true
				break
			}
			continue
		}

		result.Distance += last.Position.Distance(node.Position)
		result.Nodes = append(result.Nodes, node)
		last, haveLast = node, true
		failures = 0

		if req.StopAtFirstJunction && node.IsJunction() {
			metrics.Traversals.WithLabelValues("junction").Inc()
			metrics.TraversalDistance.Observe(result.Distance)
			return result
		}
	}

	if result.Aborted {
		kept := trimTrailingJunctions(result.Nodes)
		if len(kept) < len(result.Nodes) {
			result.Nodes = kept
			result.Distance = pathDistance(req.Start, kept)
		}
	}

	metrics.Traversals.WithLabelValues(traversalOutcome(result)).Inc()
	metrics.TraversalDistance.Observe(result.Distance)
	t.logger.Debug("traversal finished",
		"nodes", len(result.Nodes),
		"distance", result.Distance,
		"target", req.Distance,
		"aborted", result.Aborted)

	return result
}

// trimTrailingJunctions drops junction nodes from the end of an aborted
// walk, since a junction can never host a roadblock.
func trimTrailingJunctions(nodes []models.NodeInfo) []models.NodeInfo {
	end := len(nodes)
	for end > 0 && nodes[end-1].IsJunction() {
		end--
	}
	return nodes[:end]
}

// pathDistance sums the straight legs from start through every node
func pathDistance(start models.Vector3, nodes []models.NodeInfo) float64 {
	var (
		total float64
		prev  = start
	)
	for _, n := range nodes {
		total += prev.Distance(n.Position)
		prev = n.Position
	}
	return total
}

func traversalOutcome(r models.PathResult) string {
	switch {
	case r.Empty():
		return "empty"
	case r.Aborted:
		return "aborted"
	}
	return "complete"
}
