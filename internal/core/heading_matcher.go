// ABOUTME: HeadingMatcher picks the road node that best continues a heading
// ABOUTME: Applies junction override and reversal corrections to the closest candidate
package core

import (
	"github.com/charmbracelet/log"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/models"
)

const (
	// Junction headings at or beyond this delta are replaced by the desired heading
	JunctionOverrideDelta = 65.0
	// Nodes beyond this delta face the other way and are reversed
	ReversalDelta = 115.0
	// DefaultMatchRadius is the spiral radius searched around a probe point
	DefaultMatchRadius = 10.0
)

// HeadingMatcher selects one node per probe point
type HeadingMatcher struct {
	locator *Locator
	radius  float64
	logger  *log.Logger
}

// NewHeadingMatcher creates a matcher searching radius around each origin
func NewHeadingMatcher(locator *Locator, radius float64, logger *log.Logger) *HeadingMatcher {
	if locator == nil {
		panic("core: NewHeadingMatcher requires a Locator")
	}
	if radius <= 0 {
		radius = DefaultMatchRadius
	}
	return &HeadingMatcher{
		locator: locator,
		radius:  radius,
		logger:  logging.Component(logger, "matcher"),
	}
}

// Match returns the node closest to origin whose flags avoid blacklist,
// corrected to follow desiredHeading. ok is false when no candidate survives.
func (m *HeadingMatcher) Match(origin models.Vector3, desiredHeading float64, nodeType models.NodeType, blacklist models.NodeFlags) (models.NodeInfo, bool) {
	candidates := m.locator.Locate(origin, nodeType, m.radius)

	best, ok := closestNode(origin, candidates, func(n models.NodeInfo) bool {
		return !n.Flags.Intersects(blacklist)
	})
	if !ok {
		m.logger.Debug("no candidate node", "origin", origin, "candidates", len(candidates), "blacklist", blacklist)
		return models.NodeInfo{}, false
	}

	return correctHeading(best, desiredHeading), true
}

// correctHeading applies the junction override first, then reversal.
func correctHeading(node models.NodeInfo, desired float64) models.NodeInfo {
	delta := models.HeadingDifference(node.Heading, desired)
	switch {
	case node.IsJunction() && delta >= JunctionOverrideDelta:
		// junction headings do not predict through-traffic direction
		return node.WithHeading(desired)
	case delta > ReversalDelta:
		return node.Reversed()
	}
	return node
}

// closestNode folds candidates into the one nearest to origin on the ground
// plane. Ties keep the earlier candidate.
func closestNode(origin models.Vector3, candidates []models.NodeInfo, keep func(models.NodeInfo) bool) (models.NodeInfo, bool) {
	return foldNodes(candidates, func(best, next models.NodeInfo) bool {
		return next.Position.Distance2D(origin) < best.Position.Distance2D(origin)
	}, keep)
}

// foldNodes reduces nodes to a single winner. better reports whether next
// should replace the current best; keep filters candidates out entirely.
func foldNodes(nodes []models.NodeInfo, better func(best, next models.NodeInfo) bool, keep func(models.NodeInfo) bool) (models.NodeInfo, bool) {
	var (
		best  models.NodeInfo
		found bool
	)
	for _, n := range nodes {
		if keep != nil && !keep(n) {
			continue
		}
		if !found || better(best, n) {
			best, found = n, true
		}
	}
	return best, found
}
