// ABOUTME: Engine wires the locator, matcher, traverser and road resolver together
// ABOUTME: Single entry point used by the roadblock assembler, CLI and MCP tools
package core

import (
	"github.com/charmbracelet/log"

	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/util"
)

// EngineOptions collects the tunables of every search component
type EngineOptions struct {
	Locator     LocatorOptions
	MatchRadius float64
	Backoff     util.StepBackoff
	LaneWidth   float64
	LaneSpacing float64
}

// DefaultEngineOptions returns the stock tuning
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Locator:     DefaultLocatorOptions(),
		MatchRadius: DefaultMatchRadius,
		Backoff:     util.DefaultStepBackoff(),
		LaneWidth:   DefaultLaneWidth,
		LaneSpacing: DefaultLaneSpacing,
	}
}

// Engine is the road search and traversal engine over one oracle
type Engine struct {
	Locator   *Locator
	Matcher   *HeadingMatcher
	Traverser *RoadTraverser
	Resolver  *RoadResolver

	laneSpacing float64
}

// NewEngine builds every component around oracle
func NewEngine(oracle NodeOracle, opts EngineOptions, logger *log.Logger) *Engine {
	locator := NewLocator(oracle, opts.Locator, logger)
	matcher := NewHeadingMatcher(locator, opts.MatchRadius, logger)
	spacing := opts.LaneSpacing
	if spacing <= 0 {
		spacing = DefaultLaneSpacing
	}
	return &Engine{
		Locator:     locator,
		Matcher:     matcher,
		Traverser:   NewRoadTraverser(matcher, opts.Backoff, logger),
		Resolver:    NewRoadResolver(opts.LaneWidth),
		laneSpacing: spacing,
	}
}

// Locate runs a spiral search
func (e *Engine) Locate(center models.Vector3, nodeType models.NodeType, radius float64) []models.NodeInfo {
	return e.Locator.Locate(center, nodeType, radius)
}

// Traverse walks the road graph
func (e *Engine) Traverse(req TraverseRequest) models.PathResult {
	return e.Traverser.Traverse(req)
}

// FindRoad traverses and resolves the terminal node into a road segment.
// ok is false when the traversal found nothing.
func (e *Engine) FindRoad(req TraverseRequest) (models.RoadSegment, models.PathResult, bool) {
	path := e.Traverser.Traverse(req)
	road, ok := e.Resolver.ResolvePath(path)
	return road, path, ok
}

// ClosestRoad resolves the road under position without walking: the best
// node matching heading is used directly.
func (e *Engine) ClosestRoad(position models.Vector3, heading float64, nodeType models.NodeType, blacklist models.NodeFlags) (models.RoadSegment, bool) {
	node, ok := e.Matcher.Match(position, heading, nodeType, blacklist)
	if !ok {
		return models.RoadSegment{}, false
	}
	return e.Resolver.Resolve(node), true
}

// SelectLanes applies the engine's lane spacing
func (e *Engine) SelectLanes(lanes []models.Lane) []models.Lane {
	return SelectLanes(lanes, e.laneSpacing)
}
