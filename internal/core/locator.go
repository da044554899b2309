// ABOUTME: Locator enumerates road nodes around a point in an expanding spiral
// ABOUTME: Samples the node oracle on concentric rings and deduplicates the results
package core

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/metrics"
	"github.com/harper/roadblock/internal/models"
)

// LocatorOptions tunes the ring sampling
type LocatorOptions struct {
	AngularStep     float64 // degrees between samples on a ring
	StartDistance   float64 // radius of the first ring
	RadialIncrement float64 // distance between rings
	QueryElevation  float64 // samples are raised by this much to clear geometry
}

// DefaultLocatorOptions samples every 20 degrees on rings 2 units apart,
// starting 1 unit out, 5 units above the ground.
func DefaultLocatorOptions() LocatorOptions {
	return LocatorOptions{
		AngularStep:     20,
		StartDistance:   1,
		RadialIncrement: 2,
		QueryElevation:  5,
	}
}

// Locator is the spiral node search
type Locator struct {
	oracle NodeOracle
	opts   LocatorOptions
	logger *log.Logger
}

// NewLocator creates a Locator. A nil oracle is a programming error.
func NewLocator(oracle NodeOracle, opts LocatorOptions, logger *log.Logger) *Locator {
	if oracle == nil {
		panic("core: NewLocator requires a NodeOracle")
	}
	def := DefaultLocatorOptions()
	if opts.AngularStep <= 0 || opts.AngularStep > 360 {
		opts.AngularStep = def.AngularStep
	}
	if opts.StartDistance <= 0 {
		opts.StartDistance = def.StartDistance
	}
	if opts.RadialIncrement <= 0 {
		opts.RadialIncrement = def.RadialIncrement
	}
	return &Locator{
		oracle: countingOracle{inner: oracle},
		opts:   opts,
		logger: logging.Component(logger, "locator"),
	}
}

// Options returns the effective sampling options
func (l *Locator) Options() LocatorOptions {
	return l.opts
}

// Locate returns every distinct node of nodeType found within radius of
// center, in discovery order. An empty result is valid.
func (l *Locator) Locate(center models.Vector3, nodeType models.NodeType, radius float64) []models.NodeInfo {
	found := []models.NodeInfo{}
	if radius <= 0 {
		return found
	}

	seen := make(map[models.Vector3]struct{})
	samples := int(math.Ceil(360 / l.opts.AngularStep))

	for _, distance := range ringDistances(l.opts.StartDistance, l.opts.RadialIncrement, radius) {
		for i := 0; i < samples; i++ {
			rad := float64(i) * l.opts.AngularStep * math.Pi / 180
			sample := models.Vector3{
				X: center.X + math.Sin(rad)*distance,
				Y: center.Y + math.Cos(rad)*distance,
				Z: center.Z + l.opts.QueryElevation,
			}

			node := l.oracle.FindNearestNode(sample, nodeType)
			if !node.Found() {
				continue
			}
			if _, dup := seen[node.Position]; dup {
				continue
			}
			seen[node.Position] = struct{}{}

			// the oracle answers even when the closest node is far away
			if node.Position.Distance2D(center) > radius {
				continue
			}
			found = append(found, node)
		}
	}

	metrics.LocatedNodes.Observe(float64(len(found)))
	l.logger.Debug("spiral search finished", "center", center, "type", nodeType, "radius", radius, "nodes", len(found))
	return found
}

// ringDistances lists the ring radii: start, start+inc, ... with the last
// ring clamped so it lands exactly on radius instead of overshooting.
func ringDistances(start, increment, radius float64) []float64 {
	if start > radius {
		return []float64{radius}
	}
	var rings []float64
	d := start
	for {
		rings = append(rings, d)
		if d >= radius {
			break
		}
		next := d + increment
		if next > radius {
			next = radius
		}
		d = next
	}
	return rings
}
