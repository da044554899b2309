// ABOUTME: Builder lays out synthetic road networks from straight runs and crossings
// ABOUTME: Used for sample networks, benchmarks and tests
package storage

import (
	"github.com/harper/roadblock/internal/models"
)

// Builder accumulates nodes for a synthetic network
type Builder struct {
	nodes []models.NodeInfo
	seen  map[models.Vector3]bool
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{seen: make(map[models.Vector3]bool)}
}

// Node adds a single node. A node at an existing position is ignored.
func (b *Builder) Node(n models.NodeInfo) *Builder {
	if b.seen[n.Position] {
		return b
	}
	b.seen[n.Position] = true
	b.nodes = append(b.nodes, n)
	return b
}

// Straight lays count nodes every spacing units from start along heading
func (b *Builder) Straight(start models.Vector3, heading float64, count int, spacing float64, lanesSame, lanesOpposite int, flags models.NodeFlags) *Builder {
	dir := models.Direction(heading)
	for i := 0; i < count; i++ {
		pos := start.Add(dir.Scale(float64(i) * spacing))
		b.Node(models.NewNodeInfo(pos, heading, lanesSame, lanesOpposite, 1, flags))
	}
	return b
}

// Crossing adds a junction at center with arms roads of armLength nodes
// leaving it every 90 degrees starting at heading
func (b *Builder) Crossing(center models.Vector3, heading float64, armLength int, spacing float64, lanes int) *Builder {
	b.Node(models.NewNodeInfo(center, heading, lanes, lanes, 2, models.FlagJunction))
	for arm := 0; arm < 4; arm++ {
		h := heading + float64(arm)*90
		start := center.Add(models.Direction(h).Scale(spacing))
		b.Straight(start, h, armLength, spacing, lanes, lanes, models.FlagNone)
	}
	return b
}

// Nodes returns the accumulated nodes
func (b *Builder) Nodes() []models.NodeInfo {
	return append([]models.NodeInfo(nil), b.nodes...)
}

// Network wraps the nodes into a named network
func (b *Builder) Network(name string) *Network {
	return NewNetwork(name, b.nodes)
}

// Oracle indexes the nodes in a MemoryOracle
func (b *Builder) Oracle() *MemoryOracle {
	return NewMemoryOracle(b.nodes, DefaultCellSize)
}

// SampleNetwork is a small town: a main avenue crossed by a side street,
// with a gravel road continuing past the end of the crossing's west arm.
func SampleNetwork() *Network {
	return NewBuilder().
		Straight(models.Vector3{}, 0, 20, 5, 2, 2, models.FlagMainRoad).
		Crossing(models.Vector3{Y: 100}, 0, 12, 5, 1).
		Straight(models.Vector3{Y: 160}, 0, 20, 5, 2, 2, models.FlagMainRoad).
		Straight(models.Vector3{X: -65, Y: 100}, 90, 15, 5, 1, 0, models.FlagGravelRoad).
		Network("sample")
}
