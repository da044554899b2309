// ABOUTME: MemoryOracle answers nearest-node queries over an in-memory node set
// ABOUTME: Nodes are bucketed in a 2D grid so lookups only scan nearby cells
package storage

import (
	"math"
	"sync"

	"github.com/harper/roadblock/internal/models"
)

// DefaultCellSize is the grid cell edge used when none is given
const DefaultCellSize = 25.0

type cell struct{ x, y int }

// MemoryOracle is a NodeOracle over a fixed node set
type MemoryOracle struct {
	mu       sync.RWMutex
	cellSize float64
	nodes    []models.NodeInfo
	grid     map[cell][]int
	min, max cell
}

// NewMemoryOracle indexes nodes. cellSize <= 0 uses DefaultCellSize.
func NewMemoryOracle(nodes []models.NodeInfo, cellSize float64) *MemoryOracle {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	o := &MemoryOracle{cellSize: cellSize, grid: make(map[cell][]int)}
	o.Add(nodes...)
	return o
}

// NewMemoryOracleFromNetwork indexes every node of a network file
func NewMemoryOracleFromNetwork(n *Network) (*MemoryOracle, error) {
	nodes, err := n.NodeInfos()
	if err != nil {
		return nil, err
	}
	return NewMemoryOracle(nodes, DefaultCellSize), nil
}

func (o *MemoryOracle) cellOf(p models.Vector3) cell {
	return cell{int(math.Floor(p.X / o.cellSize)), int(math.Floor(p.Y / o.cellSize))}
}

// Add indexes more nodes
func (o *MemoryOracle) Add(nodes ...models.NodeInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, n := range nodes {
		c := o.cellOf(n.Position)
		if len(o.nodes) == 0 {
			o.min, o.max = c, c
		}
		o.min = cell{min(o.min.x, c.x), min(o.min.y, c.y)}
		o.max = cell{max(o.max.x, c.x), max(o.max.y, c.y)}
		o.grid[c] = append(o.grid[c], len(o.nodes))
		o.nodes = append(o.nodes, n)
	}
}

// Len returns the number of indexed nodes
func (o *MemoryOracle) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.nodes)
}

// Nodes returns a copy of every indexed node
func (o *MemoryOracle) Nodes() []models.NodeInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]models.NodeInfo(nil), o.nodes...)
}

// FindNearestNode returns the node of nodeType closest to position, or
// models.NoNode when none is accepted. Rings of cells are scanned outward until
// no unscanned cell can hold anything closer.
func (o *MemoryOracle) FindNearestNode(position models.Vector3, nodeType models.NodeType) models.NodeInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if len(o.nodes) == 0 {
		return models.NoNode()
	}

	center := o.cellOf(position)
	maxRing := max(
		abs(center.x-o.min.x), abs(center.x-o.max.x),
		abs(center.y-o.min.y), abs(center.y-o.max.y),
	)

	var (
		best     = models.NoNode()
		bestDist = math.Inf(1)
	)
	for ring := 0; ring <= maxRing; ring++ {
		// anything in this ring is at least (ring-1) cells away
		if float64(ring-1)*o.cellSize > bestDist {
			break
		}
		for _, c := range ringCells(center, ring) {
			for _, i := range o.grid[c] {
				n := o.nodes[i]
				if !nodeType.Accepts(n.Flags) {
					continue
				}
				if d := n.Position.Distance(position); d < bestDist {
					best, bestDist = n, d
				}
			}
		}
	}
	return best
}

// ringCells lists the cells exactly ring steps from center (Chebyshev)
func ringCells(center cell, ring int) []cell {
	if ring == 0 {
		return []cell{center}
	}
	cells := make([]cell, 0, 8*ring)
	for dx := -ring; dx <= ring; dx++ {
		cells = append(cells, cell{center.x + dx, center.y - ring}, cell{center.x + dx, center.y + ring})
	}
	for dy := -ring + 1; dy <= ring-1; dy++ {
		cells = append(cells, cell{center.x - ring, center.y + dy}, cell{center.x + ring, center.y + dy})
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
