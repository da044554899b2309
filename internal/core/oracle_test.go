// ABOUTME: Test oracles shared by the core package tests
// ABOUTME: Brute-force nearest node over a fixed node list plus a query recorder
package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harper/roadblock/internal/models"
)

// listOracle answers with the nearest accepted node, or the zero node
type listOracle struct {
	nodes   []models.NodeInfo
	queries []models.Vector3
}

func (o *listOracle) FindNearestNode(position models.Vector3, nodeType models.NodeType) models.NodeInfo {
	o.queries = append(o.queries, position)
	best, ok := foldNodes(o.nodes, func(best, next models.NodeInfo) bool {
		return next.Position.Distance(position) < best.Position.Distance(position)
	}, func(n models.NodeInfo) bool {
		return nodeType.Accepts(n.Flags)
	})
	if !ok {
		return models.NoNode()
	}
	return best
}

// straightRoad lays nodes every spacing units along +Y starting at y=0
func straightRoad(count int, spacing float64, flags models.NodeFlags) []models.NodeInfo {
	nodes := make([]models.NodeInfo, 0, count)
	for i := 0; i < count; i++ {
		nodes = append(nodes, models.NewNodeInfo(
			models.Vector3{Y: float64(i) * spacing}, 0, 2, 2, 1, flags))
	}
	return nodes
}

func newTestEngine(oracle NodeOracle) *Engine {
	return NewEngine(oracle, DefaultEngineOptions(), nil)
}

func TestOracleFunc(t *testing.T) {
	want := models.NewNodeInfo(models.Vector3{X: 1}, 0, 1, 0, 0, models.FlagNone)
	var gotType models.NodeType
	f := OracleFunc(func(_ models.Vector3, nodeType models.NodeType) models.NodeInfo {
		gotType = nodeType
		return want
	})

	assert.Equal(t, want, f.FindNearestNode(models.Vector3{}, models.MainRoadsNoJunctions))
	assert.Equal(t, models.MainRoadsNoJunctions, gotType)
}
