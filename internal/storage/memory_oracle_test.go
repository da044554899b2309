// ABOUTME: Tests for the grid-indexed in-memory oracle
// ABOUTME: Results are checked against a brute-force scan
package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/models"
)

var _ core.NodeOracle = (*MemoryOracle)(nil)

func bruteNearest(nodes []models.NodeInfo, p models.Vector3, t models.NodeType) models.NodeInfo {
	var best models.NodeInfo
	bestDist := math.Inf(1)
	for _, n := range nodes {
		if !t.Accepts(n.Flags) {
			continue
		}
		if d := n.Position.Distance(p); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

func TestMemoryOracle_Empty(t *testing.T) {
	o := NewMemoryOracle(nil, 0)
	assert.False(t, o.FindNearestNode(models.Vector3{}, models.AllNodes).Found())
	assert.Zero(t, o.Len())
}

func TestMemoryOracle_MatchesBruteForce(t *testing.T) {
	nodes := SampleNetwork()
	all, err := nodes.NodeInfos()
	require.NoError(t, err)
	o := NewMemoryOracle(all, 10)

	probes := []models.Vector3{
		{}, {X: 3, Y: 47}, {X: -40, Y: 101}, {X: 500, Y: -500}, {X: -130, Y: 99}, {Y: 260},
	}
	types := []models.NodeType{models.AllNodes, models.AllRoadNoJunctions, models.MainRoadsNoJunctions}
	for _, p := range probes {
		for _, nt := range types {
			want := bruteNearest(all, p, nt)
			got := o.FindNearestNode(p, nt)
			assert.InDelta(t, want.Position.Distance(p), got.Position.Distance(p), 1e-9, "probe %s type %s", p, nt)
		}
	}
}

func TestMemoryOracle_FiltersByType(t *testing.T) {
	o := NewBuilder().
		Node(models.NewNodeInfo(models.Vector3{}, 0, 1, 1, 1, models.FlagJunction)).
		Node(models.NewNodeInfo(models.Vector3{Y: 40}, 0, 1, 1, 1, models.FlagNone)).
		Oracle()

	assert.True(t, o.FindNearestNode(models.Vector3{Y: 1}, models.AllNodes).IsJunction())
	got := o.FindNearestNode(models.Vector3{Y: 1}, models.AllRoadNoJunctions)
	assert.InDelta(t, 40, got.Position.Y, 1e-9)
	assert.False(t, o.FindNearestNode(models.Vector3{}, models.MainRoadsWithJunctions).Found())
}

func TestMemoryOracle_DrivesEngine(t *testing.T) {
	o := NewBuilder().Straight(models.Vector3{}, 0, 30, 5, 2, 2, models.FlagNone).Oracle()
	engine := core.NewEngine(o, core.DefaultEngineOptions(), nil)

	road, path, ok := engine.FindRoad(core.TraverseRequest{Heading: 0, Distance: 50, NodeType: models.AllRoadWithJunctions})
	require.True(t, ok)
	assert.GreaterOrEqual(t, path.Distance, 50.0)
	assert.Len(t, road.Lanes, 4)
}
