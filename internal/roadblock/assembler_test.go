// ABOUTME: Tests for assembling roadblocks on a synthetic straight road
// ABOUTME: Uses a seeded random source so vehicle assignment is reproducible
package roadblock

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/models"
)

// straightOracle answers with nodes every 5 units along +Y from 0 to 200,
// two lanes each way. Positions beyond 500 units off the road find nothing.
func straightOracle() core.NodeOracle {
	return core.OracleFunc(func(p models.Vector3, _ models.NodeType) models.NodeInfo {
		if math.Abs(p.X) > 500 {
			return models.NoNode()
		}
		y := math.Round(p.Y/5) * 5
		y = math.Max(0, math.Min(200, y))
		return models.NewNodeInfo(models.Vector3{Y: y}, 0, 2, 2, 1, models.FlagNone)
	})
}

func newTestAssembler(spawner Spawner) *Assembler {
	engine := core.NewEngine(straightOracle(), core.DefaultEngineOptions(), nil)
	return NewAssembler(engine, spawner, AssemblerOptions{
		Rand: rand.New(rand.NewPCG(1, 2)),
	}, nil)
}

func TestAssemble_LocalTier(t *testing.T) {
	tier, err := TierByName("local")
	require.NoError(t, err)
	spawner := newFakeSpawner()
	a := newTestAssembler(spawner)

	rb, err := a.Assemble(Request{Heading: 0, Distance: 50, Tier: tier})
	require.NoError(t, err)
	assert.Equal(t, StatePreparing, rb.State())
	assert.Zero(t, spawner.liveCount())

	assert.GreaterOrEqual(t, rb.Path().Distance, 50.0)
	assert.Equal(t, models.RoadKindRoad, rb.Road().Kind)

	slots := rb.Slots()
	// local blocks only its own direction and caps at two slots
	require.Len(t, slots, 2)
	vehicles := 0
	for _, s := range slots {
		assert.False(t, s.Lane.Opposite)
		if s.HasVehicle() {
			vehicles++
			assert.Len(t, s.Occupants, 1)
		}
	}
	assert.GreaterOrEqual(t, vehicles, tier.VehicleRange.Min)
	assert.LessOrEqual(t, vehicles, tier.VehicleRange.Max)

	require.True(t, rb.Spawn())
	assert.Equal(t, StateActive, rb.State())
	rb.Dispose()
	assert.Zero(t, spawner.liveCount())
}

func TestAssemble_OppositeLanes(t *testing.T) {
	tier, err := TierByName("swat")
	require.NoError(t, err)

	rb, err := newTestAssembler(newFakeSpawner()).Assemble(Request{Distance: 30, Tier: tier})
	require.NoError(t, err)

	slots := rb.Slots()
	require.Len(t, slots, 4)
	assert.True(t, slots[3].Lane.Opposite)

	// riot vans overhang a 5.5 lane, so some slot must have moved unless
	// every neighbor had room
	for i := 0; i+1 < len(slots); i++ {
		cur := slots[i]
		if !cur.HasVehicle() || cur.Diff() > 0 {
			continue
		}
		next := slots[i+1].Diff()
		if next > 0 && next >= math.Abs(cur.Diff()) {
			assert.Zero(t, cur.Shift)
		} else {
			assert.InDelta(t, math.Abs(cur.Diff())+ClippingMargin, cur.Shift, 1e-9)
		}
	}
}

func TestAssemble_SameSeedSameLayout(t *testing.T) {
	tier, err := TierByName("federal")
	require.NoError(t, err)

	first, err := newTestAssembler(newFakeSpawner()).Assemble(Request{Distance: 20, Tier: tier})
	require.NoError(t, err)
	second, err := newTestAssembler(newFakeSpawner()).Assemble(Request{Distance: 20, Tier: tier})
	require.NoError(t, err)

	a, b := first.Slots(), second.Slots()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].HasVehicle(), b[i].HasVehicle())
		assert.Equal(t, a[i].VehiclePosition, b[i].VehiclePosition)
	}
}

func TestAssemble_NoRoad(t *testing.T) {
	tier, err := TierByName("local")
	require.NoError(t, err)

	_, err = newTestAssembler(newFakeSpawner()).Assemble(Request{
		Position: models.Vector3{X: 1000},
		Distance: 50,
		Tier:     tier,
	})
	assert.ErrorIs(t, err, ErrNoRoadFound)
}

func TestAssemble_InvalidTier(t *testing.T) {
	_, err := newTestAssembler(newFakeSpawner()).Assemble(Request{Distance: 50, Tier: Tier{}})
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestCloseRoad(t *testing.T) {
	spawner := newFakeSpawner()
	rb, err := newTestAssembler(spawner).CloseRoad(models.Vector3{Y: 42}, 0)
	require.NoError(t, err)

	assert.Equal(t, "closure", rb.Tier().Name)
	assert.InDelta(t, 40, rb.Road().Node.Position.Y, 1e-9)
	slots := rb.Slots()
	require.Len(t, slots, 4)
	for _, s := range slots {
		assert.False(t, s.HasVehicle())
	}

	require.True(t, rb.Spawn())
	kinds := spawner.liveKinds()
	assert.Zero(t, kinds[KindVehicle])
	assert.Equal(t, 1, kinds[KindZone])
	assert.Zero(t, kinds[KindBlip])
	rb.Dispose()
}

func TestCloseRoad_NothingThere(t *testing.T) {
	_, err := newTestAssembler(newFakeSpawner()).CloseRoad(models.Vector3{X: 900}, 0)
	assert.ErrorIs(t, err, ErrNoRoadFound)
}
