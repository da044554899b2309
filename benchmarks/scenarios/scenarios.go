// ABOUTME: Benchmark scenarios over synthetic road networks
// ABOUTME: Each scenario pairs a network and a walk with the outcome it must produce

package scenarios

import (
	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/roadblock"
	"github.com/harper/roadblock/internal/storage"
)

// Scenario is one benchmark case
type Scenario struct {
	ID          string
	Name        string
	Description string
	Network     *storage.Network
	Walk        core.TraverseRequest
	Tier        *roadblock.Tier // nil runs the walk only
	Expect      Expectation
}

// Expectation is what a scenario must produce to pass
type Expectation struct {
	MinNodes          int
	Aborted           bool
	MinFailedAttempts int
	CrossesJunction   bool
	Placed            bool
	MinShifts         int
}

func presetTier(name string) *roadblock.Tier {
	t, err := roadblock.TierByName(name)
	if err != nil {
		panic(err)
	}
	return &t
}

// GetStraightRoad walks a four lane avenue and places a state roadblock
func GetStraightRoad() Scenario {
	return Scenario{
		ID:          "straight",
		Name:        "Straight Road",
		Description: "Walk 80 units up a 2+2 lane avenue and block the lanes in the walking direction",
		Network: storage.NewBuilder().
			Straight(models.Vector3{}, 0, 40, 5, 2, 2, models.FlagMainRoad).
			Network("straight"),
		Walk: core.TraverseRequest{
			Heading:  0,
			Distance: 80,
			NodeType: models.AllRoadWithJunctions,
		},
		Tier: presetTier("state"),
		Expect: Expectation{
			MinNodes: 16,
			Placed:   true,
		},
	}
}

// GetJunctionCrossing walks through a crossing that sits inside the target distance
func GetJunctionCrossing() Scenario {
	return Scenario{
		ID:          "junction",
		Name:        "Junction Crossing",
		Description: "The walk reaches a crossing exactly at its distance and must continue onto the far arm",
		Network: storage.NewBuilder().
			Crossing(models.Vector3{Y: 50}, 0, 10, 5, 1).
			Network("junction"),
		Walk: core.TraverseRequest{
			Start:    models.Vector3{Y: 5},
			Heading:  0,
			Distance: 45,
			NodeType: models.AllRoadWithJunctions,
		},
		Tier: presetTier("local"),
		Expect: Expectation{
			MinNodes:        10,
			CrossesJunction: true,
			Placed:          true,
		},
	}
}

// GetSparseRoad walks a road whose nodes are further apart than the base step
func GetSparseRoad() Scenario {
	return Scenario{
		ID:          "sparse",
		Name:        "Sparse Road",
		Description: "Nodes 18 units apart force the probe step to grow before each hit",
		Network: storage.NewBuilder().
			Straight(models.Vector3{}, 0, 12, 18, 1, 1, models.FlagNone).
			Network("sparse"),
		Walk: core.TraverseRequest{
			Heading:  0,
			Distance: 90,
			NodeType: models.AllRoadNoJunctions,
		},
		Expect: Expectation{
			MinNodes:          5,
			MinFailedAttempts: 2,
		},
	}
}

// GetDeadEnd walks past the end of a short road
func GetDeadEnd() Scenario {
	return Scenario{
		ID:          "dead_end",
		Name:        "Dead End",
		Description: "The road stops after 40 units; the walk gives up and keeps what it found",
		Network: storage.NewBuilder().
			Straight(models.Vector3{}, 0, 9, 5, 1, 1, models.FlagNone).
			Network("dead_end"),
		Walk: core.TraverseRequest{
			Heading:  0,
			Distance: 100,
			NodeType: models.AllRoadWithJunctions,
		},
		Tier: presetTier("local"),
		Expect: Expectation{
			MinNodes:          8,
			Aborted:           true,
			MinFailedAttempts: 5,
			Placed:            true,
		},
	}
}

// GetMultiLaneClipping blocks six lanes with vehicles longer than a lane
func GetMultiLaneClipping() Scenario {
	heavy := roadblock.Tier{
		Name:           "heavy",
		Level:          5,
		VehicleRange:   roadblock.Range{Min: 6, Max: 6},
		Vehicles:       []roadblock.VehicleModel{{Model: "riot", Length: 6.8, Width: 2.8}},
		Occupants:      roadblock.Range{Min: 1, Max: 1},
		OccupantModels: []string{"s_m_y_swat_01"},
		OppositeLanes:  true,
		Backup:         roadblock.BackupSwat,
	}
	return Scenario{
		ID:          "clipping",
		Name:        "Multi-Lane Clipping",
		Description: "Every slot overhangs its lane, so all but the last vehicle shift across",
		Network: storage.NewBuilder().
			Straight(models.Vector3{}, 0, 20, 5, 3, 3, models.FlagMainRoad).
			Network("clipping"),
		Walk: core.TraverseRequest{
			Heading:  0,
			Distance: 40,
			NodeType: models.MainRoadsWithJunctions,
		},
		Tier: &heavy,
		Expect: Expectation{
			MinNodes:  8,
			Placed:    true,
			MinShifts: 5,
		},
	}
}

// All returns every scenario in run order
func All() []Scenario {
	return []Scenario{
		GetStraightRoad(),
		GetJunctionCrossing(),
		GetSparseRoad(),
		GetDeadEnd(),
		GetMultiLaneClipping(),
	}
}

// ByID finds a scenario
func ByID(id string) (Scenario, bool) {
	for _, s := range All() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
