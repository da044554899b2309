// ABOUTME: Assembler turns a "block the road ahead" request into a roadblock
// ABOUTME: Traverses, resolves lanes, builds slots per tier and resolves clipping
package roadblock

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/models"
)

// ErrNoRoadFound is returned when no road node could be found ahead
var ErrNoRoadFound = errors.New("no road found")

// DefaultNodeType is used when a request leaves NodeType empty
const DefaultNodeType = models.AllRoadWithJunctions

// Request asks for a roadblock Distance units ahead of Position
type Request struct {
	Position  models.Vector3
	Heading   float64
	Distance  float64
	Tier      Tier
	NodeType  models.NodeType
	Blacklist models.NodeFlags
}

// AssemblerOptions configures the assembler
type AssemblerOptions struct {
	Roadblock Options
	// Rand drives vehicle assignment. Nil seeds from the runtime.
	Rand *rand.Rand
}

// Assembler builds roadblocks on top of the search engine
type Assembler struct {
	engine  *core.Engine
	spawner Spawner
	opts    Options
	logger  *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssembler creates an assembler
func NewAssembler(engine *core.Engine, spawner Spawner, opts AssemblerOptions, logger *log.Logger) *Assembler {
	if engine == nil {
		panic("roadblock: NewAssembler requires an Engine")
	}
	if spawner == nil {
		panic("roadblock: NewAssembler requires a Spawner")
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ro := opts.Roadblock
	if ro.Logger == nil {
		ro.Logger = logger
	}
	return &Assembler{
		engine:  engine,
		spawner: spawner,
		opts:    ro,
		logger:  logging.Component(logger, "assembler"),
		rng:     rng,
	}
}

// Assemble traverses to the road ahead and builds a roadblock in Preparing
func (a *Assembler) Assemble(req Request) (*Roadblock, error) {
	if err := req.Tier.Validate(); err != nil {
		return nil, err
	}
	nodeType := req.NodeType
	if nodeType == "" {
		nodeType = DefaultNodeType
	}

	road, path, ok := a.engine.FindRoad(core.TraverseRequest{
		Start:     req.Position,
		Heading:   req.Heading,
		Distance:  req.Distance,
		NodeType:  nodeType,
		Blacklist: req.Blacklist,
	})
	if !ok {
		a.logger.Warn("no road ahead", "position", req.Position, "heading", req.Heading, "distance", req.Distance)
		return nil, fmt.Errorf("%w ahead of %s heading %.1f", ErrNoRoadFound, req.Position, req.Heading)
	}

	rb := a.Build(road, path, req.Tier)
	a.logger.Info("roadblock assembled",
		"tier", req.Tier.Name,
		"road", road.Kind,
		"path_nodes", path.Len(),
		"distance", path.Distance,
		"slots", len(rb.slots))
	return rb, nil
}

// CloseRoad builds a closure roadblock on the road under position
func (a *Assembler) CloseRoad(position models.Vector3, heading float64) (*Roadblock, error) {
	return a.CloseRoadWith(position, heading, ClosureTier())
}

// CloseRoadWith closes the road under position using tier
func (a *Assembler) CloseRoadWith(position models.Vector3, heading float64, tier Tier) (*Roadblock, error) {
	if err := tier.Validate(); err != nil {
		return nil, err
	}
	road, ok := a.engine.ClosestRoad(position, heading, models.AllRoadNoJunctions, models.FlagNone)
	if !ok {
		return nil, fmt.Errorf("%w at %s", ErrNoRoadFound, position)
	}
	path := models.PathResult{Nodes: []models.NodeInfo{road.Node}}
	rb := a.Build(road, path, tier)
	a.logger.Info("road closed", "position", road.Node.Position, "lanes", len(rb.slots))
	return rb, nil
}

// Build lays the tier's slots out on an already resolved road
func (a *Assembler) Build(road models.RoadSegment, path models.PathResult, tier Tier) *Roadblock {
	heading := road.Node.Heading
	lanes := a.blockedLanes(road, tier)

	a.mu.Lock()
	slots := a.buildSlots(lanes, heading, tier)
	a.mu.Unlock()

	ResolveClipping(slots)
	return New(road, path, heading, tier, slots, a.spawner, a.opts)
}

// blockedLanes picks the lanes the tier blocks, spacing-filtered and capped
func (a *Assembler) blockedLanes(road models.RoadSegment, tier Tier) []models.Lane {
	lanes := road.Lanes
	if !tier.OppositeLanes {
		if same := road.LanesInDirection(false); len(same) > 0 {
			lanes = same
		}
	}

	selected := a.engine.SelectLanes(lanes)
	if tier.MaxSlots > 0 && len(selected) > tier.MaxSlots {
		selected = selected[:tier.MaxSlots]
	}
	return selected
}

// buildSlots assigns vehicles to a random subset of slots. Caller holds a.mu.
func (a *Assembler) buildSlots(lanes []models.Lane, heading float64, tier Tier) []Slot {
	withVehicle := make([]bool, len(lanes))
	if tier.HasVehicles() && len(tier.Vehicles) > 0 {
		n := tier.VehicleRange.Min + a.rng.IntN(tier.VehicleRange.Max-tier.VehicleRange.Min+1)
		if n > len(lanes) {
			n = len(lanes)
		}
		for _, i := range a.rng.Perm(len(lanes))[:n] {
			withVehicle[i] = true
		}
	}

	slots := make([]Slot, 0, len(lanes))
	for i, lane := range lanes {
		var (
			vehicle   *VehicleModel
			occupants []string
		)
		if withVehicle[i] {
			v := tier.Vehicles[a.rng.IntN(len(tier.Vehicles))]
			vehicle = &v
			occupants = a.pickOccupants(tier)
		}
		slots = append(slots, NewSlot(i, lane, heading, tier, vehicle, occupants))
	}
	return slots
}

func (a *Assembler) pickOccupants(tier Tier) []string {
	if len(tier.OccupantModels) == 0 || tier.Occupants.Max == 0 {
		return nil
	}
	n := tier.Occupants.Min + a.rng.IntN(tier.Occupants.Max-tier.Occupants.Min+1)
	occupants := make([]string, 0, n)
	for i := 0; i < n; i++ {
		occupants = append(occupants, tier.OccupantModels[a.rng.IntN(len(tier.OccupantModels))])
	}
	return occupants
}
