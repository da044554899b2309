// ABOUTME: Slot binds one lane to its vehicle, occupants, barriers and lights
// ABOUTME: Computes the entity layout of a slot relative to the roadblock heading
package roadblock

import (
	"github.com/harper/roadblock/internal/models"
)

const (
	// occupantSpacing separates occupants standing side by side
	occupantSpacing = 1.5
	// occupantCover is how far behind the vehicle occupants take cover
	occupantCover = 2.5
	// lightSpacing separates lights in one row
	lightSpacing = 2.0
)

// Slot is the placement of blocking entities on one lane. Position is the
// lane center; VehiclePosition starts there and is moved by ResolveClipping.
type Slot struct {
	Index           int            `json:"index"`
	Lane            models.Lane    `json:"lane"`
	Heading         float64        `json:"heading"`
	Position        models.Vector3 `json:"position"`
	VehiclePosition models.Vector3 `json:"vehicle_position"`
	Vehicle         *VehicleModel  `json:"vehicle,omitempty"`
	Occupants       []string       `json:"occupants,omitempty"`
	Backup          BackupUnit     `json:"backup"`
	Barrier         BarrierModel   `json:"barrier"`
	Lights          LightPattern   `json:"lights"`
	Shift           float64        `json:"shift"`
}

// NewSlot places a slot on lane for a roadblock facing heading. vehicle may
// be nil for slots holding only barriers.
func NewSlot(index int, lane models.Lane, heading float64, tier Tier, vehicle *VehicleModel, occupants []string) Slot {
	s := Slot{
		Index:           index,
		Lane:            lane,
		Heading:         models.NormalizeHeading(heading),
		Position:        lane.Position,
		VehiclePosition: lane.Position,
		Backup:          tier.Backup,
		Barrier:         tier.Barrier,
		Lights:          tier.Lights,
	}
	if vehicle != nil {
		v := *vehicle
		s.Vehicle = &v
		s.Occupants = append([]string(nil), occupants...)
	} else {
		s.Backup = BackupNone
	}
	return s
}

// HasVehicle reports whether a vehicle is parked in the slot
func (s Slot) HasVehicle() bool {
	return s.Vehicle != nil
}

// VehicleLength is the bounding length of the parked vehicle, 0 without one
func (s Slot) VehicleLength() float64 {
	if s.Vehicle == nil {
		return 0
	}
	return s.Vehicle.Length
}

// Diff is the spare lane width left by the vehicle. Negative means the
// vehicle overhangs into a neighboring lane.
func (s Slot) Diff() float64 {
	return s.Lane.Width - s.VehicleLength()
}

// approach points from the slot towards oncoming traffic
func (s Slot) approach() models.Vector3 {
	return models.Direction(s.Heading + 180)
}

// across is the axis running over the lane, towards the heading-90 side
func (s Slot) across() models.Vector3 {
	return models.Direction(s.Heading - 90)
}

// row lays count entities out across the lane centered on origin
func (s Slot) row(origin models.Vector3, count int, spacing float64) []models.Vector3 {
	if count <= 0 {
		return nil
	}
	across := s.across()
	positions := make([]models.Vector3, 0, count)
	for i := 0; i < count; i++ {
		offset := (float64(i) - float64(count-1)/2) * spacing
		positions = append(positions, origin.Add(across.Scale(offset)))
	}
	return positions
}

// VehicleSpec is the parked vehicle, broadside across the lane
func (s Slot) VehicleSpec() (EntitySpec, bool) {
	if s.Vehicle == nil {
		return EntitySpec{}, false
	}
	return EntitySpec{
		Kind:     KindVehicle,
		Model:    s.Vehicle.Model,
		Position: s.VehiclePosition,
		Heading:  models.NormalizeHeading(s.Heading + 90),
	}, true
}

// OccupantSpecs places the occupants behind the vehicle facing traffic
func (s Slot) OccupantSpecs() []EntitySpec {
	if s.Vehicle == nil || len(s.Occupants) == 0 {
		return nil
	}
	cover := s.VehiclePosition.Sub(s.approach().Scale(occupantCover))
	positions := s.row(cover, len(s.Occupants), occupantSpacing)
	specs := make([]EntitySpec, 0, len(positions))
	for i, pos := range positions {
		specs = append(specs, EntitySpec{
			Kind:     KindPed,
			Model:    s.Occupants[i],
			Position: pos,
			Heading:  models.NormalizeHeading(s.Heading + 180),
		})
	}
	return specs
}

// BarrierCount is how many barriers fit across the lane, at least one
func (s Slot) BarrierCount() int {
	if s.Barrier.Model == "" {
		return 0
	}
	n := int(s.Lane.Width / s.Barrier.Spacing)
	if n < 1 {
		n = 1
	}
	return n
}

// BarrierSpecs places the barrier row on the approach side of the slot
func (s Slot) BarrierSpecs() []EntitySpec {
	origin := s.Position.Add(s.approach().Scale(s.Barrier.Offset))
	positions := s.row(origin, s.BarrierCount(), s.Barrier.Spacing)
	specs := make([]EntitySpec, 0, len(positions))
	for _, pos := range positions {
		specs = append(specs, EntitySpec{
			Kind:     KindBarrier,
			Model:    s.Barrier.Model,
			Position: pos,
			Heading:  s.Heading,
		})
	}
	return specs
}

// LightSpecs places the light row ahead of the barriers
func (s Slot) LightSpecs() []EntitySpec {
	if s.Lights.Model == "" {
		return nil
	}
	origin := s.Position.Add(s.approach().Scale(s.Lights.Offset))
	positions := s.row(origin, s.Lights.Count, lightSpacing)
	specs := make([]EntitySpec, 0, len(positions))
	for _, pos := range positions {
		specs = append(specs, EntitySpec{
			Kind:     KindLight,
			Model:    s.Lights.Model,
			Position: pos,
			Heading:  s.Heading,
		})
	}
	return specs
}

// Specs lists every entity of the slot in spawn order
func (s Slot) Specs() []EntitySpec {
	var specs []EntitySpec
	if v, ok := s.VehicleSpec(); ok {
		specs = append(specs, v)
	}
	specs = append(specs, s.OccupantSpecs()...)
	specs = append(specs, s.BarrierSpecs()...)
	specs = append(specs, s.LightSpecs()...)
	return specs
}
