// ABOUTME: Tests for slot layout and the clipping resolver
// ABOUTME: Shifts are checked against the overhang-plus-margin rule
package roadblock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/roadblock/internal/models"
)

var (
	sedan = VehicleModel{Model: "police", Length: 5.0, Width: 2.0}
	truck = VehicleModel{Model: "riot", Length: 6.8, Width: 2.8}
)

func testTier() Tier {
	return Tier{
		Name:           "test",
		VehicleRange:   Range{Min: 1, Max: 4},
		Vehicles:       []VehicleModel{sedan},
		Occupants:      Range{Min: 2, Max: 2},
		OccupantModels: []string{"cop"},
		Barrier:        BarrierModel{Model: "cone", Width: 0.5, Spacing: 2, Offset: 4},
		Lights:         LightPattern{Model: "flare", Count: 2, Offset: 8},
		Backup:         BackupLocal,
	}
}

// slotsAcross builds heading-0 slots on lanes of the given widths laid out
// along -X, each with the given vehicle (nil for none)
func slotsAcross(widths []float64, vehicles []*VehicleModel) []Slot {
	slots := make([]Slot, 0, len(widths))
	x := 0.0
	for i, w := range widths {
		lane := models.Lane{Index: i, Position: models.Vector3{X: x}, Width: w}
		var occupants []string
		if vehicles[i] != nil {
			occupants = []string{"cop"}
		}
		slots = append(slots, NewSlot(i, lane, 0, testTier(), vehicles[i], occupants))
		x -= w
	}
	return slots
}

func TestSlot_Diff(t *testing.T) {
	slots := slotsAcross([]float64{5.5, 5.5}, []*VehicleModel{&truck, nil})
	assert.InDelta(t, -1.3, slots[0].Diff(), 1e-9)
	assert.InDelta(t, 5.5, slots[1].Diff(), 1e-9)
	assert.False(t, slots[1].HasVehicle())
	assert.Equal(t, BackupNone, slots[1].Backup)
}

func TestResolveClipping_VehicleFits(t *testing.T) {
	slots := slotsAcross([]float64{5.5, 5.5}, []*VehicleModel{&sedan, &sedan})
	assert.Equal(t, 0, ResolveClipping(slots))
	assert.Equal(t, slots[0].Position, slots[0].VehiclePosition)
}

func TestResolveClipping_NeighborAbsorbsOverhang(t *testing.T) {
	slots := slotsAcross([]float64{5.5, 5.5}, []*VehicleModel{&truck, nil})
	assert.Equal(t, 0, ResolveClipping(slots))
	assert.Equal(t, slots[0].Position, slots[0].VehiclePosition)
}

func TestResolveClipping_ShiftsOverhang(t *testing.T) {
	slots := slotsAcross([]float64{5.5, 5.5}, []*VehicleModel{&truck, &truck})
	require.Equal(t, 1, ResolveClipping(slots))

	// heading 0 puts the heading-90 axis on +X
	assert.InDelta(t, 1.8, slots[0].VehiclePosition.X-slots[0].Position.X, 1e-9)
	assert.InDelta(t, 0, slots[0].VehiclePosition.Y, 1e-9)
	assert.InDelta(t, 1.8, slots[0].Shift, 1e-9)
	// the last slot has no successor
	assert.Equal(t, slots[1].Position, slots[1].VehiclePosition)
}

func TestResolveClipping_NarrowSpareWidthIsNotEnough(t *testing.T) {
	narrow := VehicleModel{Model: "van", Length: 5.2}
	slots := slotsAcross([]float64{5.5, 5.5}, []*VehicleModel{&truck, &narrow})
	// spare width 0.3 cannot absorb an overhang of 1.3
	assert.Equal(t, 1, ResolveClipping(slots))
}

func TestResolveClipping_ExactFitShifts(t *testing.T) {
	exact := VehicleModel{Model: "bus", Length: 5.5}
	slots := slotsAcross([]float64{5.5, 5.5}, []*VehicleModel{&exact, &exact})
	// zero spare width is not a fit and zero neighbor width absorbs nothing
	require.Equal(t, 1, ResolveClipping(slots))
	assert.InDelta(t, ClippingMargin, slots[0].Shift, 1e-9)
}

func TestResolveClipping_SingleSweep(t *testing.T) {
	slots := slotsAcross([]float64{5.5, 5.5, 5.5}, []*VehicleModel{&truck, &truck, &truck})
	assert.Equal(t, 2, ResolveClipping(slots))
	for i, s := range slots[:2] {
		assert.InDelta(t, 1.8, s.Shift, 1e-9, "slot %d", i)
	}
	assert.Zero(t, slots[2].Shift)
}

func TestResolveClipping_ShiftFollowsHeading(t *testing.T) {
	lane := models.Lane{Width: 5.5}
	slots := []Slot{
		NewSlot(0, lane, 90, testTier(), &truck, nil),
		NewSlot(1, lane, 90, testTier(), &truck, nil),
	}
	ResolveClipping(slots)

	// heading 90 puts the heading-90 axis on +Y
	moved := slots[0].VehiclePosition.Sub(slots[0].Position)
	assert.InDelta(t, 0, moved.X, 1e-9)
	assert.InDelta(t, 1.8, moved.Y, 1e-9)
}

func TestResolveClipping_Property(t *testing.T) {
	lengths := []float64{0, 4.5, 5.5, 6.0, 7.2}
	for _, a := range lengths {
		for _, b := range lengths {
			vehicles := make([]*VehicleModel, 2)
			if a > 0 {
				vehicles[0] = &VehicleModel{Model: "a", Length: a}
			}
			if b > 0 {
				vehicles[1] = &VehicleModel{Model: "b", Length: b}
			}
			slots := slotsAcross([]float64{5.5, 5.5}, vehicles)
			cur, next := slots[0].Diff(), slots[1].Diff()
			ResolveClipping(slots)

			shouldShift := a > 0 && cur <= 0 && !(next > 0 && next >= math.Abs(cur))
			if shouldShift {
				assert.InDelta(t, math.Abs(cur)+ClippingMargin, slots[0].Shift, 1e-9, "a=%v b=%v", a, b)
			} else {
				assert.Zero(t, slots[0].Shift, "a=%v b=%v", a, b)
			}
		}
	}
}

func TestSlot_Layout(t *testing.T) {
	lane := models.Lane{Position: models.Vector3{X: 10, Y: 20}, Width: 5.5}
	slot := NewSlot(0, lane, 0, testTier(), &sedan, []string{"cop", "cop"})

	v, ok := slot.VehicleSpec()
	require.True(t, ok)
	assert.Equal(t, KindVehicle, v.Kind)
	assert.InDelta(t, 90, v.Heading, 1e-9)

	// traffic approaches heading 0 from -Y, so barriers sit below the slot
	barriers := slot.BarrierSpecs()
	require.Len(t, barriers, 2)
	for _, b := range barriers {
		assert.InDelta(t, 16, b.Position.Y, 1e-9)
	}
	assert.InDelta(t, 2, barriers[0].Position.Distance(barriers[1].Position), 1e-9)

	lights := slot.LightSpecs()
	require.Len(t, lights, 2)
	assert.InDelta(t, 12, lights[0].Position.Y, 1e-9)

	occupants := slot.OccupantSpecs()
	require.Len(t, occupants, 2)
	for _, o := range occupants {
		assert.InDelta(t, 22.5, o.Position.Y, 1e-9)
		assert.InDelta(t, 180, o.Heading, 1e-9)
	}

	assert.Len(t, slot.Specs(), 1+2+2+2)
}

func TestSlot_BarrierOnlyLayout(t *testing.T) {
	tier := testTier()
	tier.Barrier.Spacing = 10
	slot := NewSlot(0, models.Lane{Width: 5.5}, 0, tier, nil, []string{"ignored"})

	_, ok := slot.VehicleSpec()
	assert.False(t, ok)
	assert.Empty(t, slot.OccupantSpecs())
	assert.Equal(t, 1, slot.BarrierCount())
}
