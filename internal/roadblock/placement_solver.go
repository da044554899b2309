// ABOUTME: Resolves vehicle clipping between adjacent slots
// ABOUTME: Overhanging vehicles are shifted across the road away from their neighbor
package roadblock

import (
	"math"

	"github.com/harper/roadblock/internal/metrics"
	"github.com/harper/roadblock/internal/models"
)

// ClippingMargin is added to an overhang when a vehicle is shifted
const ClippingMargin = 0.5

// ResolveClipping makes one left-to-right pass over slots in lane order and
// moves vehicles that overhang into a neighbor without spare width. A slot
// that was shifted is not checked again. Returns the number of shifted slots.
func ResolveClipping(slots []Slot) int {
	shifted := 0
	for i := 0; i+1 < len(slots); i++ {
		current := &slots[i]
		if !current.HasVehicle() {
			continue
		}
		cur := current.Diff()
		if cur > 0 {
			continue
		}
		overhang := math.Abs(cur)
		if next := slots[i+1].Diff(); next > 0 && next >= overhang {
			continue
		}

		shift := overhang + ClippingMargin
		current.VehiclePosition = current.VehiclePosition.Add(models.Direction(current.Heading - 90).Scale(shift))
		current.Shift += shift
		shifted++
	}
	if shifted > 0 {
		metrics.SlotShifts.Add(float64(shifted))
	}
	return shifted
}
