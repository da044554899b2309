// ABOUTME: Spawner is the host capability that creates and removes world entities
// ABOUTME: Defines entity kinds, specs and handles exchanged with the host
package roadblock

import "github.com/harper/roadblock/internal/models"

// EntityKind classifies what a handle refers to
type EntityKind string

const (
	KindVehicle EntityKind = "vehicle"
	KindPed     EntityKind = "ped"
	KindBarrier EntityKind = "barrier"
	KindLight   EntityKind = "light"
	KindBlip    EntityKind = "blip"
	KindZone    EntityKind = "speed_zone"
)

// EntityHandle identifies a host entity
type EntityHandle string

// EntitySpec describes one entity to create
type EntitySpec struct {
	Kind     EntityKind     `json:"kind"`
	Model    string         `json:"model"`
	Position models.Vector3 `json:"position"`
	Heading  float64        `json:"heading"`
}

// Spawner creates entities in the host world. Release hands an entity over
// to the host's own AI/cleanup; Delete removes it. Both must tolerate being
// called for an entity that is already gone.
type Spawner interface {
	Spawn(spec EntitySpec) (EntityHandle, error)
	AddSpeedZone(center models.Vector3, radius, maxSpeed float64) (EntityHandle, error)
	Release(handle EntityHandle) error
	Delete(handle EntityHandle) error
}
