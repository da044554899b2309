// ABOUTME: In-memory host world implementing the roadblock Spawner
// ABOUTME: Backs the CLI, MCP server and benchmarks where no game host exists
package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/roadblock"
)

// ErrModelUnavailable is returned for models the world refuses to load
var ErrModelUnavailable = errors.New("model unavailable")

// Entity is one simulated entity
type Entity struct {
	Handle   roadblock.EntityHandle `json:"handle"`
	Spec     roadblock.EntitySpec   `json:"spec"`
	Radius   float64                `json:"radius,omitempty"`
	MaxSpeed float64                `json:"max_speed,omitempty"`
	Released bool                   `json:"released"`
}

// Stats counts entity operations
type Stats struct {
	Spawned  int `json:"spawned"`
	Released int `json:"released"`
	Deleted  int `json:"deleted"`
	Live     int `json:"live"`
}

// World tracks every entity created through it
type World struct {
	mu          sync.Mutex
	entities    map[roadblock.EntityHandle]*Entity
	unavailable map[string]bool
	stats       Stats
	logger      *log.Logger
}

// New creates an empty world
func New(logger *log.Logger) *World {
	return &World{
		entities:    make(map[roadblock.EntityHandle]*Entity),
		unavailable: make(map[string]bool),
		logger:      logging.Component(logger, "world"),
	}
}

// MakeUnavailable makes every later spawn of model fail
func (w *World) MakeUnavailable(model string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.unavailable[model] = true
}

func newHandle(kind roadblock.EntityKind) roadblock.EntityHandle {
	return roadblock.EntityHandle(fmt.Sprintf("%s-%s", kind, uuid.New().String()[:8]))
}

// Spawn creates an entity
func (w *World) Spawn(spec roadblock.EntitySpec) (roadblock.EntityHandle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unavailable[spec.Model] {
		return "", fmt.Errorf("%w: %s", ErrModelUnavailable, spec.Model)
	}
	h := newHandle(spec.Kind)
	w.entities[h] = &Entity{Handle: h, Spec: spec}
	w.stats.Spawned++
	w.logger.Debug("spawned", "handle", h, "model", spec.Model, "position", spec.Position)
	return h, nil
}

// AddSpeedZone creates a speed zone entity
func (w *World) AddSpeedZone(center models.Vector3, radius, maxSpeed float64) (roadblock.EntityHandle, error) {
	if radius <= 0 {
		return "", fmt.Errorf("speed zone radius must be positive, got %.2f", radius)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	h := newHandle(roadblock.KindZone)
	w.entities[h] = &Entity{
		Handle:   h,
		Spec:     roadblock.EntitySpec{Kind: roadblock.KindZone, Position: center},
		Radius:   radius,
		MaxSpeed: maxSpeed,
	}
	w.stats.Spawned++
	return h, nil
}

// Release marks an entity as handed over to the host. Unknown handles are
// ignored.
func (w *World) Release(handle roadblock.EntityHandle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[handle]
	if !ok || e.Released {
		return nil
	}
	e.Released = true
	w.stats.Released++
	return nil
}

// Delete removes an entity. Unknown handles are ignored.
func (w *World) Delete(handle roadblock.EntityHandle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[handle]; !ok {
		return nil
	}
	delete(w.entities, handle)
	w.stats.Deleted++
	return nil
}

// Get returns a copy of an entity
func (w *World) Get(handle roadblock.EntityHandle) (Entity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[handle]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Entities lists every entity still in the world ordered by handle
func (w *World) Entities() []Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Stats returns operation counters
func (w *World) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.Live = len(w.entities)
	return s
}
