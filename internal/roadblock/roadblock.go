// ABOUTME: Roadblock aggregates a road segment, its slots and decorations
// ABOUTME: Drives spawning, release and disposal through the lifecycle state machine
package roadblock

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/metrics"
	"github.com/harper/roadblock/internal/models"
)

const (
	// DefaultPropReleaseDelay is how long props stay after a bypass
	DefaultPropReleaseDelay = 3 * time.Second
	// DefaultBlipRemovalDelay is how long the map marker outlives the outcome
	DefaultBlipRemovalDelay = 10 * time.Second

	blipModel = "roadblock"
	zoneSlack = 2.0
)

// Options tunes a roadblock's deferred behavior
type Options struct {
	PropReleaseDelay time.Duration
	BlipRemovalDelay time.Duration
	Clock            func() time.Time
	Logger           *log.Logger
}

func (o Options) withDefaults() Options {
	if o.PropReleaseDelay <= 0 {
		o.PropReleaseDelay = DefaultPropReleaseDelay
	}
	if o.BlipRemovalDelay <= 0 {
		o.BlipRemovalDelay = DefaultBlipRemovalDelay
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

type ownedEntity struct {
	handle EntityHandle
	kind   EntityKind
	slot   int
}

// Roadblock is one placed (or placeable) roadblock
type Roadblock struct {
	id        string
	tier      Tier
	road      models.RoadSegment
	path      models.PathResult
	heading   float64
	slots     []Slot
	spawner   Spawner
	opts      Options
	logger    *log.Logger
	createdAt time.Time
	scheduler *Scheduler

	mu        sync.Mutex
	state     State
	history   []StateChange
	entities  []ownedEntity
	occupants map[EntityHandle]bool
	stateSubs []func(StateChange)
	copSubs   []func(CopKilled)
}

// New creates a roadblock in the Preparing state. Nothing is spawned yet.
func New(road models.RoadSegment, path models.PathResult, heading float64, tier Tier, slots []Slot, spawner Spawner, opts Options) *Roadblock {
	if spawner == nil {
		panic("roadblock: New requires a Spawner")
	}
	opts = opts.withDefaults()
	id := uuid.New().String()
	return &Roadblock{
		id:        id,
		tier:      tier,
		road:      road,
		path:      path,
		heading:   models.NormalizeHeading(heading),
		slots:     slots,
		spawner:   spawner,
		opts:      opts,
		logger:    logging.Component(opts.Logger, "roadblock").With("id", id[:8], "tier", tier.Name),
		createdAt: opts.Clock(),
		scheduler: NewScheduler(),
		state:     StatePreparing,
		occupants: make(map[EntityHandle]bool),
	}
}

// ID returns the roadblock's identifier
func (r *Roadblock) ID() string { return r.id }

// Tier returns the tier the roadblock was built from
func (r *Roadblock) Tier() Tier { return r.tier }

// Road returns the segment the roadblock sits on
func (r *Roadblock) Road() models.RoadSegment { return r.road }

// Path returns the traversal that led to the road
func (r *Roadblock) Path() models.PathResult { return r.path }

// Heading returns the roadblock heading
func (r *Roadblock) Heading() float64 { return r.heading }

// Slots returns a copy of the slots
func (r *Roadblock) Slots() []Slot {
	return append([]Slot(nil), r.slots...)
}

// State returns the current state
func (r *Roadblock) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// History returns every transition so far
func (r *Roadblock) History() []StateChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StateChange(nil), r.history...)
}

// OnStateChanged subscribes fn to state changes. fn runs on the goroutine
// that caused the change, outside the roadblock lock.
func (r *Roadblock) OnStateChanged(fn func(StateChange)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stateSubs = append(r.stateSubs, fn)
}

// OnCopKilled subscribes fn to occupant deaths
func (r *Roadblock) OnCopKilled(fn func(CopKilled)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copSubs = append(r.copSubs, fn)
}

// Handles returns the entities still owned by the roadblock
func (r *Roadblock) Handles() []EntityHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	handles := make([]EntityHandle, 0, len(r.entities))
	for _, e := range r.entities {
		handles = append(handles, e.handle)
	}
	return handles
}

// OccupantHandles returns the occupants the roadblock still owns
func (r *Roadblock) OccupantHandles() []EntityHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	var handles []EntityHandle
	for _, e := range r.entities {
		if e.kind == KindPed {
			handles = append(handles, e.handle)
		}
	}
	return handles
}

// transitionLocked moves to next and records the change. Callers publish
// the returned change after unlocking.
func (r *Roadblock) transitionLocked(next State) (StateChange, bool) {
	if !CanTransition(r.state, next) {
		r.logger.Warn("invalid state transition", "from", r.state, "to", next)
		return StateChange{}, false
	}
	change := StateChange{RoadblockID: r.id, From: r.state, To: next, At: r.opts.Clock()}
	r.state = next
	r.history = append(r.history, change)
	metrics.StateTransitions.WithLabelValues(string(next)).Inc()
	r.logger.Debug("state changed", "from", change.From, "to", change.To)
	return change, true
}

func (r *Roadblock) publish(changes ...StateChange) {
	r.mu.Lock()
	subs := append(([]func(StateChange))(nil), r.stateSubs...)
	r.mu.Unlock()
	for _, change := range changes {
		for _, fn := range subs {
			fn(change)
		}
	}
}

// Spawn creates every slot entity, the speed zone and the blip, then moves
// to Active. On any failure the partial spawn is torn down, the roadblock
// moves to Error and false is returned.
func (r *Roadblock) Spawn() bool {
	r.mu.Lock()
	if r.state != StatePreparing {
		r.logger.Warn("spawn ignored", "state", r.state)
		r.mu.Unlock()
		return false
	}

	err := r.spawnLocked()
	var changes []StateChange
	if err != nil {
		r.logger.Error("spawn failed", "error", err, "spawned", len(r.entities))
		if cleanupErr := r.deleteAllLocked(); cleanupErr != nil {
			r.logger.Warn("cleanup after failed spawn", "error", cleanupErr)
		}
		if change, ok := r.transitionLocked(StateError); ok {
			changes = append(changes, change)
		}
	} else if change, ok := r.transitionLocked(StateActive); ok {
		r.logger.Info("roadblock active", "slots", len(r.slots), "entities", len(r.entities))
		changes = append(changes, change)
	}
	r.mu.Unlock()

	r.publish(changes...)
	return err == nil
}

func (r *Roadblock) spawnLocked() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("spawner panicked: %v", p)
		}
	}()

	for _, slot := range r.slots {
		for _, spec := range slot.Specs() {
			handle, err := r.spawner.Spawn(spec)
			if err != nil {
				return fmt.Errorf("slot %d %s %q: %w", slot.Index, spec.Kind, spec.Model, err)
			}
			r.entities = append(r.entities, ownedEntity{handle: handle, kind: spec.Kind, slot: slot.Index})
			if spec.Kind == KindPed {
				r.occupants[handle] = true
			}
		}
	}

	center, radius := r.coverage()
	if r.tier.SpeedZone && len(r.slots) > 0 {
		handle, err := r.spawner.AddSpeedZone(center, radius, r.tier.SpeedLimit)
		if err != nil {
			return fmt.Errorf("speed zone: %w", err)
		}
		r.entities = append(r.entities, ownedEntity{handle: handle, kind: KindZone, slot: -1})
	}

	if r.tier.Blip {
		handle, err := r.spawner.Spawn(EntitySpec{Kind: KindBlip, Model: blipModel, Position: center, Heading: r.heading})
		if err != nil {
			return fmt.Errorf("blip: %w", err)
		}
		r.entities = append(r.entities, ownedEntity{handle: handle, kind: KindBlip, slot: -1})
	}
	return nil
}

// coverage returns the center of the blocked lanes and a radius that spans
// their full width.
func (r *Roadblock) coverage() (models.Vector3, float64) {
	if len(r.slots) == 0 {
		return r.road.Node.Position, 0
	}
	var sum models.Vector3
	for _, s := range r.slots {
		sum = sum.Add(s.Position)
	}
	center := sum.Scale(1 / float64(len(r.slots)))

	var radius float64
	for _, s := range r.slots {
		if d := center.Distance2D(s.Position) + s.Lane.Width/2; d > radius {
			radius = d
		}
	}
	return center, radius + zoneSlack
}

// Coverage exposes the speed zone geometry
func (r *Roadblock) Coverage() (models.Vector3, float64) {
	return r.coverage()
}

// Release hands vehicles and occupants back to the host, plus barriers and
// lights when releaseAll is set. Only allowed while Active.
func (r *Roadblock) Release(releaseAll bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateActive {
		r.logger.Warn("release ignored", "state", r.state)
		return false
	}
	kinds := []EntityKind{KindVehicle, KindPed}
	if releaseAll {
		kinds = append(kinds, KindBarrier, KindLight)
	}
	r.releaseLocked(kinds...)
	return true
}

// releaseLocked releases every owned entity of the given kinds
func (r *Roadblock) releaseLocked(kinds ...EntityKind) {
	want := make(map[EntityKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	kept := r.entities[:0]
	released := 0
	for _, e := range r.entities {
		if !want[e.kind] {
			kept = append(kept, e)
			continue
		}
		if err := r.spawner.Release(e.handle); err != nil {
			r.logger.Warn("release failed", "handle", e.handle, "kind", e.kind, "error", err)
		}
		released++
	}
	r.entities = kept
	r.logger.Debug("entities released", "count", released, "kinds", kinds)
}

// deleteLocked deletes every owned entity of the given kinds
func (r *Roadblock) deleteLocked(kinds ...EntityKind) error {
	want := make(map[EntityKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var errs []error
	kept := r.entities[:0]
	for _, e := range r.entities {
		if !want[e.kind] {
			kept = append(kept, e)
			continue
		}
		if err := r.spawner.Delete(e.handle); err != nil {
			errs = append(errs, fmt.Errorf("delete %s %s: %w", e.kind, e.handle, err))
		}
	}
	r.entities = kept
	return errors.Join(errs...)
}

func (r *Roadblock) deleteAllLocked() error {
	return r.deleteLocked(KindVehicle, KindPed, KindBarrier, KindLight, KindZone, KindBlip)
}

// MarkBypassed records that the suspect got past. Occupants are released
// now; props and the blip go after their delays.
func (r *Roadblock) MarkBypassed() bool {
	return r.markOutcome(StateBypassed)
}

// MarkHit records that the suspect crashed into the roadblock
func (r *Roadblock) MarkHit() bool {
	return r.markOutcome(StateHit)
}

func (r *Roadblock) markOutcome(outcome State) bool {
	r.mu.Lock()
	if r.state != StateActive {
		r.logger.Warn("outcome ignored", "outcome", outcome, "state", r.state)
		r.mu.Unlock()
		return false
	}
	change, _ := r.transitionLocked(outcome)
	r.releaseLocked(KindPed)

	if outcome == StateBypassed {
		r.scheduler.After(r.opts.PropReleaseDelay, func() {
			r.deferred("release props", func() error {
				r.releaseLocked(KindBarrier, KindLight)
				return nil
			})
		})
	}
	r.scheduler.After(r.opts.BlipRemovalDelay, func() {
		r.deferred("remove blip", func() error {
			return r.deleteLocked(KindBlip)
		})
	})
	r.mu.Unlock()

	r.publish(change)
	return true
}

// deferred runs a scheduled action unless disposal already started
func (r *Roadblock) deferred(name string, fn func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.IsTerminal() {
		return
	}
	if err := fn(); err != nil {
		r.logger.Warn("deferred action failed", "action", name, "error", err)
	}
}

// ReportCopKilled publishes a CopKilled notification if handle is one of
// this roadblock's occupants.
func (r *Roadblock) ReportCopKilled(handle EntityHandle) bool {
	r.mu.Lock()
	if !r.occupants[handle] {
		r.mu.Unlock()
		return false
	}
	event := CopKilled{RoadblockID: r.id, Handle: handle, At: r.opts.Clock()}
	subs := append(([]func(CopKilled))(nil), r.copSubs...)
	r.mu.Unlock()

	r.logger.Info("cop killed", "handle", handle)
	for _, fn := range subs {
		fn(event)
	}
	return true
}

// Dispose cancels pending deferred work and deletes every owned entity,
// continuing past failures. Calling it again is a no-op.
func (r *Roadblock) Dispose() {
	r.mu.Lock()
	if r.state.IsTerminal() {
		r.mu.Unlock()
		return
	}
	var changes []StateChange
	if change, ok := r.transitionLocked(StateDisposing); ok {
		changes = append(changes, change)
	}
	r.scheduler.CancelAll()
	if err := r.deleteAllLocked(); err != nil {
		r.logger.Error("dispose left failures", "error", err)
	}
	if change, ok := r.transitionLocked(StateDisposed); ok {
		changes = append(changes, change)
	}
	r.mu.Unlock()

	r.publish(changes...)
}

// WaitDeferred blocks until every scheduled action has run or been cancelled
func (r *Roadblock) WaitDeferred() {
	r.scheduler.Wait()
}

// SlotSummary is the JSON view of one slot
type SlotSummary struct {
	Index           int            `json:"index"`
	Lane            int            `json:"lane"`
	Opposite        bool           `json:"opposite"`
	Position        models.Vector3 `json:"position"`
	VehiclePosition models.Vector3 `json:"vehicle_position"`
	Vehicle         string         `json:"vehicle,omitempty"`
	Occupants       int            `json:"occupants"`
	Barriers        int            `json:"barriers"`
	Lights          int            `json:"lights"`
	Shift           float64        `json:"shift"`
}

// Summary is the JSON view of a roadblock
type Summary struct {
	ID           string          `json:"id"`
	Tier         string          `json:"tier"`
	State        State           `json:"state"`
	Road         models.RoadKind `json:"road"`
	RoadID       string          `json:"road_id"`
	Position     models.Vector3  `json:"position"`
	Heading      float64         `json:"heading"`
	PathNodes    int             `json:"path_nodes"`
	PathDistance float64         `json:"path_distance"`
	Entities     int             `json:"entities"`
	Slots        []SlotSummary   `json:"slots"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Summary snapshots the roadblock
func (r *Roadblock) Summary() Summary {
	r.mu.Lock()
	state, entities := r.state, len(r.entities)
	r.mu.Unlock()

	slots := make([]SlotSummary, 0, len(r.slots))
	for _, s := range r.slots {
		ss := SlotSummary{
			Index:           s.Index,
			Lane:            s.Lane.Index,
			Opposite:        s.Lane.Opposite,
			Position:        s.Position,
			VehiclePosition: s.VehiclePosition,
			Occupants:       len(s.Occupants),
			Barriers:        s.BarrierCount(),
			Lights:          len(s.LightSpecs()),
			Shift:           s.Shift,
		}
		if s.Vehicle != nil {
			ss.Vehicle = s.Vehicle.Model
		}
		slots = append(slots, ss)
	}

	return Summary{
		ID:           r.id,
		Tier:         r.tier.Name,
		State:        state,
		Road:         r.road.Kind,
		RoadID:       r.road.ID,
		Position:     r.road.Node.Position,
		Heading:      r.heading,
		PathNodes:    r.path.Len(),
		PathDistance: r.path.Distance,
		Entities:     entities,
		Slots:        slots,
		CreatedAt:    r.createdAt,
	}
}
