// ABOUTME: Recording Spawner used by the roadblock tests
// ABOUTME: Supports failure and panic injection on the Nth spawn
package roadblock

import (
	"errors"
	"fmt"
	"sync"

	"github.com/harper/roadblock/internal/models"
)

var errSpawnRefused = errors.New("spawn refused")

type fakeSpawner struct {
	mu       sync.Mutex
	next     int
	live     map[EntityHandle]EntitySpec
	released []EntityHandle
	deleted  []EntityHandle
	zones    []float64

	failAfter  int // fail the spawn after this many successes, 0 disables
	panicAfter int
	failDelete bool
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{live: make(map[EntityHandle]EntitySpec)}
}

func (f *fakeSpawner) Spawn(spec EntitySpec) (EntityHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter > 0 && f.next >= f.failAfter {
		return "", errSpawnRefused
	}
	if f.panicAfter > 0 && f.next >= f.panicAfter {
		panic("model not loaded")
	}
	f.next++
	h := EntityHandle(fmt.Sprintf("%s-%d", spec.Kind, f.next))
	f.live[h] = spec
	return h, nil
}

func (f *fakeSpawner) AddSpeedZone(center models.Vector3, radius, maxSpeed float64) (EntityHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	h := EntityHandle(fmt.Sprintf("zone-%d", f.next))
	f.live[h] = EntitySpec{Kind: KindZone, Position: center}
	f.zones = append(f.zones, radius)
	return h, nil
}

func (f *fakeSpawner) Release(handle EntityHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.live, handle)
	f.released = append(f.released, handle)
	return nil
}

func (f *fakeSpawner) Delete(handle EntityHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, handle)
	if f.failDelete {
		return errors.New("entity locked")
	}
	delete(f.live, handle)
	return nil
}

func (f *fakeSpawner) liveKinds() map[EntityKind]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make(map[EntityKind]int)
	for _, spec := range f.live {
		kinds[spec.Kind]++
	}
	return kinds
}

func (f *fakeSpawner) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeSpawner) releasedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.released)
}
