package persistence

import (
	"context"
	"sync"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/pkg/composables"
)

// MemoryActorRepository is the map-backed counterpart of ActorRepository.
type MemoryActorRepository struct {
	mu       sync.RWMutex
	sequence uint
	actors   map[uint]*actor.Actor
}

func NewMemoryActorRepository() *MemoryActorRepository {
	return &MemoryActorRepository{
		actors: make(map[uint]*actor.Actor),
	}
}

func cloneActor(a *actor.Actor, extra ...actor.Option) *actor.Actor {
	opts := []actor.Option{
		actor.WithID(a.ID()),
		actor.WithOrganizationID(a.OrganizationID()),
		actor.WithEmail(a.Email()),
		actor.WithRole(a.Role()),
		actor.WithCreatedAt(a.CreatedAt()),
		actor.WithUpdatedAt(a.UpdatedAt()),
	}
	opts = append(opts, extra...)
	return actor.New(a.Name(), opts...)
}

func (r *MemoryActorRepository) GetByID(ctx context.Context, id uint) (*actor.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actors[id]
	if !ok {
		return nil, actor.ErrNotFound
	}
	return cloneActor(a), nil
}

func (r *MemoryActorRepository) GetByEmail(ctx context.Context, email string) (*actor.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.actors {
		if a.Email() == email {
			return cloneActor(a), nil
		}
	}
	return nil, actor.ErrNotFound
}

func (r *MemoryActorRepository) List(ctx context.Context) ([]*actor.Actor, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return []*actor.Actor{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*actor.Actor, 0)
	for id := uint(1); id <= r.sequence; id++ {
		a, ok := r.actors[id]
		if ok && a.OrganizationID() == tenantID {
			out = append(out, cloneActor(a))
		}
	}
	return out, nil
}

func (r *MemoryActorRepository) Create(ctx context.Context, a *actor.Actor) (*actor.Actor, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, composables.ErrNoTenantID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequence++
	stored := cloneActor(a,
		actor.WithID(r.sequence),
		actor.WithOrganizationID(tenantID),
	)
	r.actors[stored.ID()] = stored
	return cloneActor(stored), nil
}

func (r *MemoryActorRepository) Delete(ctx context.Context, id uint) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actors[id]
	if !ok || a.OrganizationID() != tenantID {
		return false, nil
	}
	delete(r.actors, id)
	return true, nil
}
