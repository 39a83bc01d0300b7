package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/modules/pica/domain/entities/history"
	"github.com/hseworks/picatrack/pkg/composables"
)

// MemoryHistoryRepository is the map-backed ledger. Appends are only ever
// additive; nothing removes or rewrites stored entries.
type MemoryHistoryRepository struct {
	mu       sync.RWMutex
	sequence uint
	entries  []*history.Entry

	picas  *MemoryPicaRepository
	actors actor.Repository
}

// NewMemoryHistoryRepository builds the ledger store. picas scopes reads to
// the caller's organization; actors, when non-nil, resolves actor names on
// reads.
func NewMemoryHistoryRepository(picas *MemoryPicaRepository, actors actor.Repository) *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		picas:  picas,
		actors: actors,
	}
}

func cloneEntry(e *history.Entry, extra ...history.Option) *history.Entry {
	opts := []history.Option{
		history.WithID(e.ID()),
		history.WithActorID(e.ActorID()),
		history.WithComment(e.Comment()),
		history.WithTimestamp(e.Timestamp()),
	}
	if e.ActorName() != "" {
		opts = append(opts, history.WithActorName(e.ActorName()))
	}
	opts = append(opts, extra...)
	return history.New(e.PicaID(), e.OldStatus(), e.NewStatus(), opts...)
}

func (r *MemoryHistoryRepository) Append(ctx context.Context, e *history.Entry) (*history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequence++
	stored := cloneEntry(e, history.WithID(r.sequence))
	r.entries = append(r.entries, stored)
	return cloneEntry(stored), nil
}

func (r *MemoryHistoryRepository) ListForRecord(ctx context.Context, picaID uint) ([]*history.Entry, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return []*history.Entry{}, nil
	}
	if r.picas != nil && !r.picas.visibleTo(tenantID, picaID) {
		return []*history.Entry{}, nil
	}

	r.mu.RLock()
	matched := make([]*history.Entry, 0)
	for _, e := range r.entries {
		if e.PicaID() == picaID {
			matched = append(matched, cloneEntry(e))
		}
	}
	r.mu.RUnlock()

	// Newest first; id breaks ties between entries in the same instant.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Timestamp().Equal(matched[j].Timestamp()) {
			return matched[i].ID() > matched[j].ID()
		}
		return matched[i].Timestamp().After(matched[j].Timestamp())
	})

	if r.actors != nil {
		for i, e := range matched {
			if e.ActorID() == nil {
				continue
			}
			a, err := r.actors.GetByID(ctx, *e.ActorID())
			if err != nil {
				continue
			}
			matched[i] = cloneEntry(e, history.WithActorName(a.Name()))
		}
	}

	return matched, nil
}
