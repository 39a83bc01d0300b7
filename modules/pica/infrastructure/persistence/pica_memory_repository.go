package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	"github.com/hseworks/picatrack/pkg/composables"
)

// MemoryPicaRepository is a map-backed implementation of pica.Repository with
// the same tenant-scoping contract as the relational one. It backs tests and
// single-process deployments without a database.
type MemoryPicaRepository struct {
	mu       sync.RWMutex
	sequence uint
	records  map[uint]*pica.Pica
}

func NewMemoryPicaRepository() *MemoryPicaRepository {
	return &MemoryPicaRepository{
		records: make(map[uint]*pica.Pica),
	}
}

func clonePica(p *pica.Pica, extra ...pica.Option) *pica.Pica {
	opts := []pica.Option{
		pica.WithID(p.ID()),
		pica.WithOrganizationID(p.OrganizationID()),
		pica.WithProjectSiteID(p.ProjectSiteID()),
		pica.WithDate(p.Date()),
		pica.WithIssue(p.Issue()),
		pica.WithProblemDescription(p.ProblemDescription()),
		pica.WithCorrectiveAction(p.CorrectiveAction()),
		pica.WithPersonInChargeID(p.PersonInChargeID()),
		pica.WithDueDate(p.DueDate()),
		pica.WithStatus(p.Status()),
		pica.WithCreatedAt(p.CreatedAt()),
		pica.WithUpdatedAt(p.UpdatedAt()),
	}
	opts = append(opts, extra...)
	return pica.New(p.BusinessKey(), opts...)
}

func (r *MemoryPicaRepository) GetByID(ctx context.Context, id uint) (*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, pica.ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.records[id]
	if !ok || p.OrganizationID() != tenantID {
		return nil, pica.ErrNotFound
	}
	return clonePica(p), nil
}

func (r *MemoryPicaRepository) GetByBusinessKey(ctx context.Context, businessKey string) (*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, pica.ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.records {
		if p.OrganizationID() == tenantID && p.BusinessKey() == businessKey {
			return clonePica(p), nil
		}
	}
	return nil, pica.ErrNotFound
}

func (r *MemoryPicaRepository) List(ctx context.Context, params *pica.FindParams) ([]*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return []*pica.Pica{}, nil
	}
	if params == nil {
		params = &pica.FindParams{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*pica.Pica, 0)
	for id := uint(1); id <= r.sequence; id++ {
		p, ok := r.records[id]
		if !ok || p.OrganizationID() != tenantID {
			continue
		}
		if params.Status != "" && p.Status() != params.Status {
			continue
		}
		matched = append(matched, clonePica(p))
	}

	if params.Offset > 0 {
		if params.Offset >= len(matched) {
			return []*pica.Pica{}, nil
		}
		matched = matched[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (r *MemoryPicaRepository) Count(ctx context.Context, params *pica.FindParams) (int64, error) {
	records, err := r.List(ctx, params)
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (r *MemoryPicaRepository) Create(ctx context.Context, p *pica.Pica) (*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, composables.ErrNoTenantID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.OrganizationID() == tenantID && existing.BusinessKey() == p.BusinessKey() {
			return nil, pica.ErrDuplicateBusinessKey
		}
	}

	r.sequence++
	stored := clonePica(p,
		pica.WithID(r.sequence),
		// The payload's organization is never trusted.
		pica.WithOrganizationID(tenantID),
	)
	r.records[stored.ID()] = stored
	return clonePica(stored), nil
}

func (r *MemoryPicaRepository) Update(ctx context.Context, p *pica.Pica) (*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, pica.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[p.ID()]
	if !ok || existing.OrganizationID() != tenantID {
		return nil, pica.ErrNotFound
	}

	stored := clonePica(p, pica.WithOrganizationID(tenantID))
	r.records[stored.ID()] = stored
	return clonePica(stored), nil
}

func (r *MemoryPicaRepository) Delete(ctx context.Context, id uint) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[id]
	if !ok || existing.OrganizationID() != tenantID {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *MemoryPicaRepository) UpdateStatusGuarded(ctx context.Context, id uint, from, to pica.Status, updatedAt time.Time) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[id]
	if !ok || existing.OrganizationID() != tenantID {
		return false, nil
	}
	// Compare-then-write under the same lock: abandoned when another writer
	// already changed the status.
	if existing.Status() != from {
		return false, nil
	}
	r.records[id] = clonePica(existing, pica.WithStatus(to), pica.WithUpdatedAt(updatedAt))
	return true, nil
}

// visibleTo reports whether the record exists within the given organization.
// Used by the memory history repository to keep ledger reads tenant-scoped.
func (r *MemoryPicaRepository) visibleTo(tenantID uuid.UUID, picaID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.records[picaID]
	return ok && p.OrganizationID() == tenantID
}
