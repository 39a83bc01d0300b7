package pica

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned both when no record exists and when the record
	// belongs to another organization, so a scoped caller can never confirm
	// the existence of another tenant's data.
	ErrNotFound = errors.New("pica not found")

	// ErrDuplicateBusinessKey is returned when a create reuses a business key
	// already taken within the same organization.
	ErrDuplicateBusinessKey = errors.New("business key already in use")
)

type FindParams struct {
	Status Status
	Limit  int
	Offset int
}

// Repository persists corrective-action records. Every method resolves the
// organization from context; a context without a tenant id yields an empty
// result set on reads (fail-closed) and an error on writes.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*Pica, error)
	GetByBusinessKey(ctx context.Context, businessKey string) (*Pica, error)
	List(ctx context.Context, params *FindParams) ([]*Pica, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, p *Pica) (*Pica, error)
	Update(ctx context.Context, p *Pica) (*Pica, error)
	Delete(ctx context.Context, id uint) (bool, error)

	// UpdateStatusGuarded flips the status of the record only if its currently
	// persisted status still equals from; returns false when another writer
	// got there first. This is the optimistic guard the lazy derivation relies
	// on to never double-write a transition.
	UpdateStatusGuarded(ctx context.Context, id uint, from, to Status, updatedAt time.Time) (bool, error)
}
