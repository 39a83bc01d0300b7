package organization

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("organization not found")

// Organization is the tenant boundary. Every record and actor belongs to
// exactly one organization; its id is the isolation key on every read and
// write in the system.
type Organization struct {
	id        uuid.UUID
	name      string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Organization)

func WithID(id uuid.UUID) Option {
	return func(o *Organization) {
		o.id = id
	}
}

func WithIsActive(isActive bool) Option {
	return func(o *Organization) {
		o.isActive = isActive
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(o *Organization) {
		o.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(o *Organization) {
		o.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Organization {
	o := &Organization{
		id:        uuid.New(),
		name:      name,
		isActive:  true,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Organization) ID() uuid.UUID {
	return o.id
}

func (o *Organization) Name() string {
	return o.name
}

func (o *Organization) IsActive() bool {
	return o.isActive
}

func (o *Organization) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Organization) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Organization) SetName(name string) {
	o.name = name
	o.updatedAt = time.Now()
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	List(ctx context.Context) ([]*Organization, error)
	Create(ctx context.Context, o *Organization) (*Organization, error)
	Update(ctx context.Context, o *Organization) (*Organization, error)
}
