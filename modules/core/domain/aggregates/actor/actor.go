package actor

import (
	"time"

	"github.com/google/uuid"
)

// Actor is an authenticated identity acting on behalf of one organization.
// The core never authenticates credentials; actors arrive here already
// resolved by the authentication collaborator.
type Actor struct {
	id             uint
	organizationID uuid.UUID
	name           string
	email          string
	role           Role
	createdAt      time.Time
	updatedAt      time.Time
}

type Option func(*Actor)

func WithID(id uint) Option {
	return func(a *Actor) {
		a.id = id
	}
}

func WithOrganizationID(organizationID uuid.UUID) Option {
	return func(a *Actor) {
		a.organizationID = organizationID
	}
}

func WithEmail(email string) Option {
	return func(a *Actor) {
		a.email = email
	}
}

func WithRole(role Role) Option {
	return func(a *Actor) {
		a.role = role
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(a *Actor) {
		a.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(a *Actor) {
		a.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Actor {
	a := &Actor{
		name:      name,
		role:      RoleUser,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Actor) ID() uint {
	return a.id
}

func (a *Actor) OrganizationID() uuid.UUID {
	return a.organizationID
}

func (a *Actor) Name() string {
	return a.name
}

func (a *Actor) Email() string {
	return a.email
}

func (a *Actor) Role() Role {
	return a.role
}

func (a *Actor) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Actor) UpdatedAt() time.Time {
	return a.updatedAt
}
