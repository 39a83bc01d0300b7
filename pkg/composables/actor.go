package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/pkg/constants"
)

var (
	ErrNoTenantID = errors.New("no tenant id found in context")
	ErrNoActor    = errors.New("no actor found in context")
)

func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, ErrNoTenantID
	}
	return tenantID, nil
}

// WithActor stores the authenticated actor and, as a convenience, the actor's
// organization as the tenant id.
func WithActor(ctx context.Context, a *actor.Actor) context.Context {
	ctx = context.WithValue(ctx, constants.ActorKey, a)
	return WithTenantID(ctx, a.OrganizationID())
}

// UseActor returns the authenticated actor. Absence of an actor denotes an
// unauthenticated request, not a programming error; callers decide how to
// degrade.
func UseActor(ctx context.Context) (*actor.Actor, error) {
	a, ok := ctx.Value(constants.ActorKey).(*actor.Actor)
	if !ok || a == nil {
		return nil, ErrNoActor
	}
	return a, nil
}

// UseRole returns the actor's role, defaulting to the public (lowest) role for
// unauthenticated requests.
func UseRole(ctx context.Context) actor.Role {
	a, err := UseActor(ctx)
	if err != nil {
		return actor.RolePublic
	}
	return a.Role()
}
