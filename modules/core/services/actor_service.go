package services

import (
	"context"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/pkg/composables"
	"github.com/hseworks/picatrack/pkg/eventbus"
	"github.com/hseworks/picatrack/pkg/serrors"
)

var (
	ErrUnauthenticated = serrors.NewError("AUTHZ_UNAUTHENTICATED", "authentication required", "")
	ErrForbidden       = serrors.NewError("AUTHZ_FORBIDDEN", "permission denied", "")

	// ErrSelfDelete guards the one deletion no role may perform: an actor
	// removing their own identity record.
	ErrSelfDelete = serrors.NewError("AUTHZ_SELF_DELETE", "an actor may not delete their own account", "")
)

type ActorService struct {
	repo      actor.Repository
	publisher eventbus.EventBus
}

func NewActorService(repo actor.Repository, publisher eventbus.EventBus) *ActorService {
	return &ActorService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ActorService) GetByID(ctx context.Context, id uint) (*actor.Actor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ActorService) GetByEmail(ctx context.Context, email string) (*actor.Actor, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *ActorService) List(ctx context.Context) ([]*actor.Actor, error) {
	return s.repo.List(ctx)
}

func (s *ActorService) Create(ctx context.Context, data *actor.Actor) (*actor.Actor, error) {
	current, err := composables.UseActor(ctx)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if !current.Role().AtLeast(actor.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.repo.Create(ctx, data)
}

// Delete removes an identity record. Admin only, and never the admin's own
// record.
func (s *ActorService) Delete(ctx context.Context, id uint) (bool, error) {
	current, err := composables.UseActor(ctx)
	if err != nil {
		return false, ErrUnauthenticated
	}
	if !current.Role().AtLeast(actor.RoleAdmin) {
		return false, ErrForbidden
	}
	if current.ID() == id {
		return false, ErrSelfDelete
	}
	return s.repo.Delete(ctx, id)
}
