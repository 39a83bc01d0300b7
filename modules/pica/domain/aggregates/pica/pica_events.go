package pica

import (
	"context"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/pkg/composables"
)

func actorFromContext(ctx context.Context) *actor.Actor {
	a, err := composables.UseActor(ctx)
	if err != nil {
		return nil
	}
	return a
}

type CreatedEvent struct {
	Actor  *actor.Actor
	Data   *Pica
	Result *Pica
}

func NewCreatedEvent(ctx context.Context, data *Pica) *CreatedEvent {
	return &CreatedEvent{
		Actor: actorFromContext(ctx),
		Data:  data,
	}
}

type UpdatedEvent struct {
	Actor  *actor.Actor
	Data   *Pica
	Result *Pica
}

func NewUpdatedEvent(ctx context.Context, data *Pica) *UpdatedEvent {
	return &UpdatedEvent{
		Actor: actorFromContext(ctx),
		Data:  data,
	}
}

type DeletedEvent struct {
	Actor  *actor.Actor
	Result *Pica
}

func NewDeletedEvent(ctx context.Context, result *Pica) *DeletedEvent {
	return &DeletedEvent{
		Actor:  actorFromContext(ctx),
		Result: result,
	}
}

// StatusChangedEvent fires on every genuine status transition, explicit or
// derived. System denotes a transition with no acting user (lazy overdue
// promotion).
type StatusChangedEvent struct {
	Actor  *actor.Actor
	System bool
	PicaID uint
	From   Status
	To     Status
}
