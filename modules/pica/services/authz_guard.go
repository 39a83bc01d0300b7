package services

import (
	"context"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/pkg/composables"
	"github.com/hseworks/picatrack/pkg/serrors"
)

var (
	// ErrUnauthenticated signals a write attempted without an authenticated
	// actor. Reads degrade to an empty scope instead.
	ErrUnauthenticated = serrors.NewError("AUTHZ_UNAUTHENTICATED", "authentication required", "")

	// ErrForbidden signals an authenticated actor whose role does not cover
	// the attempted operation.
	ErrForbidden = serrors.NewError("AUTHZ_FORBIDDEN", "permission denied", "")
)

// authorize admits the operation when the actor holds at least min in the
// ordered capability set public < user < admin.
func authorize(ctx context.Context, min actor.Role) error {
	if _, err := composables.UseActor(ctx); err != nil {
		return ErrUnauthenticated
	}
	if !composables.UseRole(ctx).AtLeast(min) {
		return ErrForbidden
	}
	return nil
}

func authorizePicaWrite(ctx context.Context) error {
	return authorize(ctx, actor.RoleUser)
}

func authorizePicaDelete(ctx context.Context) error {
	return authorize(ctx, actor.RoleAdmin)
}
