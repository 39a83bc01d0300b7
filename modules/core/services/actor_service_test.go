package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/modules/core/infrastructure/persistence"
	"github.com/hseworks/picatrack/modules/core/services"
	"github.com/hseworks/picatrack/pkg/composables"
	"github.com/hseworks/picatrack/pkg/eventbus"
)

func setupActors(t *testing.T) (*services.ActorService, *persistence.MemoryActorRepository, uuid.UUID) {
	t.Helper()
	repo := persistence.NewMemoryActorRepository()
	svc := services.NewActorService(repo, eventbus.NewEventPublisher(logrus.New()))
	return svc, repo, uuid.New()
}

func seedActor(t *testing.T, repo *persistence.MemoryActorRepository, org uuid.UUID, name string, role actor.Role) *actor.Actor {
	t.Helper()
	ctx := composables.WithTenantID(context.Background(), org)
	stored, err := repo.Create(ctx, actor.New(name,
		actor.WithOrganizationID(org),
		actor.WithEmail(name+"@example.com"),
		actor.WithRole(role),
	))
	require.NoError(t, err)
	return stored
}

func TestActorServiceCreate(t *testing.T) {
	svc, repo, org := setupActors(t)
	admin := seedActor(t, repo, org, "admin", actor.RoleAdmin)
	user := seedActor(t, repo, org, "user", actor.RoleUser)

	newActor := actor.New("newcomer", actor.WithEmail("newcomer@example.com"))

	t.Run("admin may create", func(t *testing.T) {
		created, err := svc.Create(composables.WithActor(context.Background(), admin), newActor)
		require.NoError(t, err)
		assert.Equal(t, org, created.OrganizationID())
	})

	t.Run("user may not", func(t *testing.T) {
		_, err := svc.Create(composables.WithActor(context.Background(), user), newActor)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("unauthenticated may not", func(t *testing.T) {
		_, err := svc.Create(context.Background(), newActor)
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})
}

func TestActorServiceDelete(t *testing.T) {
	svc, repo, org := setupActors(t)
	admin := seedActor(t, repo, org, "admin", actor.RoleAdmin)
	user := seedActor(t, repo, org, "user", actor.RoleUser)
	adminCtx := composables.WithActor(context.Background(), admin)

	t.Run("admin deletes another actor", func(t *testing.T) {
		deleted, err := svc.Delete(adminCtx, user.ID())
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("admin may not delete themselves", func(t *testing.T) {
		_, err := svc.Delete(adminCtx, admin.ID())
		assert.ErrorIs(t, err, services.ErrSelfDelete)
	})

	t.Run("non-admin may not delete", func(t *testing.T) {
		other := seedActor(t, repo, org, "other", actor.RoleUser)
		_, err := svc.Delete(composables.WithActor(context.Background(), other), admin.ID())
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("missing id reports false", func(t *testing.T) {
		deleted, err := svc.Delete(adminCtx, 9999)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
