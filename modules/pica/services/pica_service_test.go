package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	corepersistence "github.com/hseworks/picatrack/modules/core/infrastructure/persistence"
	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	"github.com/hseworks/picatrack/modules/pica/domain/entities/history"
	picapersistence "github.com/hseworks/picatrack/modules/pica/infrastructure/persistence"
	"github.com/hseworks/picatrack/modules/pica/services"
	"github.com/hseworks/picatrack/pkg/composables"
	"github.com/hseworks/picatrack/pkg/eventbus"
	"github.com/hseworks/picatrack/pkg/serrors"
)

type fixture struct {
	picas   *picapersistence.MemoryPicaRepository
	actors  *corepersistence.MemoryActorRepository
	ledger  *picapersistence.MemoryHistoryRepository
	bus     eventbus.EventBus
	service *services.PicaService
	history *services.HistoryService

	orgA uuid.UUID
	orgB uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	picas := picapersistence.NewMemoryPicaRepository()
	actors := corepersistence.NewMemoryActorRepository()
	ledger := picapersistence.NewMemoryHistoryRepository(picas, actors)
	bus := eventbus.NewEventPublisher(logrus.New())
	return &fixture{
		picas:   picas,
		actors:  actors,
		ledger:  ledger,
		bus:     bus,
		service: services.NewPicaService(picas, ledger, bus),
		history: services.NewHistoryService(ledger),
		orgA:    uuid.New(),
		orgB:    uuid.New(),
	}
}

func (f *fixture) ctxAs(role actor.Role, org uuid.UUID) context.Context {
	a := actor.New("Test Actor",
		actor.WithID(99),
		actor.WithOrganizationID(org),
		actor.WithRole(role),
	)
	return composables.WithActor(context.Background(), a)
}

func (f *fixture) userCtx() context.Context  { return f.ctxAs(actor.RoleUser, f.orgA) }
func (f *fixture) adminCtx() context.Context { return f.ctxAs(actor.RoleAdmin, f.orgA) }

func createDTO(key string, dueDate time.Time) *pica.CreateDTO {
	return &pica.CreateDTO{
		BusinessKey:      key,
		ProjectSiteID:    3,
		Issue:            "unlabeled chemical storage",
		PersonInChargeID: 8,
		DueDate:          dueDate,
	}
}

func tomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1)
}

func TestPicaServiceCreate(t *testing.T) {
	f := setup(t)

	t.Run("assigns organization from the actor, not the payload", func(t *testing.T) {
		created, err := f.service.Create(f.userCtx(), createDTO("PICA-100", tomorrow()))
		require.NoError(t, err)
		assert.Equal(t, f.orgA, created.OrganizationID())
		assert.Equal(t, pica.StatusProgress, created.Status())
		assert.NotZero(t, created.ID())
	})

	t.Run("rejects a duplicate business key within the organization", func(t *testing.T) {
		_, err := f.service.Create(f.userCtx(), createDTO("PICA-100", tomorrow()))
		assert.ErrorIs(t, err, pica.ErrDuplicateBusinessKey)
	})

	t.Run("allows the same business key in another organization", func(t *testing.T) {
		created, err := f.service.Create(f.ctxAs(actor.RoleUser, f.orgB), createDTO("PICA-100", tomorrow()))
		require.NoError(t, err)
		assert.Equal(t, f.orgB, created.OrganizationID())
	})

	t.Run("rejects an invalid payload with field errors", func(t *testing.T) {
		_, err := f.service.Create(f.userCtx(), &pica.CreateDTO{})
		var validationErrs serrors.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs, "BusinessKey")
	})

	t.Run("requires an authenticated actor", func(t *testing.T) {
		_, err := f.service.Create(context.Background(), createDTO("PICA-101", tomorrow()))
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("requires at least the user role", func(t *testing.T) {
		_, err := f.service.Create(f.ctxAs(actor.RolePublic, f.orgA), createDTO("PICA-101", tomorrow()))
		assert.ErrorIs(t, err, services.ErrForbidden)
	})
}

func TestPicaServiceUpdateStatusTransition(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	created, err := f.service.Create(ctx, createDTO("PICA-200", tomorrow()))
	require.NoError(t, err)

	var events []*pica.StatusChangedEvent
	f.bus.Subscribe(func(e *pica.StatusChangedEvent) {
		events = append(events, e)
	})

	newStatus := pica.StatusComplete
	updateDate := time.Now().Add(-time.Hour).Truncate(time.Second)
	updated, err := f.service.Update(ctx, created.ID(), &pica.UpdateDTO{
		Status:     &newStatus,
		Comment:    "verified on site",
		UpdateDate: &updateDate,
	})
	require.NoError(t, err)
	assert.Equal(t, pica.StatusComplete, updated.Status())

	entries, err := f.history.ListForRecord(ctx, created.ID())
	require.NoError(t, err)
	require.Len(t, entries, 1, "exactly one ledger entry per transition")

	entry := entries[0]
	assert.Equal(t, pica.StatusProgress, entry.OldStatus())
	assert.Equal(t, pica.StatusComplete, entry.NewStatus())
	assert.Equal(t, "verified on site", entry.Comment())
	assert.True(t, entry.Timestamp().Equal(updateDate), "audit timestamp honors the override")
	require.NotNil(t, entry.ActorID())
	assert.Equal(t, uint(99), *entry.ActorID())

	require.Len(t, events, 1)
	assert.False(t, events[0].System)
	assert.Equal(t, pica.StatusProgress, events[0].From)
	assert.Equal(t, pica.StatusComplete, events[0].To)
}

func TestPicaServiceUpdateNoTransition(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	created, err := f.service.Create(ctx, createDTO("PICA-201", tomorrow()))
	require.NoError(t, err)

	t.Run("field-only edit writes no ledger entry", func(t *testing.T) {
		issue := "updated issue text"
		_, err := f.service.Update(ctx, created.ID(), &pica.UpdateDTO{Issue: &issue})
		require.NoError(t, err)

		entries, err := f.history.ListForRecord(ctx, created.ID())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("writing the current status back writes no ledger entry", func(t *testing.T) {
		same := pica.StatusProgress
		_, err := f.service.Update(ctx, created.ID(), &pica.UpdateDTO{Status: &same})
		require.NoError(t, err)

		entries, err := f.history.ListForRecord(ctx, created.ID())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestPicaServiceUpdateDefaultComment(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	created, err := f.service.Create(ctx, createDTO("PICA-202", tomorrow()))
	require.NoError(t, err)

	newStatus := pica.StatusComplete
	_, err = f.service.Update(ctx, created.ID(), &pica.UpdateDTO{Status: &newStatus})
	require.NoError(t, err)

	entries, err := f.history.ListForRecord(ctx, created.ID())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Status changed from progress to complete", entries[0].Comment())
}

func TestPicaServiceTenantIsolation(t *testing.T) {
	f := setup(t)
	ctxA := f.userCtx()
	ctxB := f.ctxAs(actor.RoleUser, f.orgB)

	created, err := f.service.Create(ctxA, createDTO("PICA-300", tomorrow()))
	require.NoError(t, err)

	t.Run("cross-tenant read reports not found", func(t *testing.T) {
		_, err := f.service.GetByID(ctxB, created.ID())
		assert.ErrorIs(t, err, pica.ErrNotFound)

		_, err = f.service.GetByBusinessKey(ctxB, created.BusinessKey())
		assert.ErrorIs(t, err, pica.ErrNotFound)
	})

	t.Run("cross-tenant update reports not found", func(t *testing.T) {
		issue := "tampered"
		_, err := f.service.Update(ctxB, created.ID(), &pica.UpdateDTO{Issue: &issue})
		assert.ErrorIs(t, err, pica.ErrNotFound)
	})

	t.Run("lists never cross organizations", func(t *testing.T) {
		_, err := f.service.Create(ctxB, createDTO("PICA-301", tomorrow()))
		require.NoError(t, err)

		records, err := f.service.List(ctxA, nil)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "PICA-300", records[0].BusinessKey())
	})

	t.Run("a context without an organization sees an empty list", func(t *testing.T) {
		records, err := f.service.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestPicaServiceListFilters(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	for _, key := range []string{"PICA-400", "PICA-401", "PICA-402"} {
		_, err := f.service.Create(ctx, createDTO(key, tomorrow()))
		require.NoError(t, err)
	}
	complete := pica.StatusComplete
	first, err := f.service.GetByBusinessKey(ctx, "PICA-400")
	require.NoError(t, err)
	_, err = f.service.Update(ctx, first.ID(), &pica.UpdateDTO{Status: &complete})
	require.NoError(t, err)

	t.Run("by status", func(t *testing.T) {
		records, err := f.service.List(ctx, &pica.FindParams{Status: pica.StatusComplete})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "PICA-400", records[0].BusinessKey())
	})

	t.Run("limit and offset", func(t *testing.T) {
		records, err := f.service.List(ctx, &pica.FindParams{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Len(t, records, 2)

		count, err := f.service.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestPicaServiceLazyOverduePromotion(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	created, err := f.service.Create(ctx, createDTO("PICA-500", time.Now().AddDate(0, 0, -2)))
	require.NoError(t, err)
	assert.Equal(t, pica.StatusProgress, created.Status(), "creation never derives")

	var events []*pica.StatusChangedEvent
	f.bus.Subscribe(func(e *pica.StatusChangedEvent) {
		events = append(events, e)
	})

	t.Run("read promotes and persists", func(t *testing.T) {
		got, err := f.service.GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, pica.StatusOverdue, got.Status())

		// The promotion is durable, not a display artifact.
		raw, err := f.picas.GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, pica.StatusOverdue, raw.Status())
	})

	t.Run("promotion lands exactly one system ledger entry", func(t *testing.T) {
		entries, err := f.history.ListForRecord(ctx, created.ID())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, pica.StatusProgress, entries[0].OldStatus())
		assert.Equal(t, pica.StatusOverdue, entries[0].NewStatus())
		assert.Nil(t, entries[0].ActorID(), "system transitions carry no actor")

		require.Len(t, events, 1)
		assert.True(t, events[0].System)
	})

	t.Run("repeat reads are idempotent", func(t *testing.T) {
		for range 3 {
			_, err := f.service.GetByID(ctx, created.ID())
			require.NoError(t, err)
		}
		entries, err := f.history.ListForRecord(ctx, created.ID())
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Len(t, events, 1)
	})
}

func TestPicaServiceDerivationBoundaries(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	t.Run("due today is not overdue", func(t *testing.T) {
		created, err := f.service.Create(ctx, createDTO("PICA-510", time.Now()))
		require.NoError(t, err)

		got, err := f.service.GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, pica.StatusProgress, got.Status())
	})

	t.Run("complete past due is left alone", func(t *testing.T) {
		created, err := f.service.Create(ctx, createDTO("PICA-511", time.Now().AddDate(0, 0, -1)))
		require.NoError(t, err)
		complete := pica.StatusComplete
		_, err = f.service.Update(ctx, created.ID(), &pica.UpdateDTO{Status: &complete})
		require.NoError(t, err)

		got, err := f.service.GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, pica.StatusComplete, got.Status())

		entries, err := f.history.ListForRecord(ctx, created.ID())
		require.NoError(t, err)
		assert.Len(t, entries, 1, "only the explicit completion is recorded")
	})

	t.Run("list derives for every returned record", func(t *testing.T) {
		created, err := f.service.Create(ctx, createDTO("PICA-512", time.Now().AddDate(0, 0, -3)))
		require.NoError(t, err)

		records, err := f.service.List(ctx, &pica.FindParams{Status: pica.StatusProgress})
		require.NoError(t, err)
		for _, r := range records {
			if r.ID() == created.ID() {
				assert.Equal(t, pica.StatusOverdue, r.Status())
			}
		}
	})
}

func TestPicaServiceDelete(t *testing.T) {
	f := setup(t)
	userCtx := f.userCtx()
	adminCtx := f.adminCtx()

	created, err := f.service.Create(userCtx, createDTO("PICA-600", tomorrow()))
	require.NoError(t, err)

	t.Run("requires the admin role", func(t *testing.T) {
		_, err := f.service.Delete(userCtx, created.ID())
		assert.ErrorIs(t, err, services.ErrForbidden)

		_, err = f.service.Delete(context.Background(), created.ID())
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("cross-tenant delete reports false", func(t *testing.T) {
		deleted, err := f.service.Delete(f.ctxAs(actor.RoleAdmin, f.orgB), created.ID())
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("admin delete removes the record", func(t *testing.T) {
		deleted, err := f.service.Delete(adminCtx, created.ID())
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = f.service.GetByID(adminCtx, created.ID())
		assert.ErrorIs(t, err, pica.ErrNotFound)
	})

	t.Run("deleting a missing id reports false without error", func(t *testing.T) {
		deleted, err := f.service.Delete(adminCtx, 9999)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

// brokenLedger fails every append while leaving the wrapped ledger's reads
// intact.
type brokenLedger struct {
	history.Repository
	err error
}

func (l *brokenLedger) Append(ctx context.Context, e *history.Entry) (*history.Entry, error) {
	return nil, l.err
}

// stuckStatusRepo fails every guarded status flip while delegating everything
// else to the wrapped repository.
type stuckStatusRepo struct {
	pica.Repository
	err error
}

func (r *stuckStatusRepo) UpdateStatusGuarded(ctx context.Context, id uint, from, to pica.Status, updatedAt time.Time) (bool, error) {
	return false, r.err
}

func TestPicaServiceLedgerFailureDoesNotBlockUpdate(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	created, err := f.service.Create(ctx, createDTO("PICA-800", tomorrow()))
	require.NoError(t, err)

	broken := services.NewPicaService(
		f.picas,
		&brokenLedger{Repository: f.ledger, err: errors.New("ledger unavailable")},
		f.bus,
	)

	complete := pica.StatusComplete
	updated, err := broken.Update(ctx, created.ID(), &pica.UpdateDTO{Status: &complete})
	require.NoError(t, err, "a ledger failure must not fail the update")
	assert.Equal(t, pica.StatusComplete, updated.Status())

	// The record change stands; the trail simply has a hole.
	persisted, err := f.picas.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, pica.StatusComplete, persisted.Status())

	entries, err := f.history.ListForRecord(ctx, created.ID())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPicaServiceWriteBackFailureStillDerives(t *testing.T) {
	f := setup(t)
	ctx := f.userCtx()

	created, err := f.service.Create(ctx, createDTO("PICA-801", time.Now().AddDate(0, 0, -2)))
	require.NoError(t, err)

	stuck := services.NewPicaService(
		&stuckStatusRepo{Repository: f.picas, err: errors.New("database unavailable")},
		f.ledger,
		f.bus,
	)

	t.Run("read succeeds with the derived status", func(t *testing.T) {
		got, err := stuck.GetByID(ctx, created.ID())
		require.NoError(t, err, "a failed write-back must not fail the read")
		assert.Equal(t, pica.StatusOverdue, got.Status())
	})

	t.Run("nothing was persisted or ledgered", func(t *testing.T) {
		raw, err := f.picas.GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, pica.StatusProgress, raw.Status())

		entries, err := f.history.ListForRecord(ctx, created.ID())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("a later read over a healthy store persists the flip", func(t *testing.T) {
		got, err := f.service.GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, pica.StatusOverdue, got.Status())

		raw, err := f.picas.GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, pica.StatusOverdue, raw.Status())

		entries, err := f.history.ListForRecord(ctx, created.ID())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].ActorID())
	})
}
