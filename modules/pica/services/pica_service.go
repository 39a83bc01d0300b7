package services

import (
	"context"
	"time"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	"github.com/hseworks/picatrack/modules/pica/domain/entities/history"
	"github.com/hseworks/picatrack/pkg/composables"
	"github.com/hseworks/picatrack/pkg/eventbus"
)

type PicaService struct {
	repo      pica.Repository
	ledger    history.Repository
	publisher eventbus.EventBus
}

func NewPicaService(repo pica.Repository, ledger history.Repository, publisher eventbus.EventBus) *PicaService {
	return &PicaService{
		repo:      repo,
		ledger:    ledger,
		publisher: publisher,
	}
}

// inTxResult runs fn transactionally when a database pool is present.
// Memory-backed contexts carry no pool and run fn directly.
func inTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if _, err := composables.UsePool(ctx); err != nil {
		return fn(ctx)
	}
	return composables.InTxResult(ctx, fn)
}

func (s *PicaService) GetByID(ctx context.Context, id uint) (*pica.Pica, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyDerivedStatus(ctx, p), nil
}

func (s *PicaService) GetByBusinessKey(ctx context.Context, businessKey string) (*pica.Pica, error) {
	p, err := s.repo.GetByBusinessKey(ctx, businessKey)
	if err != nil {
		return nil, err
	}
	return s.applyDerivedStatus(ctx, p), nil
}

// List returns the caller's organization's records with statuses freshly
// derived. A context without an organization yields an empty list.
func (s *PicaService) List(ctx context.Context, params *pica.FindParams) ([]*pica.Pica, error) {
	records, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]*pica.Pica, len(records))
	for i, p := range records {
		out[i] = s.applyDerivedStatus(ctx, p)
	}
	return out, nil
}

func (s *PicaService) Count(ctx context.Context, params *pica.FindParams) (int64, error) {
	return s.repo.Count(ctx, params)
}

func (s *PicaService) Create(ctx context.Context, dto *pica.CreateDTO) (*pica.Pica, error) {
	if err := authorizePicaWrite(ctx); err != nil {
		return nil, err
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	data := dto.ToEntity()
	createdEvent := pica.NewCreatedEvent(ctx, data)

	created, err := inTxResult(ctx, func(txCtx context.Context) (*pica.Pica, error) {
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}

	createdEvent.Result = created
	s.publisher.Publish(createdEvent)
	return created, nil
}

// Update applies a partial edit. It is the sole path through which explicit
// status changes reach the ledger: exactly one entry is appended when, and
// only when, the persisted status actually changed.
func (s *PicaService) Update(ctx context.Context, id uint, dto *pica.UpdateDTO) (*pica.Pica, error) {
	if err := authorizePicaWrite(ctx); err != nil {
		return nil, err
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	var oldStatus pica.Status
	updated, err := inTxResult(ctx, func(txCtx context.Context) (*pica.Pica, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		oldStatus = current.Status()

		next := dto.Apply(current)
		if next.Status() != oldStatus && !pica.TransitionAllowed(oldStatus, next.Status()) {
			return nil, ErrForbidden
		}
		return s.repo.Update(txCtx, next)
	})
	if err != nil {
		return nil, err
	}

	updatedEvent := pica.NewUpdatedEvent(ctx, updated)
	updatedEvent.Result = updated
	s.publisher.Publish(updatedEvent)

	if updated.Status() != oldStatus {
		var actorID *uint
		if a, err := composables.UseActor(ctx); err == nil {
			id := a.ID()
			actorID = &id
		}
		s.appendHistory(ctx, history.New(
			updated.ID(),
			oldStatus,
			updated.Status(),
			history.WithActorID(actorID),
			history.WithComment(dto.Comment),
			history.WithTimestamp(updated.UpdatedAt()),
		))
		s.publisher.Publish(&pica.StatusChangedEvent{
			Actor:  updatedEvent.Actor,
			PicaID: updated.ID(),
			From:   oldStatus,
			To:     updated.Status(),
		})
	}

	return updated, nil
}

// Delete removes a record permanently. Only admins may delete; removing an id
// that does not exist in the caller's organization reports false, not an
// error.
func (s *PicaService) Delete(ctx context.Context, id uint) (bool, error) {
	if err := authorizePicaDelete(ctx); err != nil {
		return false, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == pica.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	deleted, err := inTxResult(ctx, func(txCtx context.Context) (bool, error) {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return false, err
	}
	if deleted {
		s.publisher.Publish(pica.NewDeletedEvent(ctx, existing))
	}
	return deleted, nil
}

// applyDerivedStatus persists a lazily derived overdue promotion. The guarded
// write commits only if the record is still in progress, so concurrent reads
// racing on the same flip produce at most one transition and one ledger
// entry. When persistence fails the caller still sees the derived status; the
// next read retries the flip.
func (s *PicaService) applyDerivedStatus(ctx context.Context, p *pica.Pica) *pica.Pica {
	now := time.Now()
	derived := pica.DeriveStatus(p, now)
	if derived == p.Status() {
		return p
	}

	flipped, err := s.repo.UpdateStatusGuarded(ctx, p.ID(), p.Status(), derived, now)
	if err != nil {
		composables.UseLogger(ctx).
			WithError(err).
			WithField("pica_id", p.ID()).
			Error("failed to persist derived status, returning derived value")
		return s.derivedCopy(p, derived, now)
	}
	if !flipped {
		// Someone else changed the status since the read; surface what is
		// persisted now instead of overwriting their write.
		if current, err := s.repo.GetByID(ctx, p.ID()); err == nil {
			return current
		}
		return s.derivedCopy(p, derived, now)
	}

	s.appendHistory(ctx, history.New(
		p.ID(),
		p.Status(),
		derived,
		history.WithTimestamp(now),
	))
	s.publisher.Publish(&pica.StatusChangedEvent{
		System: true,
		PicaID: p.ID(),
		From:   p.Status(),
		To:     derived,
	})

	return s.derivedCopy(p, derived, now)
}

func (s *PicaService) derivedCopy(p *pica.Pica, status pica.Status, updatedAt time.Time) *pica.Pica {
	return pica.New(
		p.BusinessKey(),
		pica.WithID(p.ID()),
		pica.WithOrganizationID(p.OrganizationID()),
		pica.WithProjectSiteID(p.ProjectSiteID()),
		pica.WithDate(p.Date()),
		pica.WithIssue(p.Issue()),
		pica.WithProblemDescription(p.ProblemDescription()),
		pica.WithCorrectiveAction(p.CorrectiveAction()),
		pica.WithPersonInChargeID(p.PersonInChargeID()),
		pica.WithDueDate(p.DueDate()),
		pica.WithStatus(status),
		pica.WithCreatedAt(p.CreatedAt()),
		pica.WithUpdatedAt(updatedAt),
	)
}

// appendHistory records a status transition. History is advisory: a ledger
// write failure is logged and swallowed so the primary mutation stands.
func (s *PicaService) appendHistory(ctx context.Context, e *history.Entry) {
	if _, err := s.ledger.Append(ctx, e); err != nil {
		composables.UseLogger(ctx).
			WithError(err).
			WithField("pica_id", e.PicaID()).
			WithField("transition", string(e.OldStatus())+" -> "+string(e.NewStatus())).
			Error("ledger write failed, record update kept")
	}
}
