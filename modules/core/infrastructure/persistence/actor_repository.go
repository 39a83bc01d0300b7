package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/modules/core/infrastructure/persistence/models"
	"github.com/hseworks/picatrack/pkg/composables"
)

const actorFindQuery = `SELECT id, organization_id, name, email, role, created_at, updated_at FROM actors`

type ActorRepository struct{}

func NewActorRepository() actor.Repository {
	return &ActorRepository{}
}

func (r *ActorRepository) GetByID(ctx context.Context, id uint) (*actor.Actor, error) {
	actors, err := r.queryActors(ctx, actorFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(actors) == 0 {
		return nil, actor.ErrNotFound
	}
	return actors[0], nil
}

func (r *ActorRepository) GetByEmail(ctx context.Context, email string) (*actor.Actor, error) {
	actors, err := r.queryActors(ctx, actorFindQuery+" WHERE email = $1", email)
	if err != nil {
		return nil, err
	}
	if len(actors) == 0 {
		return nil, actor.ErrNotFound
	}
	return actors[0], nil
}

func (r *ActorRepository) List(ctx context.Context) ([]*actor.Actor, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return []*actor.Actor{}, nil
	}
	return r.queryActors(ctx, actorFindQuery+" WHERE organization_id = $1 ORDER BY id", tenantID.String())
}

func (r *ActorRepository) Create(ctx context.Context, a *actor.Actor) (*actor.Actor, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, composables.ErrNoTenantID
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO actors (organization_id, name, email, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uint
	if err := tx.QueryRow(
		ctx,
		query,
		tenantID.String(),
		a.Name(),
		a.Email(),
		string(a.Role()),
		a.CreatedAt(),
		a.UpdatedAt(),
	).Scan(&id); err != nil {
		return nil, gerrors.Wrap(err, "failed to insert actor")
	}

	return r.GetByID(ctx, id)
}

func (r *ActorRepository) Delete(ctx context.Context, id uint) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM actors WHERE id = $1 AND organization_id = $2", id, tenantID.String())
	if err != nil {
		return false, gerrors.Wrap(err, "failed to delete actor")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ActorRepository) queryActors(ctx context.Context, query string, args ...any) ([]*actor.Actor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var actors []*actor.Actor
	for rows.Next() {
		var m models.Actor
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.Name, &m.Email, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan actor row")
		}
		actors = append(actors, toDomainActor(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}

	return actors, nil
}
