package persistence

import (
	"context"
	"errors"
	"strconv"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	"github.com/hseworks/picatrack/modules/pica/infrastructure/persistence/models"
	"github.com/hseworks/picatrack/pkg/composables"
)

const uniqueViolationCode = "23505"

const picaFindQuery = `
	SELECT id, business_key, organization_id, project_site_id, date, issue,
	       problem_description, corrective_action, person_in_charge_id,
	       due_date, status, created_at, updated_at
	FROM picas`

type PicaRepository struct{}

func NewPicaRepository() pica.Repository {
	return &PicaRepository{}
}

func (r *PicaRepository) GetByID(ctx context.Context, id uint) (*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, pica.ErrNotFound
	}

	records, err := r.queryPicas(ctx, picaFindQuery+" WHERE id = $1 AND organization_id = $2", id, tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, pica.ErrNotFound
	}
	return records[0], nil
}

func (r *PicaRepository) GetByBusinessKey(ctx context.Context, businessKey string) (*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, pica.ErrNotFound
	}

	records, err := r.queryPicas(ctx, picaFindQuery+" WHERE business_key = $1 AND organization_id = $2", businessKey, tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, pica.ErrNotFound
	}
	return records[0], nil
}

func (r *PicaRepository) List(ctx context.Context, params *pica.FindParams) ([]*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		// Fail closed: an incomplete actor context sees nothing rather than
		// everything.
		return []*pica.Pica{}, nil
	}
	if params == nil {
		params = &pica.FindParams{}
	}

	query := picaFindQuery + " WHERE organization_id = $1"
	args := []any{tenantID.String()}
	if params.Status != "" {
		query += " AND status = $2"
		args = append(args, string(params.Status))
	}
	query += " ORDER BY id"
	if params.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(params.Limit)
	}
	if params.Offset > 0 {
		query += " OFFSET " + strconv.Itoa(params.Offset)
	}

	return r.queryPicas(ctx, query, args...)
}

func (r *PicaRepository) Count(ctx context.Context, params *pica.FindParams) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, nil
	}
	if params == nil {
		params = &pica.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM picas WHERE organization_id = $1"
	args := []any{tenantID.String()}
	if params.Status != "" {
		query += " AND status = $2"
		args = append(args, string(params.Status))
	}

	var count int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "failed to count picas")
	}
	return count, nil
}

func (r *PicaRepository) Create(ctx context.Context, p *pica.Pica) (*pica.Pica, error) {
	// The actor's organization wins over anything in the payload.
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, composables.ErrNoTenantID
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO picas (business_key, organization_id, project_site_id, date, issue,
		                   problem_description, corrective_action, person_in_charge_id,
		                   due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id uint
	if err := tx.QueryRow(
		ctx,
		query,
		p.BusinessKey(),
		tenantID.String(),
		int64(p.ProjectSiteID()),
		p.Date(),
		p.Issue(),
		valueToSQLNullString(p.ProblemDescription()),
		valueToSQLNullString(p.CorrectiveAction()),
		int64(p.PersonInChargeID()),
		p.DueDate(),
		string(p.Status()),
		p.CreatedAt(),
		p.UpdatedAt(),
	).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, pica.ErrDuplicateBusinessKey
		}
		return nil, gerrors.Wrap(err, "failed to insert pica")
	}

	return r.GetByID(ctx, id)
}

func (r *PicaRepository) Update(ctx context.Context, p *pica.Pica) (*pica.Pica, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, pica.ErrNotFound
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE picas
		SET project_site_id = $1, date = $2, issue = $3, problem_description = $4,
		    corrective_action = $5, person_in_charge_id = $6, due_date = $7,
		    status = $8, updated_at = $9
		WHERE id = $10 AND organization_id = $11
		RETURNING id
	`
	var id uint
	if err := tx.QueryRow(
		ctx,
		query,
		int64(p.ProjectSiteID()),
		p.Date(),
		p.Issue(),
		valueToSQLNullString(p.ProblemDescription()),
		valueToSQLNullString(p.CorrectiveAction()),
		int64(p.PersonInChargeID()),
		p.DueDate(),
		string(p.Status()),
		p.UpdatedAt(),
		p.ID(),
		tenantID.String(),
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pica.ErrNotFound
		}
		return nil, gerrors.Wrap(err, "failed to update pica")
	}

	return r.GetByID(ctx, id)
}

func (r *PicaRepository) Delete(ctx context.Context, id uint) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM picas WHERE id = $1 AND organization_id = $2", id, tenantID.String())
	if err != nil {
		return false, gerrors.Wrap(err, "failed to delete pica")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PicaRepository) UpdateStatusGuarded(ctx context.Context, id uint, from, to pica.Status, updatedAt time.Time) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	// Compare-then-write in one statement: the flip commits only if nobody
	// changed the status since it was read.
	tag, err := tx.Exec(
		ctx,
		"UPDATE picas SET status = $1, updated_at = $2 WHERE id = $3 AND organization_id = $4 AND status = $5",
		string(to),
		updatedAt,
		id,
		tenantID.String(),
		string(from),
	)
	if err != nil {
		return false, gerrors.Wrap(err, "failed to flip pica status")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PicaRepository) queryPicas(ctx context.Context, query string, args ...any) ([]*pica.Pica, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var records []*pica.Pica
	for rows.Next() {
		var m models.Pica
		if err := rows.Scan(
			&m.ID,
			&m.BusinessKey,
			&m.OrganizationID,
			&m.ProjectSiteID,
			&m.Date,
			&m.Issue,
			&m.ProblemDescription,
			&m.CorrectiveAction,
			&m.PersonInChargeID,
			&m.DueDate,
			&m.Status,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan pica row")
		}
		records = append(records, toDomainPica(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}

	return records, nil
}
