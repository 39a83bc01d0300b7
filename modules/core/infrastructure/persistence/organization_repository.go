package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hseworks/picatrack/modules/core/domain/entities/organization"
	"github.com/hseworks/picatrack/modules/core/infrastructure/persistence/models"
	"github.com/hseworks/picatrack/pkg/composables"
)

const organizationFindQuery = `SELECT id, name, is_active, created_at, updated_at FROM organizations`

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	orgs, err := r.queryOrganizations(ctx, organizationFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, organization.ErrNotFound
	}
	return orgs[0], nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]*organization.Organization, error) {
	return r.queryOrganizations(ctx, organizationFindQuery+" ORDER BY name")
}

func (r *OrganizationRepository) Create(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO organizations (id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var idStr string
	if err := tx.QueryRow(
		ctx,
		query,
		o.ID().String(),
		o.Name(),
		o.IsActive(),
		o.CreatedAt(),
		o.UpdatedAt(),
	).Scan(&idStr); err != nil {
		return nil, gerrors.Wrap(err, "failed to insert organization")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrganizationRepository) Update(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE organizations
		SET name = $1, is_active = $2, updated_at = $3
		WHERE id = $4
		RETURNING id
	`
	var idStr string
	if err := tx.QueryRow(
		ctx,
		query,
		o.Name(),
		o.IsActive(),
		o.UpdatedAt(),
		o.ID().String(),
	).Scan(&idStr); err != nil {
		return nil, gerrors.Wrap(err, "failed to update organization")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrganizationRepository) queryOrganizations(ctx context.Context, query string, args ...any) ([]*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var orgs []*organization.Organization
	for rows.Next() {
		var m models.Organization
		if err := rows.Scan(&m.ID, &m.Name, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan organization row")
		}
		orgs = append(orgs, toDomainOrganization(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}

	return orgs, nil
}
