package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/hseworks/picatrack/modules/pica/domain/entities/history"
	"github.com/hseworks/picatrack/modules/pica/infrastructure/persistence/models"
	"github.com/hseworks/picatrack/pkg/composables"
)

type HistoryRepository struct{}

func NewHistoryRepository() history.Repository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Append(ctx context.Context, e *history.Entry) (*history.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO pica_history (pica_id, actor_id, old_status, new_status, comment, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uint
	if err := tx.QueryRow(
		ctx,
		query,
		e.PicaID(),
		pointerToSQLNullInt64(e.ActorID()),
		string(e.OldStatus()),
		string(e.NewStatus()),
		e.Comment(),
		e.Timestamp(),
	).Scan(&id); err != nil {
		return nil, gerrors.Wrap(err, "failed to append history entry")
	}

	return history.New(
		e.PicaID(),
		e.OldStatus(),
		e.NewStatus(),
		history.WithID(id),
		history.WithActorID(e.ActorID()),
		history.WithComment(e.Comment()),
		history.WithTimestamp(e.Timestamp()),
	), nil
}

// ListForRecord returns the ledger for one record newest-first. The join on
// picas keeps the read tenant-scoped; an entry is only visible through a
// record the caller can see.
func (r *HistoryRepository) ListForRecord(ctx context.Context, picaID uint) ([]*history.Entry, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return []*history.Entry{}, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT h.id, h.pica_id, h.actor_id, h.old_status, h.new_status, h.comment, h.timestamp, a.name
		FROM pica_history h
		JOIN picas p ON p.id = h.pica_id AND p.organization_id = $2
		LEFT JOIN actors a ON a.id = h.actor_id
		WHERE h.pica_id = $1
		ORDER BY h.timestamp DESC, h.id DESC
	`
	rows, err := tx.Query(ctx, query, picaID, tenantID.String())
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query history")
	}
	defer rows.Close()

	var entries []*history.Entry
	for rows.Next() {
		var m models.PicaHistory
		if err := rows.Scan(
			&m.ID,
			&m.PicaID,
			&m.ActorID,
			&m.OldStatus,
			&m.NewStatus,
			&m.Comment,
			&m.Timestamp,
			&m.ActorName,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan history row")
		}
		entries = append(entries, toDomainHistoryEntry(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}

	return entries, nil
}
