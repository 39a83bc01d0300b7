package persistence

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	"github.com/hseworks/picatrack/modules/pica/domain/entities/history"
	"github.com/hseworks/picatrack/modules/pica/infrastructure/persistence/models"
)

func toDomainPica(m *models.Pica) *pica.Pica {
	organizationID, err := uuid.Parse(m.OrganizationID)
	if err != nil {
		organizationID = uuid.Nil
	}

	return pica.New(
		m.BusinessKey,
		pica.WithID(m.ID),
		pica.WithOrganizationID(organizationID),
		pica.WithProjectSiteID(uint(m.ProjectSiteID)),
		pica.WithDate(m.Date),
		pica.WithIssue(m.Issue),
		pica.WithProblemDescription(m.ProblemDescription.String),
		pica.WithCorrectiveAction(m.CorrectiveAction.String),
		pica.WithPersonInChargeID(uint(m.PersonInChargeID)),
		pica.WithDueDate(m.DueDate),
		pica.WithStatus(pica.Status(m.Status)),
		pica.WithCreatedAt(m.CreatedAt),
		pica.WithUpdatedAt(m.UpdatedAt),
	)
}

func toDomainHistoryEntry(m *models.PicaHistory) *history.Entry {
	opts := []history.Option{
		history.WithID(m.ID),
		history.WithComment(m.Comment),
		history.WithTimestamp(m.Timestamp),
	}
	if m.ActorID.Valid {
		actorID := uint(m.ActorID.Int64)
		opts = append(opts, history.WithActorID(&actorID))
	}
	if m.ActorName.Valid {
		opts = append(opts, history.WithActorName(m.ActorName.String))
	}
	return history.New(
		m.PicaID,
		pica.Status(m.OldStatus),
		pica.Status(m.NewStatus),
		opts...,
	)
}

func valueToSQLNullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func pointerToSQLNullInt64(value *uint) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
