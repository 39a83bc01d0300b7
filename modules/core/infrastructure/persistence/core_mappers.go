package persistence

import (
	"github.com/google/uuid"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/modules/core/domain/entities/organization"
	"github.com/hseworks/picatrack/modules/core/infrastructure/persistence/models"
)

func toDomainOrganization(m *models.Organization) *organization.Organization {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		id = uuid.Nil
	}
	return organization.New(
		m.Name,
		organization.WithID(id),
		organization.WithIsActive(m.IsActive),
		organization.WithCreatedAt(m.CreatedAt),
		organization.WithUpdatedAt(m.UpdatedAt),
	)
}

func toDomainActor(m *models.Actor) *actor.Actor {
	organizationID, err := uuid.Parse(m.OrganizationID)
	if err != nil {
		organizationID = uuid.Nil
	}
	return actor.New(
		m.Name,
		actor.WithID(m.ID),
		actor.WithOrganizationID(organizationID),
		actor.WithEmail(m.Email),
		actor.WithRole(actor.Role(m.Role)),
		actor.WithCreatedAt(m.CreatedAt),
		actor.WithUpdatedAt(m.UpdatedAt),
	)
}
