package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hseworks/picatrack/modules/core/domain/entities/organization"
)

type OrganizationService struct {
	repo organization.Repository
}

func NewOrganizationService(repo organization.Repository) *OrganizationService {
	return &OrganizationService{repo: repo}
}

func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrganizationService) List(ctx context.Context) ([]*organization.Organization, error) {
	return s.repo.List(ctx)
}

func (s *OrganizationService) Create(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	return s.repo.Create(ctx, o)
}
