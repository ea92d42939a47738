package service

import (
	"context"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

type organizationService struct {
	orgs repository.OrganizationRepository
}

func NewOrganizationService(orgs repository.OrganizationRepository) OrganizationService {
	return &organizationService{orgs: orgs}
}

func (s *organizationService) Create(ctx context.Context, org *domain.Organization) error {
	return s.orgs.Create(ctx, org)
}

func (s *organizationService) Get(ctx context.Context, id int64) (*domain.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *organizationService) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	return s.orgs.GetByCode(ctx, code)
}

func (s *organizationService) Update(ctx context.Context, org *domain.Organization) error {
	return s.orgs.Update(ctx, org)
}

func (s *organizationService) List(ctx context.Context) ([]domain.Organization, error) {
	return s.orgs.List(ctx)
}
