package service

import (
	"context"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

type assetService struct {
	assets repository.AssetRepository
}

func NewAssetService(assets repository.AssetRepository) AssetService {
	return &assetService{assets: assets}
}

func (s *assetService) Create(ctx context.Context, asset *domain.Asset) error {
	if asset.Status == "" {
		asset.Status = domain.AssetStatusAvailable
	}
	return s.assets.Create(ctx, asset)
}

func (s *assetService) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

func (s *assetService) Update(ctx context.Context, asset *domain.Asset) error {
	return s.assets.Update(ctx, asset)
}

func (s *assetService) List(ctx context.Context, page, pageSize int32) ([]domain.Asset, int32, error) {
	return s.assets.List(ctx, page, pageSize)
}
