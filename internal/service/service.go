package service

import (
	"context"
	"time"

	"allotrack-backend/internal/domain"
)

// CreateAllotmentParams carries everything one allotment creation needs.
// NewAsset, when set, registers the asset in the same transaction; exactly
// one of AssetID and NewAsset must be provided.
type CreateAllotmentParams struct {
	AssetID            int64
	NewAsset           *domain.Asset
	OrganizationID     int64
	HandoverDate       time.Time
	DueDate            time.Time
	RentPer30DaysCents int64
	CurrentMonthDays   int32
	Notes              string
}

type AllotmentService interface {
	Create(ctx context.Context, params CreateAllotmentParams) (*domain.Allotment, error)
	Extend(ctx context.Context, allotmentID int64, additionalDays int32, newRentPer30DaysCents *int64, notes string) (*domain.Allotment, error)
	MarkOverdue(ctx context.Context, allotmentID int64, asOf time.Time) (*domain.Allotment, error)
	Return(ctx context.Context, allotmentID int64, surrenderDate time.Time, condition domain.AssetCondition, notes string) (*domain.Allotment, error)
	Get(ctx context.Context, allotmentID int64) (*domain.Allotment, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Allotment, int32, error)
}

type AssetService interface {
	Create(ctx context.Context, asset *domain.Asset) error
	Get(ctx context.Context, id int64) (*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Asset, int32, error)
}

type OrganizationService interface {
	Create(ctx context.Context, org *domain.Organization) error
	Get(ctx context.Context, id int64) (*domain.Organization, error)
	GetByCode(ctx context.Context, code string) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	List(ctx context.Context) ([]domain.Organization, error)
}
