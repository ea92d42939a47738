package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

type allotmentService struct {
	tx    repository.TxManager
	repos repository.Repositories
}

// NewAllotmentService builds the lifecycle engine. All mutating operations
// run inside a single transaction via tx; the plain repos serve reads.
func NewAllotmentService(tx repository.TxManager, repos repository.Repositories) AllotmentService {
	return &allotmentService{tx: tx, repos: repos}
}

func (s *allotmentService) Create(ctx context.Context, params CreateAllotmentParams) (*domain.Allotment, error) {
	var created *domain.Allotment

	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		assetID := params.AssetID
		if params.NewAsset != nil {
			params.NewAsset.Status = domain.AssetStatusAvailable
			if err := r.Assets.Create(ctx, params.NewAsset); err != nil {
				return fmt.Errorf("register asset: %w", err)
			}
			assetID = params.NewAsset.ID
		}

		asset, err := r.Assets.GetByID(ctx, assetID)
		if err != nil {
			return fmt.Errorf("load asset %d: %w", assetID, err)
		}
		if asset.Status != domain.AssetStatusAvailable {
			return domain.ErrAssetNotAvailable
		}

		org, err := r.Organizations.GetByID(ctx, params.OrganizationID)
		if err != nil {
			return fmt.Errorf("load organization %d: %w", params.OrganizationID, err)
		}

		number, err := r.Allotments.NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("allocate allotment number: %w", err)
		}

		dueDate := params.DueDate
		if dueDate.IsZero() {
			dueDate = params.HandoverDate.AddDate(0, 0, int(params.CurrentMonthDays))
		}

		allotment := &domain.Allotment{
			Number:             number,
			AssetID:            asset.ID,
			OrganizationID:     org.ID,
			HandoverDate:       params.HandoverDate,
			DueDate:            dueDate,
			RentPer30DaysCents: params.RentPer30DaysCents,
			CurrentMonthDays:   params.CurrentMonthDays,
			Status:             domain.AllotmentStatusActive,
			Notes:              params.Notes,
		}
		allotment.RecomputeRent()

		if err := r.Allotments.Create(ctx, allotment); err != nil {
			return fmt.Errorf("create allotment: %w", err)
		}

		asset.Status = domain.AssetStatusAllotted
		asset.CurrentAllotmentID = &allotment.ID
		if err := r.Assets.Update(ctx, asset); err != nil {
			return fmt.Errorf("mark asset allotted: %w", err)
		}

		if err := r.Organizations.AdjustAllotmentCounts(ctx, org.ID, 1, 1); err != nil {
			return fmt.Errorf("bump organization counters: %w", err)
		}

		created = allotment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *allotmentService) Extend(ctx context.Context, allotmentID int64, additionalDays int32, newRentPer30DaysCents *int64, notes string) (*domain.Allotment, error) {
	if additionalDays <= 0 {
		return nil, errors.New("additional days must be positive")
	}

	var extended *domain.Allotment

	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		allotment, err := r.Allotments.GetByID(ctx, allotmentID)
		if err != nil {
			return err
		}
		if allotment.Status != domain.AllotmentStatusActive && allotment.Status != domain.AllotmentStatusExtended {
			return domain.NewStateGuardError(allotmentID, "extend", allotment.Status)
		}

		newDue := allotment.DueDate.AddDate(0, 0, int(additionalDays))
		ext := &domain.Extension{
			AllotmentID:     allotment.ID,
			PreviousDueDate: allotment.DueDate,
			NewDueDate:      newDue,
			AdditionalDays:  additionalDays,
			Notes:           notes,
		}
		if err := r.Allotments.AppendExtension(ctx, ext); err != nil {
			return fmt.Errorf("record extension: %w", err)
		}

		allotment.DueDate = newDue
		allotment.CurrentMonthDays += additionalDays
		if newRentPer30DaysCents != nil {
			allotment.RentPer30DaysCents = *newRentPer30DaysCents
		}
		allotment.RecomputeRent()
		allotment.Status = domain.AllotmentStatusExtended

		if err := r.Allotments.Update(ctx, allotment); err != nil {
			return fmt.Errorf("update allotment: %w", err)
		}

		extended = allotment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return extended, nil
}

// MarkOverdue flips an open allotment past its due date to OVERDUE. It is
// idempotent: already-overdue, returned and not-yet-due allotments come back
// unchanged, so the sweep can safely revisit the same rows.
func (s *allotmentService) MarkOverdue(ctx context.Context, allotmentID int64, asOf time.Time) (*domain.Allotment, error) {
	var result *domain.Allotment

	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		allotment, err := r.Allotments.GetByID(ctx, allotmentID)
		if err != nil {
			return err
		}
		result = allotment

		if allotment.Status != domain.AllotmentStatusActive && allotment.Status != domain.AllotmentStatusExtended {
			return nil
		}
		if !allotment.DueDate.Before(asOf) {
			return nil
		}

		allotment.Status = domain.AllotmentStatusOverdue
		return r.Allotments.Update(ctx, allotment)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *allotmentService) Return(ctx context.Context, allotmentID int64, surrenderDate time.Time, condition domain.AssetCondition, notes string) (*domain.Allotment, error) {
	var returned *domain.Allotment

	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		allotment, err := r.Allotments.GetByID(ctx, allotmentID)
		if err != nil {
			return err
		}
		if allotment.Status == domain.AllotmentStatusReturned {
			return domain.NewStateGuardError(allotmentID, "return", allotment.Status)
		}

		allotment.SurrenderDate = &surrenderDate
		allotment.ReturnCondition = condition
		allotment.Status = domain.AllotmentStatusReturned
		if notes != "" {
			allotment.Notes = notes
		}
		if err := r.Allotments.Update(ctx, allotment); err != nil {
			return fmt.Errorf("update allotment: %w", err)
		}

		asset, err := r.Assets.GetByID(ctx, allotment.AssetID)
		if err != nil {
			return fmt.Errorf("load asset %d: %w", allotment.AssetID, err)
		}
		if condition == domain.AssetConditionDamaged {
			asset.Status = domain.AssetStatusMaintenance
		} else {
			asset.Status = domain.AssetStatusAvailable
		}
		asset.CurrentAllotmentID = nil
		if err := r.Assets.Update(ctx, asset); err != nil {
			return fmt.Errorf("release asset: %w", err)
		}

		if err := r.Organizations.AdjustAllotmentCounts(ctx, allotment.OrganizationID, 0, -1); err != nil {
			return fmt.Errorf("drop organization active count: %w", err)
		}

		returned = allotment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return returned, nil
}

func (s *allotmentService) Get(ctx context.Context, allotmentID int64) (*domain.Allotment, error) {
	allotment, err := s.repos.Allotments.GetByID(ctx, allotmentID)
	if err != nil {
		return nil, err
	}
	extensions, err := s.repos.Allotments.ListExtensions(ctx, allotmentID)
	if err != nil {
		return nil, err
	}
	allotment.Extensions = extensions
	return allotment, nil
}

func (s *allotmentService) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Allotment, int32, error) {
	return s.repos.Allotments.List(ctx, status, page, pageSize)
}
