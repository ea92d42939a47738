package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

// Error codes carried on RowError entries. Stable identifiers: operators
// and downstream tooling key off these, the messages are free to change.
const (
	CodeMissingIdentifier    = "MISSING_IDENTIFIER"
	CodeMissingOrganization  = "MISSING_ORGANIZATION"
	CodeAssetNotFound        = "ASSET_NOT_FOUND"
	CodeAssetUnavailable     = "ASSET_UNAVAILABLE"
	CodeOrganizationNotFound = "ORGANIZATION_NOT_FOUND"
	CodeInvalidDate          = "INVALID_DATE"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInvalidEmail         = "INVALID_EMAIL"
)

// Resolution is the validated, reference-resolved form of a Draft. Asset is
// nil when the row describes an asset not yet registered (the orchestrator
// creates it); Organization is always resolved.
type Resolution struct {
	Asset        *domain.Asset
	Organization *domain.Organization
	Errors       []domain.RowError
}

// Valid reports whether the row may proceed to allotment creation.
func (r *Resolution) Valid() bool {
	return len(r.Errors) == 0
}

// Validator checks Drafts against business rules and resolves asset and
// organization references. All failures for a row are accumulated, not
// short-circuited, so one pass reports everything wrong with the row.
type Validator struct {
	assets   repository.AssetRepository
	orgs     repository.OrganizationRepository
	validate *validator.Validate
}

func NewValidator(assets repository.AssetRepository, orgs repository.OrganizationRepository) *Validator {
	return &Validator{
		assets:   assets,
		orgs:     orgs,
		validate: validator.New(),
	}
}

// ValidateRow checks one Draft. Row-scoped failures land in
// Resolution.Errors; a non-nil error return means infrastructure failed and
// the whole batch must stop.
func (v *Validator) ValidateRow(ctx context.Context, d *Draft, rowNum int, sheet string) (*Resolution, error) {
	res := &Resolution{}

	addErr := func(field, code, message string) {
		res.Errors = append(res.Errors, domain.RowError{
			Row:     rowNum,
			Sheet:   sheet,
			Field:   field,
			Code:    code,
			Message: message,
		})
	}

	// Unparsable cells recorded during transformation.
	for field, raw := range d.BadFields {
		code := CodeInvalidAmount
		if field == FieldHandoverDate.String() || field == FieldDueDate.String() {
			code = CodeInvalidDate
		}
		addErr(field, code, fmt.Sprintf("unparsable value %q", raw))
	}

	identifier := d.AssetTag
	if identifier == "" {
		identifier = d.SerialNumber
	}
	if identifier == "" {
		addErr(FieldAssetTag.String(), CodeMissingIdentifier, "row has neither asset tag nor serial number")
	}

	if d.OrganizationCode == "" {
		addErr(FieldOrganization.String(), CodeMissingOrganization, "row has no organization and the sheet name gives no hint")
	}

	if d.ContactEmail != "" {
		if err := v.validate.Var(d.ContactEmail, "email"); err != nil {
			addErr(FieldContactEmail.String(), CodeInvalidEmail, fmt.Sprintf("%q is not a valid email address", d.ContactEmail))
		}
	}

	if d.RentPer30DaysCents != nil && *d.RentPer30DaysCents < 0 {
		addErr(FieldRentPer30Days.String(), CodeInvalidAmount, "rent cannot be negative")
	}
	if d.CurrentMonthDays != nil && *d.CurrentMonthDays < 0 {
		addErr(FieldCurrentMonthDays.String(), CodeInvalidAmount, "current month days cannot be negative")
	}
	if d.HandoverDate != nil && d.DueDate != nil && d.DueDate.Before(*d.HandoverDate) {
		addErr(FieldDueDate.String(), CodeInvalidDate, "due date is before handover date")
	}

	if identifier != "" {
		asset, err := v.assets.GetByTagOrSerial(ctx, identifier)
		switch {
		case err == nil:
			if asset.Status != domain.AssetStatusAvailable {
				addErr(FieldAssetTag.String(), CodeAssetUnavailable,
					fmt.Sprintf("asset %s is %s", identifier, asset.Status))
			}
			res.Asset = asset
		case errors.Is(err, repository.ErrNotFound):
			// Unknown asset: the row can still register it, provided it
			// carries enough detail to create one.
			if d.Model == "" {
				addErr(FieldAssetTag.String(), CodeAssetNotFound,
					fmt.Sprintf("asset %s is not registered and the row has no model to register it from", identifier))
			}
		default:
			return nil, fmt.Errorf("look up asset %s: %w", identifier, err)
		}
	}

	if d.OrganizationCode != "" {
		org, err := v.orgs.GetByCode(ctx, d.OrganizationCode)
		switch {
		case err == nil:
			res.Organization = org
		case errors.Is(err, repository.ErrNotFound):
			addErr(FieldOrganization.String(), CodeOrganizationNotFound,
				fmt.Sprintf("organization %q is not registered", d.OrganizationCode))
		default:
			return nil, fmt.Errorf("look up organization %s: %w", d.OrganizationCode, err)
		}
	}

	return res, nil
}
