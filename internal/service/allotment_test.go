package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository/memory"
)

func newFixture(t *testing.T) (AllotmentService, *memory.Store, int64, int64) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	org := &domain.Organization{Code: "ACME", Name: "Acme Corp"}
	require.NoError(t, store.Organizations.Create(ctx, org))

	asset := &domain.Asset{AssetTag: "LPT-1", Model: "ThinkPad T14", Status: domain.AssetStatusAvailable}
	require.NoError(t, store.Assets.Create(ctx, asset))

	return NewAllotmentService(store, store.Repositories), store, asset.ID, org.ID
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateAllotment(t *testing.T) {
	svc, store, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID:            assetID,
		OrganizationID:     orgID,
		HandoverDate:       date(2026, 8, 1),
		DueDate:            date(2026, 8, 31),
		RentPer30DaysCents: 300000,
		CurrentMonthDays:   30,
	})
	require.NoError(t, err)

	assert.Equal(t, "ALT-00001", allotment.Number)
	assert.Equal(t, domain.AllotmentStatusActive, allotment.Status)
	assert.Equal(t, int64(300000), allotment.CurrentMonthRentCents)

	asset, err := store.Assets.GetByID(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAllotted, asset.Status)
	require.NotNil(t, asset.CurrentAllotmentID)
	assert.Equal(t, allotment.ID, *asset.CurrentAllotmentID)

	org, err := store.Organizations.GetByID(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), org.TotalAllotments)
	assert.Equal(t, int32(1), org.ActiveAllotments)
}

func TestCreateAllotmentDerivesDueDate(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)

	allotment, err := svc.Create(context.Background(), CreateAllotmentParams{
		AssetID:          assetID,
		OrganizationID:   orgID,
		HandoverDate:     date(2026, 8, 1),
		CurrentMonthDays: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2026, 8, 31), allotment.DueDate)
}

func TestCreateAllotmentRejectsUnavailableAsset(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)
	ctx := context.Background()

	params := CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), CurrentMonthDays: 30,
	}
	_, err := svc.Create(ctx, params)
	require.NoError(t, err)

	_, err = svc.Create(ctx, params)
	assert.ErrorIs(t, err, domain.ErrAssetNotAvailable)
}

func TestCreateAllotmentRegistersNewAsset(t *testing.T) {
	svc, store, _, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		NewAsset:         &domain.Asset{AssetTag: "LPT-9", Model: "MacBook Air"},
		OrganizationID:   orgID,
		HandoverDate:     date(2026, 8, 1),
		CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	asset, err := store.Assets.GetByTagOrSerial(ctx, "LPT-9")
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAllotted, asset.Status)
	assert.Equal(t, asset.ID, allotment.AssetID)
}

func TestExtendAllotment(t *testing.T) {
	svc, store, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), DueDate: date(2026, 8, 31),
		RentPer30DaysCents: 300000, CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	extended, err := svc.Extend(ctx, allotment.ID, 15, nil, "customer asked for more time")
	require.NoError(t, err)

	assert.Equal(t, domain.AllotmentStatusExtended, extended.Status)
	assert.Equal(t, date(2026, 9, 15), extended.DueDate)
	assert.Equal(t, int32(45), extended.CurrentMonthDays)
	// 300000 * 45 / 30
	assert.Equal(t, int64(450000), extended.CurrentMonthRentCents)

	exts, err := store.Allotments.ListExtensions(ctx, allotment.ID)
	require.NoError(t, err)
	require.Len(t, exts, 1)
	assert.Equal(t, date(2026, 8, 31), exts[0].PreviousDueDate)
	assert.Equal(t, date(2026, 9, 15), exts[0].NewDueDate)
	assert.Equal(t, int32(15), exts[0].AdditionalDays)
}

func TestExtendWithNewRent(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), DueDate: date(2026, 8, 31),
		RentPer30DaysCents: 300000, CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	newRent := int64(360000)
	extended, err := svc.Extend(ctx, allotment.ID, 30, &newRent, "")
	require.NoError(t, err)
	assert.Equal(t, int64(360000), extended.RentPer30DaysCents)
	// 360000 * 60 / 30
	assert.Equal(t, int64(720000), extended.CurrentMonthRentCents)
}

func TestExtendReturnedAllotmentFails(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), CurrentMonthDays: 30,
	})
	require.NoError(t, err)
	_, err = svc.Return(ctx, allotment.ID, date(2026, 8, 20), domain.AssetConditionGood, "")
	require.NoError(t, err)

	_, err = svc.Extend(ctx, allotment.ID, 15, nil, "")
	var guardErr *domain.StateGuardError
	require.ErrorAs(t, err, &guardErr)
	assert.Equal(t, "extend", guardErr.Operation)
}

func TestMarkOverdue(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), DueDate: date(2026, 8, 31), CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	// Not yet due: no transition.
	result, err := svc.MarkOverdue(ctx, allotment.ID, date(2026, 8, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.AllotmentStatusActive, result.Status)

	// Past due: flips to OVERDUE.
	result, err = svc.MarkOverdue(ctx, allotment.ID, date(2026, 9, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.AllotmentStatusOverdue, result.Status)

	// Idempotent on repeat.
	result, err = svc.MarkOverdue(ctx, allotment.ID, date(2026, 9, 2))
	require.NoError(t, err)
	assert.Equal(t, domain.AllotmentStatusOverdue, result.Status)
}

func TestReturnAllotment(t *testing.T) {
	svc, store, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	returned, err := svc.Return(ctx, allotment.ID, date(2026, 8, 25), domain.AssetConditionGood, "returned clean")
	require.NoError(t, err)

	assert.Equal(t, domain.AllotmentStatusReturned, returned.Status)
	require.NotNil(t, returned.SurrenderDate)
	assert.Equal(t, date(2026, 8, 25), *returned.SurrenderDate)
	assert.Equal(t, domain.AssetConditionGood, returned.ReturnCondition)

	asset, err := store.Assets.GetByID(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAvailable, asset.Status)
	assert.Nil(t, asset.CurrentAllotmentID)

	org, err := store.Organizations.GetByID(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), org.TotalAllotments)
	assert.Equal(t, int32(0), org.ActiveAllotments)
}

func TestReturnDamagedSendsAssetToMaintenance(t *testing.T) {
	svc, store, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	_, err = svc.Return(ctx, allotment.ID, date(2026, 8, 25), domain.AssetConditionDamaged, "cracked screen")
	require.NoError(t, err)

	asset, err := store.Assets.GetByID(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusMaintenance, asset.Status)
}

func TestDoubleReturnFails(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	_, err = svc.Return(ctx, allotment.ID, date(2026, 8, 25), domain.AssetConditionGood, "")
	require.NoError(t, err)

	_, err = svc.Return(ctx, allotment.ID, date(2026, 8, 26), domain.AssetConditionGood, "")
	var guardErr *domain.StateGuardError
	require.ErrorAs(t, err, &guardErr)
	assert.Equal(t, "return", guardErr.Operation)
	assert.Equal(t, domain.AllotmentStatusReturned, guardErr.Status)
}

func TestReturnOverdueAllotment(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), DueDate: date(2026, 8, 31), CurrentMonthDays: 30,
	})
	require.NoError(t, err)

	_, err = svc.MarkOverdue(ctx, allotment.ID, date(2026, 9, 5))
	require.NoError(t, err)

	returned, err := svc.Return(ctx, allotment.ID, date(2026, 9, 6), domain.AssetConditionGood, "")
	require.NoError(t, err)
	assert.Equal(t, domain.AllotmentStatusReturned, returned.Status)
}

func TestGetIncludesExtensions(t *testing.T) {
	svc, _, assetID, orgID := newFixture(t)
	ctx := context.Background()

	allotment, err := svc.Create(ctx, CreateAllotmentParams{
		AssetID: assetID, OrganizationID: orgID,
		HandoverDate: date(2026, 8, 1), DueDate: date(2026, 8, 31), CurrentMonthDays: 30,
	})
	require.NoError(t, err)
	_, err = svc.Extend(ctx, allotment.ID, 15, nil, "")
	require.NoError(t, err)

	got, err := svc.Get(ctx, allotment.ID)
	require.NoError(t, err)
	require.Len(t, got.Extensions, 1)
	assert.Equal(t, int32(15), got.Extensions[0].AdditionalDays)
}
