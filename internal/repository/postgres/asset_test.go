package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

var assetCols = []string{"id", "asset_tag", "serial_number", "model", "processor", "memory_gb", "storage_gb", "location", "status", "current_allotment_id", "created_on", "updated_on"}

func TestAssetGetByTagOrSerial(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssetRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM assets\s+WHERE asset_tag = \$1 OR serial_number = \$1`).
		WithArgs("LPT-1").
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(int64(7), "LPT-1", "SN-1", "ThinkPad T14", "i7", int32(16), int32(512), "Bangalore", "AVAILABLE", nil, "2026-08-01", "2026-08-01"))

	asset, err := repo.GetByTagOrSerial(context.Background(), "LPT-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), asset.ID)
	assert.Equal(t, domain.AssetStatusAvailable, asset.Status)
	assert.Nil(t, asset.CurrentAllotmentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetGetByTagOrSerialNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssetRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM assets`).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(assetCols))

	_, err = repo.GetByTagOrSerial(context.Background(), "NOPE")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetCreateReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssetRepository(db)

	mock.ExpectQuery(`INSERT INTO assets`).
		WithArgs("LPT-9", "SN-9", "MacBook Air", "", int32(8), int32(256), "", "AVAILABLE", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	asset := &domain.Asset{
		AssetTag: "LPT-9", SerialNumber: "SN-9", Model: "MacBook Air",
		MemoryGB: 8, StorageGB: 256, Status: domain.AssetStatusAvailable,
	}
	require.NoError(t, repo.Create(context.Background(), asset))
	assert.Equal(t, int64(42), asset.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
