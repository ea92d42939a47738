package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

type assetRepository struct {
	db DBTX
}

func NewAssetRepository(db DBTX) repository.AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, asset_tag, serial_number, model, processor, memory_gb, storage_gb, location, status, current_allotment_id, created_on, updated_on`

func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `INSERT INTO assets (asset_tag, serial_number, model, processor, memory_gb, storage_gb, location, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, a.AssetTag, a.SerialNumber, a.Model, a.Processor, a.MemoryGB, a.StorageGB, a.Location, a.Status, now, now).Scan(&a.ID)
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), fmt.Sprintf("asset %d", id))
}

func (r *assetRepository) GetByTagOrSerial(ctx context.Context, identifier string) (*domain.Asset, error) {
	// Tag match wins over serial match when both exist.
	query := `SELECT ` + assetColumns + ` FROM assets
	          WHERE asset_tag = $1 OR serial_number = $1
	          ORDER BY (asset_tag = $1) DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, identifier), fmt.Sprintf("asset %q", identifier))
}

func (r *assetRepository) scanOne(row *sql.Row, what string) (*domain.Asset, error) {
	a := &domain.Asset{}
	err := row.Scan(&a.ID, &a.AssetTag, &a.SerialNumber, &a.Model, &a.Processor, &a.MemoryGB, &a.StorageGB, &a.Location, &a.Status, &a.CurrentAllotmentID, &a.CreatedOn, &a.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assetRepository) Update(ctx context.Context, a *domain.Asset) error {
	query := `UPDATE assets SET asset_tag=$1, serial_number=$2, model=$3, processor=$4, memory_gb=$5, storage_gb=$6, location=$7, status=$8, current_allotment_id=$9, updated_on=$10 WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query, a.AssetTag, a.SerialNumber, a.Model, a.Processor, a.MemoryGB, a.StorageGB, a.Location, a.Status, a.CurrentAllotmentID, time.Now(), a.ID)
	return err
}

func (r *assetRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Asset, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM assets`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY asset_tag LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.AssetTag, &a.SerialNumber, &a.Model, &a.Processor, &a.MemoryGB, &a.StorageGB, &a.Location, &a.Status, &a.CurrentAllotmentID, &a.CreatedOn, &a.UpdatedOn); err != nil {
			return nil, 0, err
		}
		assets = append(assets, a)
	}
	return assets, count, rows.Err()
}

func (r *assetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM assets`).Scan(&count)
	return count, err
}
