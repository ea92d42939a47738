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

type organizationRepository struct {
	db DBTX
}

func NewOrganizationRepository(db DBTX) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

const orgColumns = `id, code, name, contact_name, contact_email, contact_phone, address, total_allotments, active_allotments, created_on, updated_on`

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (code, name, contact_name, contact_email, contact_phone, address, total_allotments, active_allotments, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7, $8) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, o.Code, o.Name, o.ContactName, o.ContactEmail, o.ContactPhone, o.Address, now, now).Scan(&o.ID)
}

func (r *organizationRepository) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), fmt.Sprintf("organization %d", id))
}

func (r *organizationRepository) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE code = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code), fmt.Sprintf("organization %q", code))
}

func (r *organizationRepository) scanOne(row *sql.Row, what string) (*domain.Organization, error) {
	o := &domain.Organization{}
	err := row.Scan(&o.ID, &o.Code, &o.Name, &o.ContactName, &o.ContactEmail, &o.ContactPhone, &o.Address, &o.TotalAllotments, &o.ActiveAllotments, &o.CreatedOn, &o.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE organizations SET code=$1, name=$2, contact_name=$3, contact_email=$4, contact_phone=$5, address=$6, updated_on=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, o.Code, o.Name, o.ContactName, o.ContactEmail, o.ContactPhone, o.Address, time.Now(), o.ID)
	return err
}

func (r *organizationRepository) AdjustAllotmentCounts(ctx context.Context, orgID int64, totalDelta, activeDelta int32) error {
	query := `UPDATE organizations
	          SET total_allotments = total_allotments + $1,
	              active_allotments = active_allotments + $2,
	              updated_on = $3
	          WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, totalDelta, activeDelta, time.Now(), orgID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("organization %d: %w", orgID, repository.ErrNotFound)
	}
	return nil
}

func (r *organizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.Code, &o.Name, &o.ContactName, &o.ContactEmail, &o.ContactPhone, &o.Address, &o.TotalAllotments, &o.ActiveAllotments, &o.CreatedOn, &o.UpdatedOn); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}
