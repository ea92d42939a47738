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

type allotmentRepository struct {
	db DBTX
}

func NewAllotmentRepository(db DBTX) repository.AllotmentRepository {
	return &allotmentRepository{db: db}
}

const allotmentColumns = `id, number, asset_id, organization_id, handover_date, due_date, surrender_date, rent_per_30_days_cents, current_month_days, current_month_rent_cents, status, return_condition, notes, created_on, updated_on`

func (r *allotmentRepository) Create(ctx context.Context, a *domain.Allotment) error {
	query := `INSERT INTO allotments (number, asset_id, organization_id, handover_date, due_date, rent_per_30_days_cents, current_month_days, current_month_rent_cents, status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, a.Number, a.AssetID, a.OrganizationID, a.HandoverDate, a.DueDate, a.RentPer30DaysCents, a.CurrentMonthDays, a.CurrentMonthRentCents, a.Status, a.Notes, now, now).Scan(&a.ID)
}

func (r *allotmentRepository) GetByID(ctx context.Context, id int64) (*domain.Allotment, error) {
	query := `SELECT ` + allotmentColumns + ` FROM allotments WHERE id = $1`
	a := &domain.Allotment{}
	var returnCondition sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Number, &a.AssetID, &a.OrganizationID, &a.HandoverDate, &a.DueDate, &a.SurrenderDate,
		&a.RentPer30DaysCents, &a.CurrentMonthDays, &a.CurrentMonthRentCents, &a.Status, &returnCondition,
		&a.Notes, &a.CreatedOn, &a.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("allotment %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	a.ReturnCondition = domain.AssetCondition(returnCondition.String)
	return a, nil
}

func (r *allotmentRepository) Update(ctx context.Context, a *domain.Allotment) error {
	query := `UPDATE allotments SET due_date=$1, surrender_date=$2, rent_per_30_days_cents=$3, current_month_days=$4, current_month_rent_cents=$5, status=$6, return_condition=NULLIF($7, ''), notes=$8, updated_on=$9 WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, a.DueDate, a.SurrenderDate, a.RentPer30DaysCents, a.CurrentMonthDays, a.CurrentMonthRentCents, a.Status, string(a.ReturnCondition), a.Notes, time.Now(), a.ID)
	return err
}

func (r *allotmentRepository) AppendExtension(ctx context.Context, ext *domain.Extension) error {
	query := `INSERT INTO allotment_extensions (allotment_id, previous_due_date, new_due_date, additional_days, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if ext.CreatedOn.IsZero() {
		ext.CreatedOn = time.Now()
	}
	return r.db.QueryRowContext(ctx, query, ext.AllotmentID, ext.PreviousDueDate, ext.NewDueDate, ext.AdditionalDays, ext.Notes, ext.CreatedOn).Scan(&ext.ID)
}

func (r *allotmentRepository) ListExtensions(ctx context.Context, allotmentID int64) ([]domain.Extension, error) {
	query := `SELECT id, allotment_id, previous_due_date, new_due_date, additional_days, notes, created_on
	          FROM allotment_extensions WHERE allotment_id = $1 ORDER BY created_on, id`
	rows, err := r.db.QueryContext(ctx, query, allotmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exts []domain.Extension
	for rows.Next() {
		var e domain.Extension
		if err := rows.Scan(&e.ID, &e.AllotmentID, &e.PreviousDueDate, &e.NewDueDate, &e.AdditionalDays, &e.Notes, &e.CreatedOn); err != nil {
			return nil, err
		}
		exts = append(exts, e)
	}
	return exts, rows.Err()
}

func (r *allotmentRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Allotment, int32, error) {
	base := `FROM allotments`
	args := []any{}
	if status != "" {
		base += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) `+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, allotmentColumns, base, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	allotments, err := scanAllotments(rows)
	if err != nil {
		return nil, 0, err
	}
	return allotments, count, nil
}

func (r *allotmentRepository) ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Allotment, error) {
	query := `SELECT ` + allotmentColumns + ` FROM allotments
	          WHERE status IN ('ACTIVE', 'EXTENDED') AND due_date < $1
	          ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAllotments(rows)
}

func (r *allotmentRepository) NextNumber(ctx context.Context) (string, error) {
	// Sequence allocation is atomic, so concurrent batches cannot hand out
	// the same number.
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('allotment_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("allocate allotment number: %w", err)
	}
	return fmt.Sprintf("ALT-%05d", n), nil
}

func scanAllotments(rows *sql.Rows) ([]domain.Allotment, error) {
	var allotments []domain.Allotment
	for rows.Next() {
		var a domain.Allotment
		var returnCondition sql.NullString
		if err := rows.Scan(
			&a.ID, &a.Number, &a.AssetID, &a.OrganizationID, &a.HandoverDate, &a.DueDate, &a.SurrenderDate,
			&a.RentPer30DaysCents, &a.CurrentMonthDays, &a.CurrentMonthRentCents, &a.Status, &returnCondition,
			&a.Notes, &a.CreatedOn, &a.UpdatedOn); err != nil {
			return nil, err
		}
		a.ReturnCondition = domain.AssetCondition(returnCondition.String)
		allotments = append(allotments, a)
	}
	return allotments, rows.Err()
}
