package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

type importReportRepository struct {
	db DBTX
}

func NewImportReportRepository(db DBTX) repository.ImportReportRepository {
	return &importReportRepository{db: db}
}

const importReportColumns = `id, upload_id, file_name, total_records, successful_records, failed_records, row_errors, sheet_breakdown, status, processing_time_ms, created_on, completed_on`

func (r *importReportRepository) Create(ctx context.Context, rep *domain.ImportReport) error {
	rowErrors, sheets, err := marshalReportDetails(rep)
	if err != nil {
		return err
	}
	query := `INSERT INTO import_reports (upload_id, file_name, total_records, successful_records, failed_records, row_errors, sheet_breakdown, status, processing_time_ms, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rep.UploadID, rep.FileName, rep.TotalRecords, rep.SuccessfulRecords, rep.FailedRecords, rowErrors, sheets, rep.Status, rep.ProcessingTimeMs, time.Now()).Scan(&rep.ID)
}

func (r *importReportRepository) Update(ctx context.Context, rep *domain.ImportReport) error {
	rowErrors, sheets, err := marshalReportDetails(rep)
	if err != nil {
		return err
	}
	query := `UPDATE import_reports SET total_records=$1, successful_records=$2, failed_records=$3, row_errors=$4, sheet_breakdown=$5, status=$6, processing_time_ms=$7, completed_on=$8 WHERE id=$9`
	var completedOn any
	if rep.Status != domain.ImportStatusProcessing {
		completedOn = time.Now()
	}
	_, err = r.db.ExecContext(ctx, query, rep.TotalRecords, rep.SuccessfulRecords, rep.FailedRecords, rowErrors, sheets, rep.Status, rep.ProcessingTimeMs, completedOn, rep.ID)
	return err
}

func (r *importReportRepository) GetByUploadID(ctx context.Context, uploadID string) (*domain.ImportReport, error) {
	query := `SELECT ` + importReportColumns + ` FROM import_reports WHERE upload_id = $1`
	rep := &domain.ImportReport{}
	var rowErrors, sheets []byte
	err := r.db.QueryRowContext(ctx, query, uploadID).Scan(
		&rep.ID, &rep.UploadID, &rep.FileName, &rep.TotalRecords, &rep.SuccessfulRecords, &rep.FailedRecords,
		&rowErrors, &sheets, &rep.Status, &rep.ProcessingTimeMs, &rep.CreatedOn, &rep.CompletedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import report %q: %w", uploadID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalReportDetails(rep, rowErrors, sheets); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *importReportRepository) List(ctx context.Context, page, pageSize int32) ([]domain.ImportReport, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM import_reports`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + importReportColumns + ` FROM import_reports ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []domain.ImportReport
	for rows.Next() {
		var rep domain.ImportReport
		var rowErrors, sheets []byte
		if err := rows.Scan(
			&rep.ID, &rep.UploadID, &rep.FileName, &rep.TotalRecords, &rep.SuccessfulRecords, &rep.FailedRecords,
			&rowErrors, &sheets, &rep.Status, &rep.ProcessingTimeMs, &rep.CreatedOn, &rep.CompletedOn); err != nil {
			return nil, 0, err
		}
		if err := unmarshalReportDetails(&rep, rowErrors, sheets); err != nil {
			return nil, 0, err
		}
		reports = append(reports, rep)
	}
	return reports, count, rows.Err()
}

func marshalReportDetails(rep *domain.ImportReport) ([]byte, []byte, error) {
	rowErrors, err := json.Marshal(rep.RowErrors)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal row errors: %w", err)
	}
	sheets, err := json.Marshal(rep.SheetBreakdown)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal sheet breakdown: %w", err)
	}
	return rowErrors, sheets, nil
}

func unmarshalReportDetails(rep *domain.ImportReport, rowErrors, sheets []byte) error {
	if len(rowErrors) > 0 {
		if err := json.Unmarshal(rowErrors, &rep.RowErrors); err != nil {
			return fmt.Errorf("unmarshal row errors: %w", err)
		}
	}
	if len(sheets) > 0 {
		if err := json.Unmarshal(sheets, &rep.SheetBreakdown); err != nil {
			return fmt.Errorf("unmarshal sheet breakdown: %w", err)
		}
	}
	return nil
}
