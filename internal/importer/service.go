package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/logger"
	"allotrack-backend/internal/repository"
	"allotrack-backend/internal/service"
)

// Sheet is one unit of import input: a named block of raw rows whose first
// row is the header. Workbooks arrive as one Sheet per file, with the file
// name doubling as the organization hint.
type Sheet struct {
	Name string
	Rows [][]string
}

// Service orchestrates bulk imports: header matching, transformation,
// validation and allotment creation, with per-row failure isolation. One
// bad row never aborts the batch; only infrastructure failure does.
type Service struct {
	repos      repository.Repositories
	allotments service.AllotmentService
	maxRows    int

	// Now is swappable for deterministic tests.
	Now func() time.Time
}

func NewService(repos repository.Repositories, allotments service.AllotmentService, maxRows int) *Service {
	return &Service{
		repos:      repos,
		allotments: allotments,
		maxRows:    maxRows,
		Now:        time.Now,
	}
}

// ImportCSV imports a single CSV stream. The file name, minus extension,
// serves as the sheet name.
func (s *Service) ImportCSV(ctx context.Context, fileName string, r io.Reader) (*domain.ImportReport, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	sheetName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return s.ImportSheets(ctx, fileName, []Sheet{{Name: sheetName, Rows: rows}})
}

// ImportRecords imports rows already shaped to the canonical column order
// of TemplateHeaders, e.g. records posted as JSON. They funnel through the
// same matching and validation pipeline as spreadsheet uploads.
func (s *Service) ImportRecords(ctx context.Context, source string, records [][]string) (*domain.ImportReport, error) {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, TemplateHeaders())
	rows = append(rows, records...)
	return s.ImportSheets(ctx, source, []Sheet{{Name: source, Rows: rows}})
}

// ImportSheets runs the full pipeline over one or more sheets as a single
// batch with a single report. The returned report is persisted before this
// returns; on infrastructure failure it is finalized as FAILED and the
// error is returned alongside it.
func (s *Service) ImportSheets(ctx context.Context, fileName string, sheets []Sheet) (*domain.ImportReport, error) {
	log := logger.WithService("importer")

	dataRows := 0
	for _, sheet := range sheets {
		if len(sheet.Rows) > 1 {
			dataRows += len(sheet.Rows) - 1
		}
	}
	if s.maxRows > 0 && dataRows > s.maxRows {
		return nil, fmt.Errorf("batch has %d rows, limit is %d", dataRows, s.maxRows)
	}

	start := s.Now()
	report := &domain.ImportReport{
		UploadID: uuid.NewString(),
		FileName: fileName,
		Status:   domain.ImportStatusProcessing,
	}
	if err := s.repos.ImportReports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create import report: %w", err)
	}

	log.Info("import started", "upload_id", report.UploadID, "file", fileName, "sheets", len(sheets), "rows", dataRows)

	validator := NewValidator(s.repos.Assets, s.repos.Organizations)

	for _, sheet := range sheets {
		result := domain.SheetResult{Sheet: sheet.Name}
		if len(sheet.Rows) < 2 {
			report.SheetBreakdown = append(report.SheetBreakdown, result)
			continue
		}

		mapping, warnings := MatchHeaders(sheet.Rows[0])
		for _, w := range warnings {
			log.Warn("low-confidence header match",
				"upload_id", report.UploadID, "sheet", sheet.Name,
				"field", w.Field.String(), "header", w.Header, "confidence", w.Confidence)
		}

		orgHint := ""
		if _, ok := mapping[FieldOrganization]; !ok {
			orgHint = sheet.Name
		}
		transformer := NewTransformer(mapping)
		transformer.Now = s.Now

		for i, row := range sheet.Rows[1:] {
			if isEmptyRow(row) {
				continue
			}
			rowNum := i + 2 // 1-based, header row counted
			result.Total++

			rowErrs, err := s.importRow(ctx, validator, transformer, row, rowNum, sheet.Name, orgHint)
			if err != nil {
				return s.fail(ctx, report, start, err)
			}
			if len(rowErrs) > 0 {
				result.Failed++
				report.RowErrors = append(report.RowErrors, rowErrs...)
				continue
			}
			result.Successful++
		}

		report.SheetBreakdown = append(report.SheetBreakdown, result)
		report.TotalRecords += result.Total
		report.SuccessfulRecords += result.Successful
		report.FailedRecords += result.Failed
	}

	report.Status = domain.ImportStatusCompleted
	report.ProcessingTimeMs = s.Now().Sub(start).Milliseconds()
	if err := s.repos.ImportReports.Update(ctx, report); err != nil {
		return nil, fmt.Errorf("finalize import report: %w", err)
	}

	log.Info("import completed",
		"upload_id", report.UploadID,
		"total", report.TotalRecords,
		"successful", report.SuccessfulRecords,
		"failed", report.FailedRecords,
		"ms", report.ProcessingTimeMs)

	return report, nil
}

// importRow processes one raw row end to end. Row-scoped failures come back
// as RowErrors; a non-nil error is infrastructure failure.
func (s *Service) importRow(ctx context.Context, v *Validator, t *Transformer, row []string, rowNum int, sheet, orgHint string) ([]domain.RowError, error) {
	draft := t.Transform(row, orgHint)

	res, err := v.ValidateRow(ctx, draft, rowNum, sheet)
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		return res.Errors, nil
	}

	params := service.CreateAllotmentParams{
		OrganizationID: res.Organization.ID,
		HandoverDate:   *draft.HandoverDate,
		Notes:          draft.Notes,
	}
	if draft.DueDate != nil {
		params.DueDate = *draft.DueDate
	}
	if draft.RentPer30DaysCents != nil {
		params.RentPer30DaysCents = *draft.RentPer30DaysCents
	}
	if draft.CurrentMonthDays != nil {
		params.CurrentMonthDays = *draft.CurrentMonthDays
	}

	if res.Asset != nil {
		params.AssetID = res.Asset.ID
	} else {
		asset := &domain.Asset{
			AssetTag:     draft.AssetTag,
			SerialNumber: draft.SerialNumber,
			Model:        draft.Model,
			Processor:    draft.Processor,
			Location:     draft.Location,
		}
		if draft.MemoryGB != nil {
			asset.MemoryGB = *draft.MemoryGB
		}
		if draft.StorageGB != nil {
			asset.StorageGB = *draft.StorageGB
		}
		params.NewAsset = asset
	}

	_, err = s.allotments.Create(ctx, params)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, domain.ErrAssetNotAvailable):
		// Validation saw the asset available but an earlier row in the same
		// batch claimed it.
		identifier := draft.AssetTag
		if identifier == "" {
			identifier = draft.SerialNumber
		}
		return []domain.RowError{{
			Row: rowNum, Sheet: sheet,
			Field:   FieldAssetTag.String(),
			Code:    CodeAssetUnavailable,
			Message: fmt.Sprintf("asset %s was allotted by an earlier row", identifier),
		}}, nil
	case errors.Is(err, repository.ErrNotFound):
		return []domain.RowError{{
			Row: rowNum, Sheet: sheet,
			Field:   FieldOrganization.String(),
			Code:    CodeOrganizationNotFound,
			Message: err.Error(),
		}}, nil
	default:
		return nil, err
	}
}

// fail finalizes the report as FAILED and surfaces the infrastructure
// error. The report keeps the row errors accumulated before the failure.
func (s *Service) fail(ctx context.Context, report *domain.ImportReport, start time.Time, cause error) (*domain.ImportReport, error) {
	logger.WithService("importer").Error("import aborted", "upload_id", report.UploadID, "error", cause)

	report.Status = domain.ImportStatusFailed
	report.ProcessingTimeMs = s.Now().Sub(start).Milliseconds()
	if err := s.repos.ImportReports.Update(ctx, report); err != nil {
		logger.WithService("importer").Error("finalize failed report", "upload_id", report.UploadID, "error", err)
	}
	return report, cause
}

// GetReport returns the persisted report for an upload.
func (s *Service) GetReport(ctx context.Context, uploadID string) (*domain.ImportReport, error) {
	return s.repos.ImportReports.GetByUploadID(ctx, uploadID)
}

// ListReports pages through past imports, newest first.
func (s *Service) ListReports(ctx context.Context, page, pageSize int32) ([]domain.ImportReport, int32, error) {
	return s.repos.ImportReports.List(ctx, page, pageSize)
}
