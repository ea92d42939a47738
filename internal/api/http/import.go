package http

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"allotrack-backend/internal/importer"
)

// handleImportUpload accepts one or more CSV files under the "files" form
// field and runs them as a single batch. Each file becomes one sheet, its
// name serving as the organization hint when the sheet has no organization
// column.
func (s *Server) handleImportUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Importer.MaxUploadSizeMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeBadRequest(w, "upload too large or malformed form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeBadRequest(w, "no files provided")
		return
	}

	var sheets []importer.Sheet
	var names []string
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeBadRequest(w, "cannot read uploaded file "+fh.Filename)
			return
		}
		rows, err := importer.ReadRows(f)
		f.Close()
		if err != nil {
			writeBadRequest(w, "invalid CSV in "+fh.Filename)
			return
		}
		sheets = append(sheets, importer.Sheet{
			Name: strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)),
			Rows: rows,
		})
		names = append(names, fh.Filename)
	}

	report, err := s.imports.ImportSheets(r.Context(), strings.Join(names, ","), sheets)
	if err != nil && report == nil {
		writeError(w, err)
		return
	}
	// A FAILED report is still returned to the caller; its status carries
	// the outcome.
	writeJSON(w, http.StatusOK, report)
}

// importRecordRequest is one pre-shaped record posted as JSON. Values stay
// strings so they pass through the same parsing as spreadsheet cells.
type importRecordRequest struct {
	AssetTag         string `json:"asset_tag"`
	SerialNumber     string `json:"serial_number"`
	Model            string `json:"model"`
	Processor        string `json:"processor"`
	Memory           string `json:"memory"`
	Storage          string `json:"storage"`
	Organization     string `json:"organization" validate:"required"`
	ContactEmail     string `json:"contact_email" validate:"omitempty,email"`
	HandoverDate     string `json:"handover_date"`
	DueDate          string `json:"due_date"`
	MonthlyRent      string `json:"monthly_rent"`
	CurrentMonthDays string `json:"current_month_days"`
	Location         string `json:"location"`
	Notes            string `json:"notes"`
}

func (req *importRecordRequest) row() []string {
	return []string{
		req.AssetTag, req.SerialNumber, req.Model, req.Processor, req.Memory,
		req.Storage, req.Organization, req.ContactEmail, req.HandoverDate,
		req.DueDate, req.MonthlyRent, req.CurrentMonthDays, req.Location, req.Notes,
	}
}

type importRecordsRequest struct {
	Source  string                `json:"source"`
	Records []importRecordRequest `json:"records" validate:"required,min=1,dive"`
}

func (s *Server) handleImportRecords(w http.ResponseWriter, r *http.Request) {
	var req importRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, err)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	rows := make([][]string, 0, len(req.Records))
	for _, rec := range req.Records {
		rows = append(rows, rec.row())
	}

	report, err := s.imports.ImportRecords(r.Context(), req.Source, rows)
	if err != nil && report == nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	uploadID := mux.Vars(r)["uploadId"]
	report, err := s.imports.GetReport(r.Context(), uploadID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	reports, total, err := s.imports.ListReports(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: reports, Total: total, Page: page})
}

func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="allotment-import-template.csv"`)
	if err := importer.WriteTemplate(w, r.URL.Query().Get("organization")); err != nil {
		writeError(w, err)
	}
}
