package domain

type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "PROCESSING"
	ImportStatusCompleted  ImportStatus = "COMPLETED"
	ImportStatusFailed     ImportStatus = "FAILED"
)

// RowError attributes one import failure to its 1-based spreadsheet row
// (header row counted), a field and an operator-readable message.
type RowError struct {
	Row     int    `json:"row"`
	Sheet   string `json:"sheet,omitempty"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SheetResult breaks an import down per source sheet/file.
type SheetResult struct {
	Sheet      string `json:"sheet"`
	Total      int    `json:"total"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
}

// ImportReport is created when a batch starts and finalized exactly once
// when it ends; a COMPLETED or FAILED report is never mutated again.
type ImportReport struct {
	ID                int64         `json:"id"`
	UploadID          string        `json:"upload_id"`
	FileName          string        `json:"file_name"`
	TotalRecords      int           `json:"total_records"`
	SuccessfulRecords int           `json:"successful_records"`
	FailedRecords     int           `json:"failed_records"`
	RowErrors         []RowError    `json:"row_errors,omitempty"`
	SheetBreakdown    []SheetResult `json:"sheet_breakdown,omitempty"`
	Status            ImportStatus  `json:"status"`
	ProcessingTimeMs  int64         `json:"processing_time_ms"`
	CreatedOn         string        `json:"created_on"`
	CompletedOn       *string       `json:"completed_on,omitempty"`
}
