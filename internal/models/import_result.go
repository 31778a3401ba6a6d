package models

import "time"

// AccountImportRow is one valid row of an import workbook
type AccountImportRow struct {
	Row           int      `json:"row"`
	Account       Account  `json:"account"`
	CategoryNames []string `json:"category_names"`
}

// AccountValidationError represents a validation error for an account row
type AccountValidationError struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Field string `json:"field"`
	Error string `json:"error"`
	Value string `json:"value"`
}

// AccountImportResult represents the result of account import with validation details
type AccountImportResult struct {
	ValidRows        []AccountImportRow       `json:"-"`
	ValidationErrors []AccountValidationError `json:"validation_errors"`
	TotalRows        int                      `json:"total_rows"`
	ValidCount       int                      `json:"valid_count"`
	ErrorCount       int                      `json:"error_count"`
	ImportTime       time.Time                `json:"import_time"`
}

const (
	ImportStatusQueued     = "queued"
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

// ImportJob tracks a background account import
type ImportJob struct {
	JobID      string                   `json:"job_id"`
	FilePath   string                   `json:"-"`
	Status     string                   `json:"status"`
	TotalRows  int                      `json:"total_rows"`
	Imported   int                      `json:"imported"`
	ErrorCount int                      `json:"error_count"`
	Errors     []AccountValidationError `json:"errors,omitempty"`
	Message    string                   `json:"message,omitempty"`
	ErrorFile  string                   `json:"error_file,omitempty"`
	UpdatedAt  string                   `json:"updated_at"`
}
