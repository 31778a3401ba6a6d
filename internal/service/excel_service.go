package service

import (
	"account-organizer/internal/models"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var accountHeaders = []string{
	"Name", "Username", "Password", "Sequence", "Liked", "Description", "Categories", "Last Update Time",
}

// importColumns is the number of leading accountHeaders read back on import.
const importColumns = 7

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ExportAccounts writes accounts to an Excel file. categoryNames resolves the
// ids in AccountCategoryIDs; unknown ids are skipped.
func (s *ExcelService) ExportAccounts(accounts []models.Account, categoryNames map[int]string, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Accounts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, header := range accountHeaders {
		f.SetCellValue(sheetName, cellName(i, 1), header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", cellName(len(accountHeaders)-1, 1), headerStyle)

	for i, account := range accounts {
		row := i + 2

		var categories []string
		for _, id := range account.AccountCategoryIDs {
			if name, ok := categoryNames[id]; ok {
				categories = append(categories, name)
			}
		}

		likedStr := "No"
		if account.Liked {
			likedStr = "Yes"
		}

		values := []interface{}{
			account.Name,
			account.Username,
			account.Password,
			account.Sequence,
			likedStr,
			derefString(account.Description),
			strings.Join(categories, ", "),
			derefString(account.LastUpdateTime),
		}
		for col, value := range values {
			f.SetCellValue(sheetName, cellName(col, row), value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "D", "E", 10)
	f.SetColWidth(sheetName, "F", "G", 35)
	f.SetColWidth(sheetName, "H", "H", 25)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(filePath)
}

// GenerateTemplate writes an import template containing sample rows
func (s *ExcelService) GenerateTemplate(filePath string) error {
	samples := []models.Account{
		{Name: "Mail", Username: "me@example.com", Password: "change-me", Sequence: 1, AccountCategoryIDs: []int{1}},
		{Name: "Bank", Username: "customer-0001", Password: "change-me", Sequence: 2, Liked: true,
			Description: models.StringPtr("Online banking"), AccountCategoryIDs: []int{1, 2}},
	}
	return s.ExportAccounts(samples, map[int]string{1: "Personal", 2: "Finance"}, filePath)
}

// ParseAccountsWithValidation parses an Excel file and returns detailed validation result
func (s *ExcelService) ParseAccountsWithValidation(filePath string) (*models.AccountImportResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", models.ErrInvalidArgument, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found in Excel file", models.ErrInvalidArgument)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file must contain at least header row and one data row", models.ErrInvalidArgument)
	}

	header := rows[0]
	if len(header) < importColumns || !slices.Equal(trimAll(header[:importColumns]), accountHeaders[:importColumns]) {
		return nil, fmt.Errorf("%w: invalid header format, expected columns: %v", models.ErrInvalidArgument, accountHeaders[:importColumns])
	}

	result := &models.AccountImportResult{
		ValidRows:        []models.AccountImportRow{},
		ValidationErrors: []models.AccountValidationError{},
		ImportTime:       time.Now(),
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		result.TotalRows++

		rowNum := i + 1
		name := strings.TrimSpace(getStringValue(row, 0))
		sequenceStr := strings.TrimSpace(getStringValue(row, 3))
		likedStr := strings.TrimSpace(getStringValue(row, 4))

		rowErrors := s.validateAccountRow(rowNum, name, getStringValue(row, 1), sequenceStr, likedStr)
		if len(rowErrors) > 0 {
			result.ValidationErrors = append(result.ValidationErrors, rowErrors...)
			result.ErrorCount++
			continue
		}

		account := models.NewAccount()
		account.Name = name
		account.Username = strings.TrimSpace(getStringValue(row, 1))
		account.Password = getStringValue(row, 2)
		if sequenceStr != "" {
			account.Sequence, _ = strconv.Atoi(sequenceStr)
		}
		account.Liked = parseBoolValue(likedStr)
		if description := getStringValue(row, 5); description != "" {
			account.Description = models.StringPtr(description)
		}

		result.ValidRows = append(result.ValidRows, models.AccountImportRow{
			Row:           rowNum,
			Account:       account,
			CategoryNames: splitNames(getStringValue(row, 6)),
		})
		result.ValidCount++
	}

	return result, nil
}

func (s *ExcelService) validateAccountRow(rowNum int, name, username, sequenceStr, likedStr string) []models.AccountValidationError {
	var errs []models.AccountValidationError
	add := func(field, msg, value string) {
		errs = append(errs, models.AccountValidationError{
			Row:   rowNum,
			Name:  name,
			Field: field,
			Error: msg,
			Value: value,
		})
	}

	if name == "" {
		add("Name", "Name is required", name)
	} else if len(name) > 255 {
		add("Name", "Name cannot exceed 255 characters", name)
	}

	if len(username) > 255 {
		add("Username", "Username cannot exceed 255 characters", username)
	}

	if sequenceStr != "" {
		if n, err := strconv.Atoi(sequenceStr); err != nil || n < 1 {
			add("Sequence", "Sequence must be a whole number of at least 1", sequenceStr)
		}
	}

	if likedStr != "" && !isBooleanLike(likedStr) {
		add("Liked", "Liked must be Yes/No, Y/N, 1/0, or true/false", likedStr)
	}

	return errs
}

// GenerateImportErrorReport creates an Excel report with import validation errors
func (s *ExcelService) GenerateImportErrorReport(result *models.AccountImportResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Errors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"Row Number", "Name", "Field", "Error Message", "Invalid Value"}
	for i, header := range headers {
		f.SetCellValue(sheetName, cellName(i, 1), header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", cellName(len(headers)-1, 1), headerStyle)

	errorStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFFFCC"}, Pattern: 1},
	})
	for rowIdx, verr := range result.ValidationErrors {
		row := rowIdx + 2
		values := []interface{}{verr.Row, verr.Name, verr.Field, verr.Error, verr.Value}
		for col, value := range values {
			f.SetCellValue(sheetName, cellName(col, row), value)
		}
		f.SetCellStyle(sheetName, cellName(0, row), cellName(len(headers)-1, row), errorStyle)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 50)
	f.SetColWidth(sheetName, "E", "E", 25)

	summaryStartRow := len(result.ValidationErrors) + 4
	successRate := 0.0
	if result.TotalRows > 0 {
		successRate = float64(result.ValidCount) / float64(result.TotalRows) * 100
	}
	summary := [][2]interface{}{
		{"Import Summary", ""},
		{"Total Rows Processed:", result.TotalRows},
		{"Valid Accounts:", result.ValidCount},
		{"Errors Found:", result.ErrorCount},
		{"Success Rate:", fmt.Sprintf("%.1f%%", successRate)},
	}
	for i, line := range summary {
		f.SetCellValue(sheetName, cellName(0, summaryStartRow+i), line[0])
		if line[1] != "" {
			f.SetCellValue(sheetName, cellName(1, summaryStartRow+i), line[1])
		}
	}

	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetName, cellName(0, summaryStartRow), cellName(0, summaryStartRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", getColumnName(col), row)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}

func isBooleanLike(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "no", "y", "n", "1", "0", "true", "false":
		return true
	}
	return false
}

func parseBoolValue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "1", "true":
		return true
	}
	return false
}

func getStringValue(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// splitNames splits a comma separated list, dropping blanks and duplicates
func splitNames(s string) []string {
	names := []string{}
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
