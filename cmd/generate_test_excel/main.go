package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var headers = []string{
	"Name", "Username", "Password", "Sequence", "Liked", "Description", "Categories",
}

func main() {
	outDir := flag.String("out", filepath.Join("storage", "uploads"), "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}

	// Every row is valid. Categories repeat across rows so the import has to
	// reuse categories it created earlier in the same file.
	validData := [][]interface{}{
		{"GitHub", "octocat", "gh-pass", 1, "Yes", "Source hosting", "Work, Dev"},
		{"GitLab", "octocat", "gl-pass", 2, "No", "", "Work, Dev"},
		{"Gmail", "me@example.com", "mail-pass", 1, "Y", "Personal mail", "Personal"},
		{"Bank", "customer-0001", "bank-pass", 3, "1", "", "Finance, Personal"},
		{"Broker", "trader", "broker-pass", 4, "false", "Brokerage account", "Finance"},
		{"Router", "admin", "admin", 5, "", "Home router", ""},
	}

	validPath := filepath.Join(*outDir, "test_accounts_valid.xlsx")
	if err := writeWorkbook(validPath, validData); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		return
	}
	fmt.Printf("✓ Test file 1 created: %s\n", validPath)
	fmt.Printf("  Total rows: %d\n", len(validData))

	// Mixed rows exercise the validation report
	mixedData := [][]interface{}{
		{"Forum", "poster", "forum-pass", 1, "No", "", "Hobby"},
		{"", "nameless", "x", 1, "No", "Missing name", ""},
		{"Shop", "buyer", "shop-pass", "first", "No", "Bad sequence", "Personal"},
		{"Cloud", "ops", "cloud-pass", 2, "maybe", "Bad liked flag", "Work"},
		{"Chat", "me", "chat-pass", 0, "Yes", "Sequence below one", "Personal"},
	}

	mixedPath := filepath.Join(*outDir, "test_accounts_with_errors.xlsx")
	if err := writeWorkbook(mixedPath, mixedData); err != nil {
		fmt.Printf("Error saving file 2: %v\n", err)
		return
	}
	fmt.Printf("✓ Test file 2 created: %s\n", mixedPath)
	fmt.Printf("  Total rows: %d (expected errors: 4)\n", len(mixedData))
}

func writeWorkbook(path string, data [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Accounts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, header := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", getColumnName(i)), header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	for rowIdx, rowData := range data {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", getColumnName(colIdx), row), value)
		}
	}

	f.SetColWidth(sheetName, "A", "C", 20)
	f.SetColWidth(sheetName, "D", "E", 10)
	f.SetColWidth(sheetName, "F", "G", 30)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(path)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
