package sheet

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/robotsummary/robot-summary/pkg/api"
)

const (
	FailuresFileName = "failures-index.xlsx"

	SheetNameFailures = "failures"
	SheetNameSummary  = "summary"

	defaultSheetName  = "Sheet1"
	reviewPlaceholder = "TODO Review"
)

// SaveFailuresIndex writes the failed tests of a summary to an excel sheet,
// one row per failure, followed by a sheet with the counters.
func SaveFailuresIndex(summary *api.Summary, path string) error {
	sheet := excelize.NewFile()
	defer func() {
		if err := sheet.Close(); err != nil {
			log.Error(err)
		}
	}()

	if err := sheet.SetSheetName(defaultSheetName, SheetNameFailures); err != nil {
		return fmt.Errorf("unable to create sheet %q: %w", SheetNameFailures, err)
	}
	if err := createFailuresSheet(sheet, SheetNameFailures); err != nil {
		return err
	}
	rowN := int64(2)
	if err := populateFailuresSheet(sheet, SheetNameFailures, summary.FailedTests, &rowN); err != nil {
		return err
	}

	if _, err := sheet.NewSheet(SheetNameSummary); err != nil {
		return fmt.Errorf("unable to create sheet %q: %w", SheetNameSummary, err)
	}
	if err := populateSummarySheet(sheet, SheetNameSummary, summary); err != nil {
		return err
	}

	log.Debugf("Saving %d failures to %s", len(summary.FailedTests), path)
	return sheet.SaveAs(path)
}

// createFailuresSheet creates the excel spreadsheet headers
func createFailuresSheet(sheet *excelize.File, sheetName string) error {
	header := map[string]string{
		"A1": "Suite", "B1": "Index", "C1": "Test_Name",
		"D1": "Message", "E1": "Execution_Time", "F1": "Notes_Review"}

	for k, v := range header {
		if err := sheet.SetCellValue(sheetName, k, v); err != nil {
			return fmt.Errorf("unable to set header %s: %w", k, err)
		}
	}
	return nil
}

// populateFailuresSheet fill each row per failed test.
func populateFailuresSheet(sheet *excelize.File, sheetName string, list []api.TestRecord, rowN *int64) error {
	for idx, rec := range list {
		row := []interface{}{rec.Suite, idx + 1, rec.Name, rec.Message, rec.ExecutionTime, reviewPlaceholder}
		if err := sheet.SetSheetRow(sheetName, fmt.Sprintf("A%d", *rowN), &row); err != nil {
			return fmt.Errorf("unable to write row %d: %w", *rowN, err)
		}
		*(rowN) += 1
	}
	return nil
}

func populateSummarySheet(sheet *excelize.File, sheetName string, summary *api.Summary) error {
	stats := summary.Statistics
	rows := [][]interface{}{
		{"Passed", stats.Pass},
		{"Failed", stats.Fail},
		{"Skipped", stats.Skip},
		{"Total", summary.Total},
		{"Pass%", summary.PassPercentage},
		{"Total_Execution_Time", summary.TotalExecutionTime},
	}
	for idx := range rows {
		if err := sheet.SetSheetRow(sheetName, fmt.Sprintf("A%d", idx+1), &rows[idx]); err != nil {
			return fmt.Errorf("unable to write summary row %d: %w", idx+1, err)
		}
	}
	return nil
}
