package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/robotsummary/robot-summary/pkg/api"
)

func TestSaveFailuresIndex(t *testing.T) {
	summary := &api.Summary{
		FailedTests: []api.TestRecord{
			{Name: "Login Case 05", Suite: "Login", Status: api.TestStatusFail, ExecutionTime: 0.5, Message: "Element 'id=submit' not visible after 5 seconds."},
			{Name: "Login Case 17", Suite: "Login", Status: api.TestStatusFail, ExecutionTime: 1.7, Message: "Expected status 200 but got 500."},
		},
		Statistics:         api.Statistics{Pass: 8, Fail: 2, Skip: 1},
		Total:              10,
		PassPercentage:     80,
		TotalExecutionTime: 12.5,
	}
	path := filepath.Join(t.TempDir(), FailuresFileName)
	require.NoError(t, SaveFailuresIndex(summary, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetNameFailures, SheetNameSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetNameFailures)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Suite", "Index", "Test_Name", "Message", "Execution_Time", "Notes_Review"}, rows[0])
	assert.Equal(t, "Login", rows[1][0])
	assert.Equal(t, "1", rows[1][1])
	assert.Equal(t, "Login Case 05", rows[1][2])
	assert.Equal(t, "Expected status 200 but got 500.", rows[2][3])
	assert.Equal(t, "1.7", rows[2][4])

	summaryRows, err := f.GetRows(SheetNameSummary)
	require.NoError(t, err)
	require.Len(t, summaryRows, 6)
	assert.Equal(t, []string{"Failed", "2"}, summaryRows[1])
	assert.Equal(t, []string{"Total", "10"}, summaryRows[3])
}

func TestSaveFailuresIndexNoFailures(t *testing.T) {
	summary := &api.Summary{Statistics: api.Statistics{Pass: 1}, Total: 1, PassPercentage: 100}
	path := filepath.Join(t.TempDir(), FailuresFileName)
	require.NoError(t, SaveFailuresIndex(summary, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetNameFailures)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
