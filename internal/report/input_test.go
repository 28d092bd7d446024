package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotsummary/robot-summary/pkg/api"
	rstests "github.com/robotsummary/robot-summary/test"
)

// writeFixture copies an embedded fixture to dir/dest.
func writeFixture(t *testing.T, dir, src, dest string) string {
	t.Helper()
	data, err := rstests.TestData.ReadFile(filepath.Join("testdata", src))
	require.NoError(t, err)
	path := filepath.Join(dir, dest)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestResolveInput(t *testing.T) {
	dirXML := t.TempDir()
	fileXML := writeFixture(t, dirXML, "output-mixed.xml", ReportFileName)

	dirXZ := t.TempDir()
	fileXZ := writeFixture(t, dirXZ, "compressed/output.xml.xz", ReportFileNameXZ)

	dirBoth := t.TempDir()
	writeFixture(t, dirBoth, "compressed/output.xml.xz", ReportFileNameXZ)
	fileBoth := writeFixture(t, dirBoth, "output-mixed.xml", ReportFileName)

	dirCustom := t.TempDir()
	fileCustom := writeFixture(t, dirCustom, "output-57.xml", "custom-output.xml")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "directory with output.xml", path: dirXML, want: fileXML},
		{name: "directory with output.xml.xz", path: dirXZ, want: fileXZ},
		{name: "plain document wins over compressed", path: dirBoth, want: fileBoth},
		{name: "direct file", path: fileCustom, want: fileCustom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveInput(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveInputNotFound(t *testing.T) {
	for name, path := range map[string]string{
		"empty directory": t.TempDir(),
		"missing path":    filepath.Join(t.TempDir(), "missing"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ResolveInput(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, api.ErrInputNotFound)
		})
	}
}

func TestReadSummary(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		dest    string
	}{
		{name: "plain", fixture: "output-mixed.xml", dest: ReportFileName},
		{name: "xz", fixture: "compressed/output.xml.xz", dest: ReportFileNameXZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			want := writeFixture(t, dir, tt.fixture, tt.dest)

			summary, path, err := ReadSummary(dir)
			require.NoError(t, err)
			assert.Equal(t, want, path)
			assert.Equal(t, api.Statistics{Pass: 1, Fail: 1, Skip: 1}, summary.Statistics)
			assert.Equal(t, 2, summary.Total)
			assert.Equal(t, 50.0, summary.PassPercentage)
			assert.InDelta(t, 3.75, summary.TotalExecutionTime, 1e-9)
			require.Len(t, summary.FailedTests, 1)
			assert.Equal(t, "Submit Form", summary.FailedTests[0].Name)
		})
	}
}

func TestReadSummaryErrors(t *testing.T) {
	_, _, err := ReadSummary(t.TempDir())
	assert.ErrorIs(t, err, api.ErrInputNotFound)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReportFileName), []byte("<robot><suite"), 0644))
	_, path, err := ReadSummary(dir)
	assert.ErrorIs(t, err, api.ErrParse)
	assert.Equal(t, filepath.Join(dir, ReportFileName), path)

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReportFileNameXZ), []byte("not xz"), 0644))
	_, _, err = ReadSummary(dir)
	assert.Error(t, err)
}
