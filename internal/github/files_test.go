package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendStepSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step_summary.md")
	require.NoError(t, os.WriteFile(path, []byte("# previous step\n"), 0644))

	require.NoError(t, AppendStepSummary(path, "## Robot Results Summary"))
	require.NoError(t, AppendStepSummary(path, "## Failed Tests\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# previous step\n## Robot Results Summary\n## Failed Tests\n", string(got))

	assert.Error(t, AppendStepSummary("", "x"))
}

func TestWriteOutputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")

	err := WriteOutputs(path, map[string]string{
		"total":           "57",
		"passed":          "52",
		"failed":          "5",
		"pass_percentage": "91.23",
	})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "failed=5\npass_percentage=91.23\npassed=52\ntotal=57\n", string(got))

	assert.Error(t, WriteOutputs(path, map[string]string{"bad": "a\nb"}))
	assert.Error(t, WriteOutputs("", nil))
}
