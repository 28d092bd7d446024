package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCmdVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCmdVersion()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "robot-summary: unknown+unknown\n")
	assert.Contains(t, out.String(), "Go: ")
}
