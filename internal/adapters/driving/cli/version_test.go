package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("version")

	require.NoError(t, err)
	assert.Contains(t, out, "chunkforge version")
	assert.Contains(t, out, version)
}
