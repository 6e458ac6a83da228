package system

import (
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}

func TestDescribeHost(t *testing.T) {
	h := DescribeHost()
	assert.GreaterOrEqual(t, h.CPUs, 1)
	assert.GreaterOrEqual(t, h.TotalMemory, h.FreeMemory)
}

func TestLookupFFmpeg(t *testing.T) {
	_, err := LookupFFmpeg("/nonexistent/ffmpeg")
	assert.Error(t, err)

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}
	got, err := LookupFFmpeg(sh)
	require.NoError(t, err)
	assert.Equal(t, sh, got)
}

func TestRaiseFileLimitDoesNotPanic(t *testing.T) {
	RaiseFileLimit(64, zerolog.Nop())
}
