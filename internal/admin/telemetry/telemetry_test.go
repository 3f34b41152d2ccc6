package telemetry

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOSRelease_PrettyName(t *testing.T) {
	input := `NAME="Debian GNU/Linux"
VERSION_ID="12"
PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
ID=debian`

	name, err := parseOSRelease(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", name)
}

func TestParseOSRelease_FallsBackToName(t *testing.T) {
	input := `NAME="Alpine Linux"
ID=alpine`

	name, err := parseOSRelease(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Alpine Linux", name)
}

func TestParseOSRelease_Empty(t *testing.T) {
	_, err := parseOSRelease(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseMeminfo(t *testing.T) {
	input := `MemTotal:        2097152 kB
MemFree:          524288 kB
MemAvailable:    1048576 kB
Buffers:           65536 kB`

	available, total, err := parseMeminfo(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, uint64(1048576*1024), available)
	assert.Equal(t, uint64(2097152*1024), total)
}

func TestParseMeminfo_ClampsAvailableToTotal(t *testing.T) {
	input := `MemTotal:        1024 kB
MemAvailable:    2048 kB`

	available, total, err := parseMeminfo(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, total, available)
}

func TestParseMeminfo_MissingFields(t *testing.T) {
	input := `MemFree:          524288 kB`

	_, _, err := parseMeminfo(strings.NewReader(input))
	assert.Error(t, err)
}

func TestSnapshot_ProcessFields(t *testing.T) {
	c := NewCollector(zerolog.Nop())
	time.Sleep(10 * time.Millisecond)

	s := c.Snapshot(context.Background())

	assert.Equal(t, runtime.GOOS, s.OS)
	assert.Equal(t, runtime.GOARCH, s.Architecture)
	assert.Positive(t, s.PID)
	assert.GreaterOrEqual(t, s.Uptime, 10*time.Millisecond)
}

func TestSnapshot_UnreadableHostFilesDegradeOtherFieldsSurvive(t *testing.T) {
	c := NewCollector(zerolog.Nop())
	c.osReleasePath = "/nonexistent/os-release"
	c.meminfoPath = "/nonexistent/meminfo"

	s := c.Snapshot(context.Background())

	assert.Empty(t, s.OSVersion)
	assert.False(t, s.MemoryOK)
	assert.Equal(t, runtime.GOOS, s.OS)
	assert.Positive(t, s.PID)
}

func TestSnapshot_MemoryInvariant(t *testing.T) {
	c := NewCollector(zerolog.Nop())
	s := c.Snapshot(context.Background())

	if s.MemoryOK {
		assert.LessOrEqual(t, s.MemoryAvailable, s.MemoryTotal)
	}
}

func TestSnapshot_CancelledContextSkipsHostReads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(zerolog.Nop())
	s := c.Snapshot(ctx)

	assert.Empty(t, s.OSVersion)
	assert.False(t, s.MemoryOK)
	assert.Equal(t, runtime.GOOS, s.OS)
	assert.Positive(t, s.PID)
}
