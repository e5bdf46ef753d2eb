package telemetry_test

import (
	"sync"
	"testing"

	"github.com/callcrm/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProfilerDisabled(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}

func TestProfilerDisabledSkipsValidation(t *testing.T) {
	// Address and application name are only required once profiling is on.
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "",
		ApplicationName: "",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
}

func TestProfilerRequiresServerAddress(t *testing.T) {
	_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         true,
		ApplicationName: "callcrm-backend",
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")
}

func TestProfilerRequiresApplicationName(t *testing.T) {
	_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:       true,
		ServerAddress: "http://localhost:4040",
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "application name")
}

func TestProfilerGetConfigReturnsCopy(t *testing.T) {
	cfg := telemetry.ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "callcrm-backend",
		ProfileCPU:      true,
	}

	p, err := telemetry.NewProfiler(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	got := p.GetConfig()
	assert.Equal(t, cfg, got)

	got.ApplicationName = "mutated"
	assert.Equal(t, "callcrm-backend", p.GetConfig().ApplicationName)
}

func TestProfilerStopIdempotent(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestProfilerStopConcurrent(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Stop())
		}()
	}
	wg.Wait()
}
