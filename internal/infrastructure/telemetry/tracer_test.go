package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/callcrm/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func disabledTracerProvider(t *testing.T, ratio float64) *telemetry.TracerProvider {
	t.Helper()
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:       false,
		SamplingRatio: ratio,
		ServiceName:   "callcrm-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp
}

func TestTracerProviderDisabled(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)

	assert.False(t, tp.IsEnabled())

	cfg := tp.GetConfig()
	assert.Equal(t, "callcrm-backend", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
}

func TestTracerProviderDisabledHandsOutNoOpTracer(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)

	tracer := tp.Tracer("callcenter")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "call.complete")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestTracerProviderDisabledLifecycleIsNoOp(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)

	// Even a dead context must not fail when nothing was initialized.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, tp.ForceFlush(cancelled))
	assert.NoError(t, tp.Shutdown(cancelled))
}

func TestTracerProviderSamplingRatios(t *testing.T) {
	// Construction must accept the full sampler range; the ratio only
	// matters once Enabled is true.
	for _, ratio := range []float64{0.0, 0.5, 1.0} {
		tp := disabledTracerProvider(t, ratio)
		assert.False(t, tp.IsEnabled())
		assert.Equal(t, ratio, tp.GetConfig().SamplingRatio)
	}
}

func TestSpanProfilesOffByDefault(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)
	assert.False(t, tp.IsSpanProfilesEnabled())
}

func TestEnableSpanProfilesRequiresTracing(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)

	// Without an SDK provider there is nothing to wrap.
	require.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())
}

func TestEnableSpanProfilesConcurrent(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tp.EnableSpanProfiles()
			_ = tp.IsSpanProfilesEnabled()
		}()
	}
	wg.Wait()

	assert.False(t, tp.IsSpanProfilesEnabled())
}
