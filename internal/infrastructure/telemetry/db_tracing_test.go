package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedLead struct {
	ID       uint   `gorm:"primaryKey"`
	TenantID string `gorm:"size:36"`
	Phone    string `gorm:"size:32"`
}

func setupTracingDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedLead{}))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPluginDisabledIsNoop(t *testing.T) {
	db := setupTracingDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))

	// No callbacks registered, queries still work.
	require.NoError(t, db.Create(&tracedLead{TenantID: "t1", Phone: "+15550001"}).Error)
}

func TestDBTracingPluginRegistersCallbacks(t *testing.T) {
	db := setupTracingDB(t)
	cfg := DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}

	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	assert.NotNil(t, db.Callback().Query().Get("crm_tracing:after_query"))
	assert.NotNil(t, db.Callback().Create().Get("crm_tracing:before_create"))
}

func TestDBTracingPluginEnrichesSpan(t *testing.T) {
	db := setupTracingDB(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	cfg := DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "create-lead")
	require.NoError(t, db.WithContext(ctx).Create(&tracedLead{TenantID: "t1", Phone: "+15550002"}).Error)
	span.End()

	var tableSeen bool
	for _, s := range recorder.Ended() {
		for _, attr := range s.Attributes() {
			if string(attr.Key) == "db.sql.table" && attr.Value.AsString() == "traced_leads" {
				tableSeen = true
			}
		}
	}
	assert.True(t, tableSeen, "expected db.sql.table attribute on a span")
}

func TestDBTracingPluginMarksSlowQueries(t *testing.T) {
	db := setupTracingDB(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	// Zero threshold makes every query slow.
	cfg := DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 0,
		DBSystem:        "sqlite",
	}
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "list-leads")
	var leads []tracedLead
	require.NoError(t, db.WithContext(ctx).Find(&leads).Error)
	span.End()

	var slowEvent bool
	for _, s := range recorder.Ended() {
		for _, ev := range s.Events() {
			if ev.Name == "slow_query" {
				slowEvent = true
			}
		}
	}
	assert.True(t, slowEvent, "expected slow_query event when threshold is exceeded")
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}
