package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testMeter(t *testing.T) metric.Meter {
	t.Helper()
	provider := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider.Meter("test")
}

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := DefaultDBMetricsConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestNewDBMetricsAppliesDefaults(t *testing.T) {
	m, err := NewDBMetrics(testMeter(t), DBMetricsConfig{Enabled: true}, nil)

	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, m.cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, m.cfg.PoolStatsInterval)
}

func TestDBMetricsRecordQuery(t *testing.T) {
	m, err := NewDBMetrics(testMeter(t), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "leads", 5*time.Millisecond)
	m.RecordQuery(ctx, "", "leads", time.Millisecond)
	// Over the slow threshold with no table name.
	m.RecordQuery(ctx, "UPDATE", "", 500*time.Millisecond)
}

func TestDBMetricsStopIdempotent(t *testing.T) {
	m, err := NewDBMetrics(testMeter(t), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	m.Stop()
	m.Stop()
}

func TestDBMetricsPoolStatsWithoutDB(t *testing.T) {
	m, err := NewDBMetrics(testMeter(t), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	// No SetSQLDB call, collection should refuse to start.
	m.StartPoolStatsCollection(context.Background())
	m.Stop()
}

func TestDBMetricsPluginRecordsQueries(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedLead{}))

	m, err := NewDBMetrics(testMeter(t), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	plugin := NewDBMetricsPlugin(m, zap.NewNop())
	assert.Equal(t, "db_metrics", plugin.Name())
	require.NoError(t, db.Use(plugin))

	require.NoError(t, db.Create(&tracedLead{TenantID: "t1", Phone: "+15550003"}).Error)
	var leads []tracedLead
	require.NoError(t, db.Find(&leads).Error)
	require.NoError(t, db.Exec("UPDATE traced_leads SET phone = ?", "+15550004").Error)
}

func TestDetectOperationType(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM leads":              "SELECT",
		"  insert into calls values (1)":   "INSERT",
		"update leads set score = 1":       "UPDATE",
		"DELETE FROM campaigns WHERE id=1": "DELETE",
		"PRAGMA table_info(leads)":         "OTHER",
		"":                                 "OTHER",
	}
	for sql, want := range cases {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}

func TestRegisterDBMetricsDisabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	m, err := RegisterDBMetrics(db, nil, DBMetricsConfig{Enabled: false}, zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRegisterDBMetricsNilProvider(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	m, err := RegisterDBMetrics(db, nil, DefaultDBMetricsConfig(), zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, m)
}
