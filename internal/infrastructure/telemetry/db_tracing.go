package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls query-level tracing on the GORM connection.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bind variables in spans, never in production
	SlowQueryThresh time.Duration // queries slower than this get a span event
	DBSystem        string
}

// DefaultDBTracingConfig returns the tracing defaults used when the config
// file leaves the database tracing section empty.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin layers slow query detection and error marking on top of
// the otelgorm instrumentation.
type DBTracingPlugin struct {
	cfg DBTracingConfig
	log *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{cfg: cfg, log: logger}
}

// RegisterOtelGorm installs otelgorm plus the timing callbacks on db.
// A disabled config is a no-op so the caller can register unconditionally.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.cfg.Enabled {
		p.log.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.cfg.DBSystem)}
	if !p.cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.log.Info("database tracing enabled",
		zap.Bool("log_full_sql", p.cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", p.cfg.SlowQueryThresh),
	)
	return nil
}

// registerTimingCallbacks wraps every GORM operation with a before callback
// that stamps the start time and an after callback that enriches the span.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	type registerFn func(string, func(*gorm.DB)) error
	ops := []struct {
		name   string
		before registerFn
		after  registerFn
	}{
		{"create", db.Callback().Create().Before("gorm:create").Register, db.Callback().Create().After("gorm:create").Register},
		{"query", db.Callback().Query().Before("gorm:query").Register, db.Callback().Query().After("gorm:query").Register},
		{"update", db.Callback().Update().Before("gorm:update").Register, db.Callback().Update().After("gorm:update").Register},
		{"delete", db.Callback().Delete().Before("gorm:delete").Register, db.Callback().Delete().After("gorm:delete").Register},
		{"row", db.Callback().Row().Before("gorm:row").Register, db.Callback().Row().After("gorm:row").Register},
		{"raw", db.Callback().Raw().Before("gorm:raw").Register, db.Callback().Raw().After("gorm:raw").Register},
	}
	for _, op := range ops {
		if err := op.before("crm_tracing:before_"+op.name, stampQueryStart); err != nil {
			return err
		}
		if err := op.after("crm_tracing:after_"+op.name, p.enrichSpan); err != nil {
			return err
		}
	}
	return nil
}

func stampQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// enrichSpan runs after each operation and records rows affected, table
// name, errors, and a slow query event on the active span.
func (p *DBTracingPlugin) enrichSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.cfg.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.cfg.SlowQueryThresh.Milliseconds()),
		))
	}
}

type contextKey string

const queryStartTimeKey contextKey = "query_start_time"

// WithQueryStartTime stamps the query start time on ctx. Exposed for code
// paths that bypass the registered before callbacks.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
