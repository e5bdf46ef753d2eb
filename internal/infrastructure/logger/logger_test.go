package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates logger with json format", func(t *testing.T) {
		cfg := &Config{
			Level:      "debug",
			Format:     "json",
			Output:     "stdout",
			TimeFormat: time.RFC3339,
		}

		l, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("creates logger with console format", func(t *testing.T) {
		l, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "bogus"

		l, err := New(cfg)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	t.Run("production uses json config", func(t *testing.T) {
		l, err := NewForEnvironment("production")
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("development uses console config", func(t *testing.T) {
		l, err := NewForEnvironment("development")
		require.NoError(t, err)
		assert.NotNil(t, l)
	})
}

func TestContext(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		l := zap.NewNop()
		ctx := WithContext(context.Background(), l)
		assert.Equal(t, l, FromContext(ctx))
	})

	t.Run("returns noop logger when absent", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request id round trip", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")
		assert.NotNil(t, enriched)
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("company id round trip", func(t *testing.T) {
		ctx, _ := WithCompanyID(context.Background(), zap.NewNop(), "company-1")
		assert.Equal(t, "company-1", GetCompanyID(ctx))
	})

	t.Run("subject id round trip", func(t *testing.T) {
		ctx, _ := WithSubjectID(context.Background(), zap.NewNop(), "subject-1")
		assert.Equal(t, "subject-1", GetSubjectID(ctx))
	})

	t.Run("trace ids empty without span", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
		assert.Empty(t, GetSpanID(context.Background()))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("L does not panic without logger in context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			L(context.Background()).Info("hello")
		})
	})

	t.Run("With adds fields", func(t *testing.T) {
		cl := WithLogger(context.Background(), zap.NewNop()).With(zap.String("k", "v"))
		assert.NotNil(t, cl.Zap())
	})
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("logs request and stores logger in context", func(t *testing.T) {
		r := gin.New()
		r.Use(GinMiddleware(zap.NewNop()))
		r.GET("/ping", func(c *gin.Context) {
			assert.NotNil(t, GetGinLogger(c))
			c.String(http.StatusOK, "pong")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping?verbose=1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("recovery converts panic to 500", func(t *testing.T) {
		r := gin.New()
		r.Use(Recovery(zap.NewNop()))
		r.GET("/boom", func(c *gin.Context) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns noop when missing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.NotNil(t, GetGinLogger(c))
	})
}

func TestGormLogger(t *testing.T) {
	t.Run("LogMode returns copy with new level", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Warn)
		changed := gl.LogMode(gormlogger.Info)
		assert.NotSame(t, gl, changed)
	})

	t.Run("Trace is silent at silent level", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Silent)
		assert.NotPanics(t, func() {
			gl.Trace(context.Background(), time.Now(), func() (string, int64) {
				return "SELECT 1", 1
			}, nil)
		})
	})

	t.Run("options override defaults", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Warn,
			WithSlowThreshold(time.Second),
			WithIgnoreRecordNotFoundError(false),
		)
		assert.Equal(t, time.Second, gl.slowThreshold)
		assert.False(t, gl.ignoreRecordNotFoundError)
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
