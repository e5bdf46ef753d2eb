package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/callcrm/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/metrics")
	assert.Contains(t, cfg.SkipPathPrefixes, "/debug")
}

func TestProfilingDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	router.GET("/leads", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingSkipsConfiguredPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Profiling())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/debug/pprof", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/leads", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/debug/pprof", "/leads"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestExtractProfilingLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var labels map[string]string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextKeyTenantID, "tenant-3")
		c.Next()
	})
	router.GET("/api/v1/leads/:id", func(c *gin.Context) {
		labels = extractProfilingLabels(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/leads/7", nil))

	require.NotNil(t, labels)
	assert.Equal(t, http.MethodGet, labels[telemetry.ProfilingLabelMethod])
	assert.Equal(t, "/api/v1/leads/:id", labels[telemetry.ProfilingLabelRoute])
	assert.Equal(t, "leads", labels[telemetry.ProfilingLabelController])
	assert.Equal(t, "tenant-3", labels[telemetry.ProfilingLabelTenantID])
}

func TestExtractProfilingLabelsWithoutTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var labels map[string]string
	router := gin.New()
	router.GET("/api/v1/campaigns", func(c *gin.Context) {
		labels = extractProfilingLabels(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil))

	require.NotNil(t, labels)
	assert.Equal(t, "campaigns", labels[telemetry.ProfilingLabelController])
	_, hasTenant := labels[telemetry.ProfilingLabelTenantID]
	assert.False(t, hasTenant)
}

func TestExtractControllerFromRoute(t *testing.T) {
	cases := map[string]string{
		"/api/v1/leads/:id":            "leads",
		"/api/v1/campaigns/:id/calls":  "campaigns",
		"/api/v1/companies":            "companies",
		"/api/v2/agents/:id":           "agents",
		"/auth/login":                  "auth",
		"":                             "",
		"/":                            "",
	}
	for route, want := range cases {
		assert.Equal(t, want, extractControllerFromRoute(route), "route %q", route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	cases := map[string]bool{
		"v1":    true,
		"v12":   true,
		"V2":    true,
		"v":     false,
		"vx":    false,
		"leads": false,
		"1":     false,
	}
	for segment, want := range cases {
		assert.Equal(t, want, isVersionSegment(segment), "segment %q", segment)
	}
}

func TestProfilingPropagatesHandlerContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handlerRan := false
	router := gin.New()
	router.Use(Profiling())
	router.GET("/api/v1/leads", func(c *gin.Context) {
		handlerRan = true
		assert.NotNil(t, c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil))

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, w.Code)
}
