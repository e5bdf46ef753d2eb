package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/callcrm/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Use(func(c *gin.Context) {
		c.Header("X-Chain", "applied")
		c.Next()
	})

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "applied", w.Header().Get("X-Chain"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("callagent", "/callagent")
		assert.Equal(t, "callagent", g.Name())
		assert.Equal(t, "/callagent", g.Prefix())
	})

	t.Run("registers routes for each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/items", ok).
			POST("/items", ok).
			PUT("/items/:id", ok).
			PATCH("/items/:id", ok).
			DELETE("/items/:id", ok)

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		for _, tt := range []struct{ method, path string }{
			{"GET", "/api/v1/test/items"},
			{"POST", "/api/v1/test/items"},
			{"PUT", "/api/v1/test/items/123"},
			{"PATCH", "/api/v1/test/items/123"},
			{"DELETE", "/api/v1/test/items/123"},
		} {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")

		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("callagent", "/callagent")

		leads := g.Group("leads", "/leads")
		leads.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "leads list")
		})

		agents := g.Group("agents", "/agents")
		agents.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "agents list")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req1 := httptest.NewRequest("GET", "/api/v1/callagent/leads", nil)
		w1 := httptest.NewRecorder()
		engine.ServeHTTP(w1, req1)
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "leads list", w1.Body.String())

		req2 := httptest.NewRequest("GET", "/api/v1/callagent/agents", nil)
		w2 := httptest.NewRecorder()
		engine.ServeHTTP(w2, req2)
		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "agents list", w2.Body.String())
	})
}

func TestRegisterAllRouteTree(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	RegisterAll(r, Handlers{
		Auth:     handler.NewAuthHandler(nil),
		Company:  handler.NewCompanyHandler(nil),
		Employee: handler.NewEmployeeHandler(nil),
		Role:     handler.NewRoleHandler(nil, nil),
		Menu:     handler.NewMenuHandler(nil),
		Campaign: handler.NewCampaignHandler(nil),
		Lead:     handler.NewLeadHandler(nil, nil),
		Agent:    handler.NewAgentHandler(nil, nil),
		Call:     handler.NewCallHandler(nil),
		Report:   handler.NewReportHandler(nil),
		System:   handler.NewSystemHandler(nil),
		Notify:   handler.NewNotifyHandler(nil),
	})
	r.Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/v1/auth/superadmin/login",
		"POST /api/v1/auth/company/login",
		"POST /api/v1/auth/employee/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"PUT /api/v1/auth/password",
		"POST /api/v1/companies",
		"POST /api/v1/companies/:id/suspend",
		"PUT /api/v1/employees/:id/role/:role_id",
		"PUT /api/v1/roles/:id/permissions",
		"GET /api/v1/menus/tree",
		"POST /api/v1/menus/:id/submenus",
		"POST /api/v1/callagent/campaigns",
		"GET /api/v1/callagent/campaigns/:id/leads",
		"GET /api/v1/callagent/campaigns/:id/reports",
		"PUT /api/v1/callagent/leads/:id/assign",
		"GET /api/v1/callagent/leads/:id/calls",
		"PUT /api/v1/callagent/agents/:id/shift",
		"PUT /api/v1/callagent/calls/:id/outcome",
		"DELETE /api/v1/callagent/calls/:id/follow-up",
		"POST /api/v1/callagent/reports/summary",
		"GET /api/v1/system/ping",
		"GET /api/v1/ws/events",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestRegisterAllAuthLimiterScopedToAuthGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	limited := 0
	RegisterAll(r, Handlers{
		Auth:     handler.NewAuthHandler(nil),
		Company:  handler.NewCompanyHandler(nil),
		Employee: handler.NewEmployeeHandler(nil),
		Role:     handler.NewRoleHandler(nil, nil),
		Menu:     handler.NewMenuHandler(nil),
		Campaign: handler.NewCampaignHandler(nil),
		Lead:     handler.NewLeadHandler(nil, nil),
		Agent:    handler.NewAgentHandler(nil, nil),
		Call:     handler.NewCallHandler(nil),
		Report:   handler.NewReportHandler(nil),
		System:   handler.NewSystemHandler(nil),
		Notify:   handler.NewNotifyHandler(nil),

		AuthLimiter: func(c *gin.Context) {
			limited++
			c.AbortWithStatus(http.StatusTooManyRequests)
		},
	})
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/auth/company/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 1, limited)

	// Non-auth routes bypass the limiter.
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/system/ping", nil))
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 1, limited)
}

func TestPublicPathsCoverLoginFlows(t *testing.T) {
	paths := PublicPaths()
	assert.Contains(t, paths, "/api/v1/auth/superadmin/login")
	assert.Contains(t, paths, "/api/v1/auth/company/login")
	assert.Contains(t, paths, "/api/v1/auth/employee/login")
	assert.Contains(t, paths, "/api/v1/auth/refresh")
}
