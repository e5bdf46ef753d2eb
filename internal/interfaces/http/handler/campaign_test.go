package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	callcenterapp "github.com/callcrm/backend/internal/application/callcenter"
	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/interfaces/http/dto"
)

type mockCampaignRepo struct {
	mock.Mock
}

func (m *mockCampaignRepo) Save(ctx context.Context, campaign *callcenter.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *mockCampaignRepo) SaveWithLock(ctx context.Context, campaign *callcenter.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *mockCampaignRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Campaign, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callcenter.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Campaign, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*callcenter.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *mockCampaignRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCampaignRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) Save(ctx context.Context, lead *callcenter.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockLeadRepo) SaveWithLock(ctx context.Context, lead *callcenter.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockLeadRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Lead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callcenter.Lead), args.Error(1)
}

func (m *mockLeadRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Lead, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*callcenter.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *mockLeadRepo) FindByCampaignForTenant(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*callcenter.Lead, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*callcenter.Lead), args.Error(1)
}

func (m *mockLeadRepo) FindByAgentForTenant(ctx context.Context, tenantID, agentID uuid.UUID) ([]*callcenter.Lead, error) {
	args := m.Called(ctx, tenantID, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*callcenter.Lead), args.Error(1)
}

func (m *mockLeadRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) Save(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *mockCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *mockCompanyRepo) FindByCode(ctx context.Context, code string) (*identity.Company, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *mockCompanyRepo) FindByAdminEmail(ctx context.Context, email string) (*identity.Company, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *mockCompanyRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Company, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.Company), args.Get(1).(int64), args.Error(2)
}

func (m *mockCompanyRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockCompanyRepo) ExistsByAdminEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type campaignHandlerDeps struct {
	campaignRepo *mockCampaignRepo
	leadRepo     *mockLeadRepo
	companyRepo  *mockCompanyRepo
	publisher    *mockPublisher
}

func newCampaignHandlerRouter(t *testing.T, tenantID uuid.UUID) (*gin.Engine, *campaignHandlerDeps) {
	t.Helper()

	deps := &campaignHandlerDeps{
		campaignRepo: new(mockCampaignRepo),
		leadRepo:     new(mockLeadRepo),
		companyRepo:  new(mockCompanyRepo),
		publisher:    new(mockPublisher),
	}

	service := callcenterapp.NewCampaignService(
		deps.campaignRepo, deps.leadRepo, deps.companyRepo, deps.publisher, zap.NewNop())
	h := NewCampaignHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		setJWTContext(c, tenantID, uuid.New())
		c.Next()
	})
	router.POST("/campaigns", h.Create)
	router.GET("/campaigns", h.List)
	router.GET("/campaigns/:id", h.GetByID)
	router.DELETE("/campaigns/:id", h.Delete)

	return router, deps
}

func TestCampaignHandlerCreate(t *testing.T) {
	company, err := identity.NewCompany("ACME", "Acme Calls", "admin@acme.test", "Password123")
	require.NoError(t, err)
	tenantID := company.ID

	router, deps := newCampaignHandlerRouter(t, tenantID)

	deps.companyRepo.On("FindByID", mock.Anything, tenantID).Return(company, nil)
	deps.campaignRepo.On("CountForTenant", mock.Anything, tenantID).Return(int64(0), nil)
	deps.campaignRepo.On("Save", mock.Anything, mock.AnythingOfType("*callcenter.Campaign")).Return(nil)
	deps.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]any{
		"name":        "Spring Outreach",
		"description": "Q2 warm lead push",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	deps.campaignRepo.AssertExpectations(t)
}

func TestCampaignHandlerCreateLimitReached(t *testing.T) {
	company, err := identity.NewCompany("ACME", "Acme Calls", "admin@acme.test", "Password123")
	require.NoError(t, err)
	tenantID := company.ID

	router, deps := newCampaignHandlerRouter(t, tenantID)

	deps.companyRepo.On("FindByID", mock.Anything, tenantID).Return(company, nil)
	deps.campaignRepo.On("CountForTenant", mock.Anything, tenantID).Return(int64(1000), nil)

	body, _ := json.Marshal(map[string]any{"name": "Overflow"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeLimitReached, resp.Error.Code)
	deps.campaignRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCampaignHandlerCreateValidation(t *testing.T) {
	router, _ := newCampaignHandlerRouter(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/campaigns", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCampaignHandlerGetByIDNotFound(t *testing.T) {
	tenantID := uuid.New()
	router, deps := newCampaignHandlerRouter(t, tenantID)

	campaignID := uuid.New()
	deps.campaignRepo.On("FindByIDForTenant", mock.Anything, tenantID, campaignID).
		Return(nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign not found"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/campaigns/"+campaignID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestCampaignHandlerGetByIDInvalidParam(t *testing.T) {
	router, _ := newCampaignHandlerRouter(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/campaigns/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCampaignHandlerList(t *testing.T) {
	tenantID := uuid.New()
	router, deps := newCampaignHandlerRouter(t, tenantID)

	first, err := callcenter.NewCampaign(tenantID, "Spring Outreach")
	require.NoError(t, err)
	second, err := callcenter.NewCampaign(tenantID, "Summer Renewal")
	require.NoError(t, err)

	deps.campaignRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Return([]*callcenter.Campaign{first, second}, int64(2), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/campaigns?page=1&page_size=20", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
}

func TestCampaignHandlerListRejectsBadStatus(t *testing.T) {
	router, _ := newCampaignHandlerRouter(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/campaigns?status=bogus", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCampaignHandlerListIgnoresUnparseableIsActive(t *testing.T) {
	tenantID := uuid.New()
	router, deps := newCampaignHandlerRouter(t, tenantID)

	var captured shared.Filter
	deps.campaignRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(shared.Filter)
		}).
		Return([]*callcenter.Campaign{}, int64(0), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/campaigns?is_active=banana", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, filtered := captured.Filters["is_active"]
	assert.False(t, filtered)
}

func TestCampaignHandlerListAppliesIsActiveFilter(t *testing.T) {
	tenantID := uuid.New()
	router, deps := newCampaignHandlerRouter(t, tenantID)

	var captured shared.Filter
	deps.campaignRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(shared.Filter)
		}).
		Return([]*callcenter.Campaign{}, int64(0), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/campaigns?is_active=false", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, captured.Filters["is_active"])
}

func TestCampaignHandlerDelete(t *testing.T) {
	tenantID := uuid.New()
	router, deps := newCampaignHandlerRouter(t, tenantID)

	campaign, err := callcenter.NewCampaign(tenantID, "Spring Outreach")
	require.NoError(t, err)
	campaignID := campaign.ID

	deps.campaignRepo.On("FindByIDForTenant", mock.Anything, tenantID, campaignID).Return(campaign, nil)
	deps.leadRepo.On("FindByCampaignForTenant", mock.Anything, tenantID, campaignID).
		Return([]*callcenter.Lead{}, nil)
	deps.campaignRepo.On("DeleteForTenant", mock.Anything, tenantID, campaignID).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/campaigns/"+campaignID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	deps.campaignRepo.AssertExpectations(t)
}
