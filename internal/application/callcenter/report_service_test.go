package callcenter

import (
	"context"
	"testing"
	"time"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reportServiceDeps struct {
	reportRepo   *MockReportRepository
	campaignRepo *MockCampaignRepository
	leadRepo     *MockLeadRepository
	callRepo     *MockCallRepository
}

func newReportServiceDeps() *reportServiceDeps {
	return &reportServiceDeps{
		reportRepo:   new(MockReportRepository),
		campaignRepo: new(MockCampaignRepository),
		leadRepo:     new(MockLeadRepository),
		callRepo:     new(MockCallRepository),
	}
}

func (d *reportServiceDeps) build() *ReportService {
	return NewReportService(d.reportRepo, d.campaignRepo, d.leadRepo, d.callRepo, zap.NewNop())
}

func TestReportService_CreateReport_Success(t *testing.T) {
	deps := newReportServiceDeps()
	service := deps.build()
	ctx := context.Background()
	tenantID := uuid.New()

	campaign := createTestCampaign(t, tenantID)
	deps.campaignRepo.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)
	deps.reportRepo.On("Save", ctx, mock.AnythingOfType("*callcenter.CallReport")).Return(nil)

	resp, err := service.CreateReport(ctx, tenantID, &CreateReportRequest{
		CampaignID:     campaign.ID,
		Type:           string(callcenter.ReportTypeDaily),
		ReportDate:     time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC),
		CallsMade:      100,
		CallsConnected: 40,
		LeadsConverted: 8,
		TotalCost:      decimal.NewFromInt(400),
	})

	require.NoError(t, err)
	assert.Equal(t, string(callcenter.ReportTypeDaily), resp.Type)
	assert.Equal(t, 100, resp.CallsMade)
	assert.True(t, resp.ConnectRate.Equal(decimal.NewFromFloat(0.4)))
	assert.True(t, resp.CostPerConversion.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 0, resp.ReportDate.Hour())
	deps.reportRepo.AssertExpectations(t)
}

func TestReportService_CreateReport_UnknownCampaign(t *testing.T) {
	deps := newReportServiceDeps()
	service := deps.build()
	ctx := context.Background()
	tenantID := uuid.New()
	campaignID := uuid.New()

	deps.campaignRepo.On("FindByIDForTenant", ctx, tenantID, campaignID).Return(nil, shared.ErrNotFound)

	_, err := service.CreateReport(ctx, tenantID, &CreateReportRequest{
		CampaignID: campaignID,
		Type:       string(callcenter.ReportTypeDaily),
		ReportDate: time.Now(),
	})

	assertDomainErrorCode(t, err, "CAMPAIGN_NOT_FOUND")
}

func TestReportService_CreateReport_ConnectedExceedsMadeRejected(t *testing.T) {
	deps := newReportServiceDeps()
	service := deps.build()
	ctx := context.Background()
	tenantID := uuid.New()

	campaign := createTestCampaign(t, tenantID)
	deps.campaignRepo.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)

	_, err := service.CreateReport(ctx, tenantID, &CreateReportRequest{
		CampaignID:     campaign.ID,
		Type:           string(callcenter.ReportTypeWeekly),
		ReportDate:     time.Now(),
		CallsMade:      10,
		CallsConnected: 20,
	})

	assertDomainErrorCode(t, err, "INVALID_FIGURES")
	deps.reportRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReportService_UpdateFigures_Success(t *testing.T) {
	deps := newReportServiceDeps()
	service := deps.build()
	ctx := context.Background()
	tenantID := uuid.New()

	report, err := callcenter.NewCallReport(tenantID, uuid.New(), callcenter.ReportTypeDaily, time.Now())
	require.NoError(t, err)

	deps.reportRepo.On("FindByIDForTenant", ctx, tenantID, report.ID).Return(report, nil)
	deps.reportRepo.On("Save", ctx, report).Return(nil)

	resp, err := service.UpdateFigures(ctx, tenantID, report.ID, &UpdateReportFiguresRequest{
		CallsMade:      50,
		CallsConnected: 25,
		LeadsConverted: 5,
		TotalCost:      decimal.NewFromInt(125),
	})

	require.NoError(t, err)
	assert.Equal(t, 50, resp.CallsMade)
	assert.True(t, resp.ConnectRate.Equal(decimal.NewFromFloat(0.5)))
}

func TestReportService_GenerateCampaignSummary(t *testing.T) {
	deps := newReportServiceDeps()
	service := deps.build()
	ctx := context.Background()
	tenantID := uuid.New()

	campaign := createTestCampaign(t, tenantID)
	require.NoError(t, campaign.SetBudget(decimal.NewFromInt(1000), decimal.NewFromInt(10)))

	converted := createTestLead(t, tenantID)
	require.NoError(t, converted.UpdateStatus(callcenter.LeadStatusConverted))
	converted.ClearDomainEvents()
	open := createTestLead(t, tenantID)

	agentID := uuid.New()
	answered := createTestCall(t, tenantID, agentID, converted.ID)
	require.NoError(t, answered.RecordOutcome(callcenter.CallOutcomeAnswered))
	answered.ClearDomainEvents()
	missed := createTestCall(t, tenantID, agentID, open.ID)
	require.NoError(t, missed.RecordOutcome(callcenter.CallOutcomeNoAnswer))
	missed.ClearDomainEvents()

	deps.campaignRepo.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)
	deps.leadRepo.On("FindByCampaignForTenant", ctx, tenantID, campaign.ID).
		Return([]*callcenter.Lead{converted, open}, nil)
	deps.callRepo.On("FindByLeadForTenant", ctx, tenantID, converted.ID).
		Return([]*callcenter.Call{answered}, nil)
	deps.callRepo.On("FindByLeadForTenant", ctx, tenantID, open.ID).
		Return([]*callcenter.Call{missed}, nil)
	deps.reportRepo.On("Save", ctx, mock.AnythingOfType("*callcenter.CallReport")).Return(nil)

	resp, err := service.GenerateCampaignSummary(ctx, tenantID, campaign.ID, time.Now())

	require.NoError(t, err)
	assert.Equal(t, string(callcenter.ReportTypeCampaignSummary), resp.Type)
	assert.Equal(t, 2, resp.CallsMade)
	assert.Equal(t, 1, resp.CallsConnected)
	assert.Equal(t, 1, resp.LeadsConverted)
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(20)))
	deps.reportRepo.AssertExpectations(t)
}

func TestReportService_ListReports_AppliesFilters(t *testing.T) {
	deps := newReportServiceDeps()
	service := deps.build()
	ctx := context.Background()
	tenantID := uuid.New()
	campaignID := uuid.New()

	report, err := callcenter.NewCallReport(tenantID, campaignID, callcenter.ReportTypeMonthly, time.Now())
	require.NoError(t, err)

	deps.reportRepo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 &&
			f.Filters["report_type"] == "monthly" && f.Filters["campaign_id"] == campaignID
	})).Return([]*callcenter.CallReport{report}, int64(1), nil)

	result, err := service.ListReports(ctx, tenantID, ListReportsInput{Type: "monthly", CampaignID: &campaignID})

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
}

func TestReportService_DeleteReport(t *testing.T) {
	deps := newReportServiceDeps()
	service := deps.build()
	ctx := context.Background()
	tenantID := uuid.New()

	report, err := callcenter.NewCallReport(tenantID, uuid.New(), callcenter.ReportTypeDaily, time.Now())
	require.NoError(t, err)

	deps.reportRepo.On("FindByIDForTenant", ctx, tenantID, report.ID).Return(report, nil)
	deps.reportRepo.On("DeleteForTenant", ctx, tenantID, report.ID).Return(nil)

	err = service.DeleteReport(ctx, tenantID, report.ID)

	require.NoError(t, err)
	deps.reportRepo.AssertExpectations(t)
}
