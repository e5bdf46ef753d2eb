package callcenter

import (
	"context"
	"time"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService handles call report operations
type ReportService struct {
	reportRepo   callcenter.ReportRepository
	campaignRepo callcenter.CampaignRepository
	leadRepo     callcenter.LeadRepository
	callRepo     callcenter.CallRepository
	logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo callcenter.ReportRepository,
	campaignRepo callcenter.CampaignRepository,
	leadRepo callcenter.LeadRepository,
	callRepo callcenter.CallRepository,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reportRepo:   reportRepo,
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		callRepo:     callRepo,
		logger:       logger,
	}
}

// CreateReport creates a call report for a campaign
func (s *ReportService) CreateReport(ctx context.Context, tenantID uuid.UUID, req *CreateReportRequest) (*ReportResponse, error) {
	if _, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, req.CampaignID); err != nil {
		return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign does not exist")
	}

	report, err := callcenter.NewCallReport(tenantID, req.CampaignID, callcenter.ReportType(req.Type), req.ReportDate)
	if err != nil {
		return nil, err
	}

	if err := report.SetFigures(req.CallsMade, req.CallsConnected, req.LeadsConverted, req.TotalCost); err != nil {
		return nil, err
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		s.logger.Error("Failed to save report", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Report created",
		zap.String("report_id", report.ID.String()),
		zap.String("campaign_id", req.CampaignID.String()),
		zap.String("type", req.Type))

	return ToReportResponse(report), nil
}

// GetReport retrieves a report by ID
func (s *ReportService) GetReport(ctx context.Context, tenantID, id uuid.UUID) (*ReportResponse, error) {
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToReportResponse(report), nil
}

// ListReports retrieves reports with pagination and filtering
func (s *ReportService) ListReports(ctx context.Context, tenantID uuid.UUID, input ListReportsInput) (*shared.Paginated[*ReportResponse], error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.PageSize < 1 {
		input.PageSize = 20
	}
	if input.PageSize > 100 {
		input.PageSize = 100
	}

	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		OrderBy:  "report_date",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if input.Type != "" {
		filter.Filters["report_type"] = input.Type
	}
	if input.ReportDate != nil {
		filter.Filters["report_date"] = *input.ReportDate
	}
	if input.CampaignID != nil {
		filter.Filters["campaign_id"] = *input.CampaignID
	}

	reports, total, err := s.reportRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list reports", zap.Error(err))
		return nil, err
	}

	responses := make([]*ReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = ToReportResponse(r)
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// ListReportsByCampaign retrieves all reports for a campaign
func (s *ReportService) ListReportsByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*ReportResponse, error) {
	if _, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, campaignID); err != nil {
		return nil, err
	}

	reports, err := s.reportRepo.FindByCampaignForTenant(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = ToReportResponse(r)
	}
	return responses, nil
}

// UpdateFigures replaces a report's aggregate counters
func (s *ReportService) UpdateFigures(ctx context.Context, tenantID, id uuid.UUID, req *UpdateReportFiguresRequest) (*ReportResponse, error) {
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := report.SetFigures(req.CallsMade, req.CallsConnected, req.LeadsConverted, req.TotalCost); err != nil {
		return nil, err
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		s.logger.Error("Failed to update report figures", zap.Error(err))
		return nil, err
	}

	return ToReportResponse(report), nil
}

// GenerateCampaignSummary builds a campaign summary report from the
// campaign's current leads and calls and persists it
func (s *ReportService) GenerateCampaignSummary(ctx context.Context, tenantID, campaignID uuid.UUID, reportDate time.Time) (*ReportResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, campaignID)
	if err != nil {
		return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign does not exist")
	}

	leads, err := s.leadRepo.FindByCampaignForTenant(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	callsMade := 0
	callsConnected := 0
	leadsConverted := 0
	for _, lead := range leads {
		if lead.Status == callcenter.LeadStatusConverted {
			leadsConverted++
		}

		calls, err := s.callRepo.FindByLeadForTenant(ctx, tenantID, lead.ID)
		if err != nil {
			return nil, err
		}
		for _, call := range calls {
			callsMade++
			if call.Outcome == callcenter.CallOutcomeAnswered {
				callsConnected++
			}
		}
	}

	totalCost := campaign.CostPerLead.Mul(decimal.NewFromInt(int64(len(leads))))

	report, err := callcenter.NewCallReport(tenantID, campaignID, callcenter.ReportTypeCampaignSummary, reportDate)
	if err != nil {
		return nil, err
	}
	if err := report.SetFigures(callsMade, callsConnected, leadsConverted, totalCost); err != nil {
		return nil, err
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		s.logger.Error("Failed to save campaign summary", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Campaign summary generated",
		zap.String("campaign_id", campaignID.String()),
		zap.Int("calls_made", callsMade),
		zap.Int("leads_converted", leadsConverted))

	return ToReportResponse(report), nil
}

// DeleteReport removes a report
func (s *ReportService) DeleteReport(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.reportRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete report", zap.Error(err))
		return err
	}

	return nil
}
