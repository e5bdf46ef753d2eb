package callcenter

import (
	"context"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CampaignService handles campaign lifecycle operations
type CampaignService struct {
	campaignRepo   callcenter.CampaignRepository
	leadRepo       callcenter.LeadRepository
	companyRepo    identity.CompanyRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	campaignRepo callcenter.CampaignRepository,
	leadRepo callcenter.LeadRepository,
	companyRepo identity.CompanyRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *CampaignService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignService{
		campaignRepo:   campaignRepo,
		leadRepo:       leadRepo,
		companyRepo:    companyRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateCampaign creates a new campaign within the company's plan limits
func (s *CampaignService) CreateCampaign(ctx context.Context, tenantID uuid.UUID, req *CreateCampaignRequest) (*CampaignResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.campaignRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !company.CanAddCampaign(int(count)) {
		s.logger.Warn("Campaign limit reached",
			zap.String("tenant_id", tenantID.String()),
			zap.Int64("current_count", count))
		return nil, shared.NewDomainError("CAMPAIGN_LIMIT_REACHED", "Company has reached its campaign limit")
	}

	campaign, err := callcenter.NewCampaign(tenantID, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := campaign.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := campaign.SetSchedule(req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.Budget != nil && req.CostPerLead != nil {
		if err := campaign.SetBudget(*req.Budget, *req.CostPerLead); err != nil {
			return nil, err
		}
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		s.logger.Error("Failed to save campaign", zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, campaign)

	s.logger.Info("Campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("name", campaign.Name))

	return ToCampaignResponse(campaign), nil
}

// GetCampaign retrieves a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToCampaignResponse(campaign), nil
}

// ListCampaigns retrieves campaigns with pagination and filtering
func (s *CampaignService) ListCampaigns(ctx context.Context, tenantID uuid.UUID, input ListCampaignsInput) (*shared.Paginated[*CampaignResponse], error) {
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
		Search:   input.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	campaigns, total, err := s.campaignRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list campaigns", zap.Error(err))
		return nil, err
	}

	responses := make([]*CampaignResponse, len(campaigns))
	for i, c := range campaigns {
		responses[i] = ToCampaignResponse(c)
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// UpdateCampaign updates a campaign's basic information
func (s *CampaignService) UpdateCampaign(ctx context.Context, tenantID, id uuid.UUID, req *UpdateCampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := campaign.Name
	description := campaign.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}

	if err := campaign.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		s.logger.Error("Failed to update campaign", zap.Error(err))
		return nil, err
	}

	return ToCampaignResponse(campaign), nil
}

// SetSchedule sets a campaign's date range
func (s *CampaignService) SetSchedule(ctx context.Context, tenantID, id uuid.UUID, req *SetCampaignScheduleRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := campaign.SetSchedule(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}

	return ToCampaignResponse(campaign), nil
}

// SetBudget sets a campaign's budget and expected cost per lead
func (s *CampaignService) SetBudget(ctx context.Context, tenantID, id uuid.UUID, req *SetCampaignBudgetRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := campaign.SetBudget(req.Budget, req.CostPerLead); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign budget set",
		zap.String("campaign_id", id.String()),
		zap.String("budget", req.Budget.String()),
		zap.String("cost_per_lead", req.CostPerLead.String()))

	return ToCampaignResponse(campaign), nil
}

// UpdateStatus moves a campaign to a new completion status
func (s *CampaignService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req *UpdateCampaignStatusRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := campaign.UpdateStatus(callcenter.CampaignStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.SaveWithLock(ctx, campaign); err != nil {
		s.logger.Error("Failed to update campaign status", zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, campaign)

	s.logger.Info("Campaign status updated",
		zap.String("campaign_id", id.String()),
		zap.String("status", req.Status))

	return ToCampaignResponse(campaign), nil
}

// ActivateCampaign enables a campaign
func (s *CampaignService) ActivateCampaign(ctx context.Context, tenantID, id uuid.UUID) error {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := campaign.Activate(); err != nil {
		return err
	}
	return s.campaignRepo.Save(ctx, campaign)
}

// DeactivateCampaign disables a campaign without changing its status
func (s *CampaignService) DeactivateCampaign(ctx context.Context, tenantID, id uuid.UUID) error {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := campaign.Deactivate(); err != nil {
		return err
	}
	return s.campaignRepo.Save(ctx, campaign)
}

// ListCampaignLeads retrieves all leads attached to a campaign
func (s *CampaignService) ListCampaignLeads(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*LeadResponse, error) {
	if _, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, campaignID); err != nil {
		return nil, err
	}

	leads, err := s.leadRepo.FindByCampaignForTenant(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	responses := make([]*LeadResponse, len(leads))
	for i, l := range leads {
		responses[i] = ToLeadResponse(l)
	}
	return responses, nil
}

// DeleteCampaign removes a campaign. Campaigns with attached leads cannot
// be deleted.
func (s *CampaignService) DeleteCampaign(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	leads, err := s.leadRepo.FindByCampaignForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if len(leads) > 0 {
		return shared.NewDomainError("CAMPAIGN_HAS_LEADS", "Campaign with attached leads cannot be deleted")
	}

	if err := s.campaignRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete campaign", zap.Error(err))
		return err
	}

	s.logger.Info("Campaign deleted",
		zap.String("campaign_id", id.String()),
		zap.String("tenant_id", tenantID.String()))

	return nil
}

func (s *CampaignService) publishEvents(ctx context.Context, campaign *callcenter.Campaign) {
	events := campaign.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish campaign events", zap.Error(err))
		}
	}
	campaign.ClearDomainEvents()
}
