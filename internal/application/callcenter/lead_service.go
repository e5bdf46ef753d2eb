package callcenter

import (
	"context"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeadMetricsRecorder records lead activity metrics. BusinessMetrics from
// the telemetry package satisfies this interface.
type LeadMetricsRecorder interface {
	RecordLeadCreated(ctx context.Context, tenantID uuid.UUID, source string)
	RecordLeadConverted(ctx context.Context, tenantID uuid.UUID, campaignID *uuid.UUID)
}

// LeadService handles lead pipeline operations
type LeadService struct {
	leadRepo       callcenter.LeadRepository
	campaignRepo   callcenter.CampaignRepository
	agentRepo      callcenter.AgentRepository
	eventPublisher shared.EventPublisher
	metrics        LeadMetricsRecorder
	logger         *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo callcenter.LeadRepository,
	campaignRepo callcenter.CampaignRepository,
	agentRepo callcenter.AgentRepository,
	eventPublisher shared.EventPublisher,
	metrics LeadMetricsRecorder,
	logger *zap.Logger,
) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		leadRepo:       leadRepo,
		campaignRepo:   campaignRepo,
		agentRepo:      agentRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		logger:         logger,
	}
}

// CreateLead creates a new lead, optionally attaching it to a campaign
// and assigning it to an agent
func (s *LeadService) CreateLead(ctx context.Context, tenantID uuid.UUID, req *CreateLeadRequest) (*LeadResponse, error) {
	lead, err := callcenter.NewLead(tenantID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Source != "" {
		if err := lead.Update(req.FirstName, req.LastName, req.Phone, req.Email, req.Source); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		lead.SetNotes(req.Notes)
	}

	if req.CampaignID != nil {
		campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, *req.CampaignID)
		if err != nil {
			return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign does not exist")
		}
		if !campaign.IsActive {
			return nil, shared.NewDomainError("CAMPAIGN_INACTIVE", "Leads cannot be added to an inactive campaign")
		}
		if err := lead.AttachToCampaign(campaign.ID); err != nil {
			return nil, err
		}
	}

	if req.AgentID != nil {
		if err := s.verifyAgent(ctx, tenantID, *req.AgentID); err != nil {
			return nil, err
		}
		if err := lead.AssignAgent(*req.AgentID); err != nil {
			return nil, err
		}
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		s.logger.Error("Failed to save lead", zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, lead)
	if s.metrics != nil {
		s.metrics.RecordLeadCreated(ctx, tenantID, lead.Source)
	}

	s.logger.Info("Lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("name", lead.FullName()))

	return ToLeadResponse(lead), nil
}

// GetLead retrieves a lead by ID
func (s *LeadService) GetLead(ctx context.Context, tenantID, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToLeadResponse(lead), nil
}

// ListLeads retrieves leads with pagination and filtering
func (s *LeadService) ListLeads(ctx context.Context, tenantID uuid.UUID, input ListLeadsInput) (*shared.Paginated[*LeadResponse], error) {
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
	if input.CampaignID != nil {
		filter.Filters["campaign_id"] = *input.CampaignID
	}
	if input.AgentID != nil {
		filter.Filters["agent_id"] = *input.AgentID
	}

	leads, total, err := s.leadRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list leads", zap.Error(err))
		return nil, err
	}

	responses := make([]*LeadResponse, len(leads))
	for i, l := range leads {
		responses[i] = ToLeadResponse(l)
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// ListLeadsByAgent retrieves all leads assigned to an agent
func (s *LeadService) ListLeadsByAgent(ctx context.Context, tenantID, agentID uuid.UUID) ([]*LeadResponse, error) {
	leads, err := s.leadRepo.FindByAgentForTenant(ctx, tenantID, agentID)
	if err != nil {
		return nil, err
	}
	responses := make([]*LeadResponse, len(leads))
	for i, l := range leads {
		responses[i] = ToLeadResponse(l)
	}
	return responses, nil
}

// UpdateLead updates a lead's contact details
func (s *LeadService) UpdateLead(ctx context.Context, tenantID, id uuid.UUID, req *UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	firstName := lead.FirstName
	lastName := lead.LastName
	phone := lead.Phone
	email := lead.Email
	source := lead.Source
	if req.FirstName != nil {
		firstName = *req.FirstName
	}
	if req.LastName != nil {
		lastName = *req.LastName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Source != nil {
		source = *req.Source
	}

	if err := lead.Update(firstName, lastName, phone, email, source); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		lead.SetNotes(*req.Notes)
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		s.logger.Error("Failed to update lead", zap.Error(err))
		return nil, err
	}

	return ToLeadResponse(lead), nil
}

// UpdateStatus moves a lead to a new pipeline status
func (s *LeadService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req *UpdateLeadStatusRequest) (*LeadResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lead", "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrLeadID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrLeadStatus, req.Status))
	defer span.End()

	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	newStatus := callcenter.LeadStatus(req.Status)
	if err := lead.UpdateStatus(newStatus); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var saveErr error
	telemetry.WithProfilingLabels(ctx,
		telemetry.OperationLabels("lead_status_transition", map[string]string{
			telemetry.ProfilingLabelTenantID: tenantID.String(),
		}),
		func(c context.Context) {
			saveErr = s.leadRepo.SaveWithLock(c, lead)
		})
	if saveErr != nil {
		telemetry.RecordError(span, saveErr)
		s.logger.Error("Failed to update lead status", zap.Error(saveErr))
		return nil, saveErr
	}

	s.publishEvents(ctx, lead)
	if newStatus == callcenter.LeadStatusConverted && s.metrics != nil {
		s.metrics.RecordLeadConverted(ctx, tenantID, lead.CampaignID)
		telemetry.AddEvent(span, "lead_converted",
			telemetry.SpanAttrLeadID, id.String())
	}

	s.logger.Info("Lead status updated",
		zap.String("lead_id", id.String()),
		zap.String("status", req.Status))

	return ToLeadResponse(lead), nil
}

// UpdateScore re-scores a lead
func (s *LeadService) UpdateScore(ctx context.Context, tenantID, id uuid.UUID, req *UpdateLeadScoreRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := lead.UpdateScore(req.Score); err != nil {
		return nil, err
	}

	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, lead)

	return ToLeadResponse(lead), nil
}

// AssignAgent assigns a lead to a call agent
func (s *LeadService) AssignAgent(ctx context.Context, tenantID, id uuid.UUID, req *AssignLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.verifyAgent(ctx, tenantID, req.AgentID); err != nil {
		return nil, err
	}

	if err := lead.AssignAgent(req.AgentID); err != nil {
		return nil, err
	}

	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		s.logger.Error("Failed to assign lead", zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, lead)

	s.logger.Info("Lead assigned",
		zap.String("lead_id", id.String()),
		zap.String("agent_id", req.AgentID.String()))

	return ToLeadResponse(lead), nil
}

// UnassignAgent removes a lead's agent assignment
func (s *LeadService) UnassignAgent(ctx context.Context, tenantID, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	lead.UnassignAgent()

	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		return nil, err
	}

	return ToLeadResponse(lead), nil
}

// DeleteLead removes a lead
func (s *LeadService) DeleteLead(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.leadRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete lead", zap.Error(err))
		return err
	}

	s.logger.Info("Lead deleted",
		zap.String("lead_id", id.String()),
		zap.String("tenant_id", tenantID.String()))

	return nil
}

func (s *LeadService) verifyAgent(ctx context.Context, tenantID, agentID uuid.UUID) error {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, agentID)
	if err != nil {
		return shared.NewDomainError("AGENT_NOT_FOUND", "Agent does not exist")
	}
	if !agent.IsActive {
		return shared.NewDomainError("AGENT_INACTIVE", "Leads cannot be assigned to an inactive agent")
	}
	return nil
}

func (s *LeadService) publishEvents(ctx context.Context, lead *callcenter.Lead) {
	events := lead.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish lead events", zap.Error(err))
		}
	}
	lead.ClearDomainEvents()
}
