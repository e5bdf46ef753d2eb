package callcenter

import (
	"context"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgentService handles call agent roster operations
type AgentService struct {
	agentRepo   callcenter.AgentRepository
	callRepo    callcenter.CallRepository
	companyRepo identity.CompanyRepository
	logger      *zap.Logger
}

// NewAgentService creates a new AgentService
func NewAgentService(
	agentRepo callcenter.AgentRepository,
	callRepo callcenter.CallRepository,
	companyRepo identity.CompanyRepository,
	logger *zap.Logger,
) *AgentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentService{
		agentRepo:   agentRepo,
		callRepo:    callRepo,
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// CreateAgent creates a new call agent within the company's plan limits
func (s *AgentService) CreateAgent(ctx context.Context, tenantID uuid.UUID, req *CreateAgentRequest) (*AgentResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.agentRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !company.CanAddAgent(int(count)) {
		s.logger.Warn("Agent limit reached",
			zap.String("tenant_id", tenantID.String()),
			zap.Int64("current_count", count))
		return nil, shared.NewDomainError("AGENT_LIMIT_REACHED", "Company has reached its agent limit")
	}

	agent, err := callcenter.NewAgent(tenantID, req.Name, req.Extension)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Phone != "" {
		if err := agent.Update(req.Name, req.Email, req.Phone, req.Extension); err != nil {
			return nil, err
		}
	}
	if req.Shift != "" {
		if err := agent.SetShift(callcenter.AgentShift(req.Shift)); err != nil {
			return nil, err
		}
	}

	if err := s.agentRepo.Save(ctx, agent); err != nil {
		s.logger.Error("Failed to save agent", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Agent created",
		zap.String("agent_id", agent.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("name", agent.Name))

	return ToAgentResponse(agent), nil
}

// GetAgent retrieves an agent by ID
func (s *AgentService) GetAgent(ctx context.Context, tenantID, id uuid.UUID) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToAgentResponse(agent), nil
}

// ListAgents retrieves agents with pagination and filtering
func (s *AgentService) ListAgents(ctx context.Context, tenantID uuid.UUID, input ListAgentsInput) (*shared.Paginated[*AgentResponse], error) {
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
		OrderBy:  "name",
		OrderDir: "asc",
		Filters:  make(map[string]interface{}),
	}
	if input.Shift != "" {
		filter.Filters["shift"] = input.Shift
	}
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	agents, total, err := s.agentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list agents", zap.Error(err))
		return nil, err
	}

	responses := make([]*AgentResponse, len(agents))
	for i, a := range agents {
		responses[i] = ToAgentResponse(a)
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// UpdateAgent updates an agent's contact information
func (s *AgentService) UpdateAgent(ctx context.Context, tenantID, id uuid.UUID, req *UpdateAgentRequest) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := agent.Name
	email := agent.Email
	phone := agent.Phone
	extension := agent.Extension
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Extension != nil {
		extension = *req.Extension
	}

	if err := agent.Update(name, email, phone, extension); err != nil {
		return nil, err
	}

	if err := s.agentRepo.Save(ctx, agent); err != nil {
		s.logger.Error("Failed to update agent", zap.Error(err))
		return nil, err
	}

	return ToAgentResponse(agent), nil
}

// SetShift changes an agent's working shift
func (s *AgentService) SetShift(ctx context.Context, tenantID, id uuid.UUID, req *SetAgentShiftRequest) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := agent.SetShift(callcenter.AgentShift(req.Shift)); err != nil {
		return nil, err
	}

	if err := s.agentRepo.Save(ctx, agent); err != nil {
		return nil, err
	}

	return ToAgentResponse(agent), nil
}

// ActivateAgent enables an agent
func (s *AgentService) ActivateAgent(ctx context.Context, tenantID, id uuid.UUID) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := agent.Activate(); err != nil {
		return nil, err
	}

	if err := s.agentRepo.Save(ctx, agent); err != nil {
		return nil, err
	}

	s.logger.Info("Agent activated", zap.String("agent_id", id.String()))

	return ToAgentResponse(agent), nil
}

// DeactivateAgent disables an agent; inactive agents cannot take new calls
func (s *AgentService) DeactivateAgent(ctx context.Context, tenantID, id uuid.UUID) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := agent.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.agentRepo.Save(ctx, agent); err != nil {
		return nil, err
	}

	s.logger.Info("Agent deactivated", zap.String("agent_id", id.String()))

	return ToAgentResponse(agent), nil
}

// ListAgentCalls retrieves all calls made or received by an agent
func (s *AgentService) ListAgentCalls(ctx context.Context, tenantID, agentID uuid.UUID) ([]*CallResponse, error) {
	if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, agentID); err != nil {
		return nil, err
	}

	calls, err := s.callRepo.FindByAgentForTenant(ctx, tenantID, agentID)
	if err != nil {
		return nil, err
	}

	responses := make([]*CallResponse, len(calls))
	for i, c := range calls {
		responses[i] = ToCallResponse(c)
	}
	return responses, nil
}

// DeleteAgent removes an agent. Agents with logged calls cannot be
// deleted, only deactivated.
func (s *AgentService) DeleteAgent(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	calls, err := s.callRepo.FindByAgentForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if len(calls) > 0 {
		return shared.NewDomainError("AGENT_HAS_CALLS", "Agent with logged calls cannot be deleted")
	}

	if err := s.agentRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete agent", zap.Error(err))
		return err
	}

	s.logger.Info("Agent deleted",
		zap.String("agent_id", id.String()),
		zap.String("tenant_id", tenantID.String()))

	return nil
}
