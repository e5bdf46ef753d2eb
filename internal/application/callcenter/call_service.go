package callcenter

import (
	"context"
	"time"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CallMetricsRecorder records call activity metrics. BusinessMetrics from
// the telemetry package satisfies this interface.
type CallMetricsRecorder interface {
	RecordCallWithDuration(ctx context.Context, tenantID uuid.UUID, direction, outcome string, seconds int64)
}

// CallService handles call logging and outcome tracking
type CallService struct {
	callRepo       callcenter.CallRepository
	agentRepo      callcenter.AgentRepository
	leadRepo       callcenter.LeadRepository
	eventPublisher shared.EventPublisher
	metrics        CallMetricsRecorder
	logger         *zap.Logger
}

// NewCallService creates a new CallService
func NewCallService(
	callRepo callcenter.CallRepository,
	agentRepo callcenter.AgentRepository,
	leadRepo callcenter.LeadRepository,
	eventPublisher shared.EventPublisher,
	metrics CallMetricsRecorder,
	logger *zap.Logger,
) *CallService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallService{
		callRepo:       callRepo,
		agentRepo:      agentRepo,
		leadRepo:       leadRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		logger:         logger,
	}
}

// LogCall logs a new call between an agent and a lead
func (s *CallService) LogCall(ctx context.Context, tenantID uuid.UUID, req *LogCallRequest) (*CallResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "call", "log")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrAgentID, req.AgentID.String(),
		telemetry.SpanAttrLeadID, req.LeadID.String(),
		telemetry.SpanAttrCallDirection, req.Direction,
	)

	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, req.AgentID)
	if err != nil {
		return nil, shared.NewDomainError("AGENT_NOT_FOUND", "Agent does not exist")
	}
	if !agent.IsActive {
		return nil, shared.NewDomainError("AGENT_INACTIVE", "Inactive agents cannot take calls")
	}

	if _, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, req.LeadID); err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead does not exist")
	}

	startedAt := time.Time{}
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	call, err := callcenter.NewCall(tenantID, req.AgentID, req.LeadID, callcenter.CallDirection(req.Direction), startedAt)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if req.Notes != "" {
		call.SetNotes(req.Notes)
	}

	if err := s.callRepo.Save(ctx, call); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to save call", zap.Error(err))
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrCallID, call.ID.String())
	s.publishEvents(ctx, call)

	s.logger.Info("Call logged",
		zap.String("call_id", call.ID.String()),
		zap.String("agent_id", req.AgentID.String()),
		zap.String("lead_id", req.LeadID.String()),
		zap.String("direction", req.Direction))

	return ToCallResponse(call), nil
}

// GetCall retrieves a call by ID
func (s *CallService) GetCall(ctx context.Context, tenantID, id uuid.UUID) (*CallResponse, error) {
	call, err := s.callRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToCallResponse(call), nil
}

// ListCalls retrieves calls with pagination and filtering
func (s *CallService) ListCalls(ctx context.Context, tenantID uuid.UUID, input ListCallsInput) (*shared.Paginated[*CallResponse], error) {
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
		OrderBy:  "started_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if input.Outcome != "" {
		filter.Filters["outcome"] = input.Outcome
	}
	if input.Direction != "" {
		filter.Filters["direction"] = input.Direction
	}
	if input.AgentID != nil {
		filter.Filters["agent_id"] = *input.AgentID
	}
	if input.LeadID != nil {
		filter.Filters["lead_id"] = *input.LeadID
	}

	calls, total, err := s.callRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list calls", zap.Error(err))
		return nil, err
	}

	responses := make([]*CallResponse, len(calls))
	for i, c := range calls {
		responses[i] = ToCallResponse(c)
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// ListCallsByLead retrieves the call history for a lead
func (s *CallService) ListCallsByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]*CallResponse, error) {
	calls, err := s.callRepo.FindByLeadForTenant(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	responses := make([]*CallResponse, len(calls))
	for i, c := range calls {
		responses[i] = ToCallResponse(c)
	}
	return responses, nil
}

// EndCall marks a call as finished and derives its duration
func (s *CallService) EndCall(ctx context.Context, tenantID, id uuid.UUID, req *EndCallRequest) (*CallResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "call", "end",
		telemetry.WithAttribute(telemetry.SpanAttrCallID, id.String()))
	defer span.End()

	call, err := s.callRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := call.End(req.EndedAt); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.callRepo.Save(ctx, call); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to end call", zap.Error(err))
		return nil, err
	}

	telemetry.SetAttribute(span, "duration_seconds", call.DurationSeconds)
	if call.HasOutcome() && s.metrics != nil {
		s.metrics.RecordCallWithDuration(ctx, tenantID,
			string(call.Direction), string(call.Outcome), int64(call.DurationSeconds))
	}

	s.logger.Info("Call ended",
		zap.String("call_id", id.String()),
		zap.Int("duration_seconds", call.DurationSeconds))

	return ToCallResponse(call), nil
}

// RecordOutcome records a finished call's result
func (s *CallService) RecordOutcome(ctx context.Context, tenantID, id uuid.UUID, req *RecordCallOutcomeRequest) (*CallResponse, error) {
	call, err := s.callRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := call.RecordOutcome(callcenter.CallOutcome(req.Outcome)); err != nil {
		return nil, err
	}

	if err := s.callRepo.Save(ctx, call); err != nil {
		s.logger.Error("Failed to record call outcome", zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, call)
	if call.HasEnded() && s.metrics != nil {
		s.metrics.RecordCallWithDuration(ctx, tenantID,
			string(call.Direction), string(call.Outcome), int64(call.DurationSeconds))
	}

	s.logger.Info("Call outcome recorded",
		zap.String("call_id", id.String()),
		zap.String("outcome", req.Outcome))

	return ToCallResponse(call), nil
}

// ScheduleFollowUp schedules a follow-up for a call
func (s *CallService) ScheduleFollowUp(ctx context.Context, tenantID, id uuid.UUID, req *ScheduleFollowUpRequest) (*CallResponse, error) {
	call, err := s.callRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := call.ScheduleFollowUp(req.FollowUpAt, req.Note); err != nil {
		return nil, err
	}

	if err := s.callRepo.Save(ctx, call); err != nil {
		return nil, err
	}

	s.logger.Info("Follow-up scheduled",
		zap.String("call_id", id.String()),
		zap.Time("follow_up_at", req.FollowUpAt))

	return ToCallResponse(call), nil
}

// ClearFollowUp removes a call's scheduled follow-up
func (s *CallService) ClearFollowUp(ctx context.Context, tenantID, id uuid.UUID) (*CallResponse, error) {
	call, err := s.callRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	call.ClearFollowUp()

	if err := s.callRepo.Save(ctx, call); err != nil {
		return nil, err
	}

	return ToCallResponse(call), nil
}

// DeleteCall removes a call record
func (s *CallService) DeleteCall(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.callRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.callRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete call", zap.Error(err))
		return err
	}

	return nil
}

func (s *CallService) publishEvents(ctx context.Context, call *callcenter.Call) {
	events := call.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish call events", zap.Error(err))
		}
	}
	call.ClearDomainEvents()
}
