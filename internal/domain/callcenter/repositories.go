package callcenter

import (
	"context"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	Save(ctx context.Context, campaign *Campaign) error
	SaveWithLock(ctx context.Context, campaign *Campaign) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Campaign, int64, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	Save(ctx context.Context, lead *Lead) error
	SaveWithLock(ctx context.Context, lead *Lead) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Lead, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Lead, int64, error)
	FindByCampaignForTenant(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*Lead, error)
	FindByAgentForTenant(ctx context.Context, tenantID, agentID uuid.UUID) ([]*Lead, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AgentRepository defines the interface for call agent persistence
type AgentRepository interface {
	Save(ctx context.Context, agent *Agent) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Agent, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Agent, int64, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CallRepository defines the interface for call persistence
type CallRepository interface {
	Save(ctx context.Context, call *Call) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Call, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Call, int64, error)
	FindByAgentForTenant(ctx context.Context, tenantID, agentID uuid.UUID) ([]*Call, error)
	FindByLeadForTenant(ctx context.Context, tenantID, leadID uuid.UUID) ([]*Call, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ReportRepository defines the interface for call report persistence
type ReportRepository interface {
	Save(ctx context.Context, report *CallReport) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CallReport, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*CallReport, int64, error)
	FindByCampaignForTenant(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*CallReport, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// Filter allow-lists per resource. The HTTP layer parses only these
// query keys into repository filters; unknown keys are ignored.
var (
	CampaignFilterKeys = []string{"is_active", "status"}
	LeadFilterKeys     = []string{"status", "campaign_id", "agent_id"}
	AgentFilterKeys    = []string{"is_active", "shift"}
	CallFilterKeys     = []string{"outcome", "direction", "agent_id", "lead_id"}
	ReportFilterKeys   = []string{"report_type", "report_date", "campaign_id"}
)
