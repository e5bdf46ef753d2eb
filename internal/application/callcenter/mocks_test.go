package callcenter

import (
	"context"
	"testing"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Save(ctx context.Context, campaign *callcenter.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) SaveWithLock(ctx context.Context, campaign *callcenter.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Campaign, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callcenter.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Campaign, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*callcenter.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *callcenter.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveWithLock(ctx context.Context, lead *callcenter.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Lead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callcenter.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Lead, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*callcenter.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeadRepository) FindByCampaignForTenant(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*callcenter.Lead, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*callcenter.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByAgentForTenant(ctx context.Context, tenantID, agentID uuid.UUID) ([]*callcenter.Lead, error) {
	args := m.Called(ctx, tenantID, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*callcenter.Lead), args.Error(1)
}

func (m *MockLeadRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Save(ctx context.Context, agent *callcenter.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Agent, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callcenter.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Agent, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*callcenter.Agent), args.Get(1).(int64), args.Error(2)
}

func (m *MockAgentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockCallRepository struct {
	mock.Mock
}

func (m *MockCallRepository) Save(ctx context.Context, call *callcenter.Call) error {
	args := m.Called(ctx, call)
	return args.Error(0)
}

func (m *MockCallRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Call, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callcenter.Call), args.Error(1)
}

func (m *MockCallRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Call, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*callcenter.Call), args.Get(1).(int64), args.Error(2)
}

func (m *MockCallRepository) FindByAgentForTenant(ctx context.Context, tenantID, agentID uuid.UUID) ([]*callcenter.Call, error) {
	args := m.Called(ctx, tenantID, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*callcenter.Call), args.Error(1)
}

func (m *MockCallRepository) FindByLeadForTenant(ctx context.Context, tenantID, leadID uuid.UUID) ([]*callcenter.Call, error) {
	args := m.Called(ctx, tenantID, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*callcenter.Call), args.Error(1)
}

func (m *MockCallRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, report *callcenter.CallReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.CallReport, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callcenter.CallReport), args.Error(1)
}

func (m *MockReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.CallReport, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*callcenter.CallReport), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportRepository) FindByCampaignForTenant(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*callcenter.CallReport, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*callcenter.CallReport), args.Error(1)
}

func (m *MockReportRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByCode(ctx context.Context, code string) (*identity.Company, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByAdminEmail(ctx context.Context, email string) (*identity.Company, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Company, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.Company), args.Get(1).(int64), args.Error(2)
}

func (m *MockCompanyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByAdminEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordLeadCreated(ctx context.Context, tenantID uuid.UUID, source string) {
	m.Called(ctx, tenantID, source)
}

func (m *MockMetricsRecorder) RecordLeadConverted(ctx context.Context, tenantID uuid.UUID, campaignID *uuid.UUID) {
	m.Called(ctx, tenantID, campaignID)
}

func (m *MockMetricsRecorder) RecordCallWithDuration(ctx context.Context, tenantID uuid.UUID, direction, outcome string, seconds int64) {
	m.Called(ctx, tenantID, direction, outcome, seconds)
}

func createTestCompany(t *testing.T) *identity.Company {
	t.Helper()
	company, err := identity.NewCompany("ACME", "Acme Calls", "admin@acme.test", "Password123")
	require.NoError(t, err)
	return company
}

func createTestCampaign(t *testing.T, tenantID uuid.UUID) *callcenter.Campaign {
	t.Helper()
	campaign, err := callcenter.NewCampaign(tenantID, "Spring Outreach")
	require.NoError(t, err)
	campaign.ClearDomainEvents()
	return campaign
}

func createTestLead(t *testing.T, tenantID uuid.UUID) *callcenter.Lead {
	t.Helper()
	lead, err := callcenter.NewLead(tenantID, "Jordan", "Reyes", "+15550101")
	require.NoError(t, err)
	lead.ClearDomainEvents()
	return lead
}

func createTestAgent(t *testing.T, tenantID uuid.UUID) *callcenter.Agent {
	t.Helper()
	agent, err := callcenter.NewAgent(tenantID, "Sam Okafor", "101")
	require.NoError(t, err)
	return agent
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
}
