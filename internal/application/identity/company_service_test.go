package identity

import (
	"context"
	"testing"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCompanyService(repo *MockCompanyRepository) *CompanyService {
	return NewCompanyService(repo, zap.NewNop())
}

func TestCompanyService_CreateCompany_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	repo.On("ExistsByCode", ctx, "ACME").Return(false, nil)
	repo.On("ExistsByAdminEmail", ctx, "admin@acme.test").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	result, err := newCompanyService(repo).CreateCompany(ctx, CreateCompanyRequest{
		Code:          "ACME",
		Name:          "Acme Calls",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
		ContactName:   "Jane Doe",
		ContactPhone:  "555-0100",
	})

	require.NoError(t, err)
	assert.Equal(t, "ACME", result.Code)
	assert.Equal(t, "Acme Calls", result.Name)
	assert.Equal(t, identity.CompanyStatusActive, result.Status)
	assert.Equal(t, "Jane Doe", result.ContactName)
	assert.Equal(t, identity.DefaultCompanyLimits(), result.Limits)

	repo.AssertExpectations(t)
}

func TestCompanyService_CreateCompany_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	repo.On("ExistsByCode", ctx, "ACME").Return(true, nil)

	result, err := newCompanyService(repo).CreateCompany(ctx, CreateCompanyRequest{
		Code:          "ACME",
		Name:          "Acme Calls",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assertDomainErrorCode(t, err, "ALREADY_EXISTS")
}

func TestCompanyService_CreateCompany_DuplicateAdminEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	repo.On("ExistsByCode", ctx, "ACME").Return(false, nil)
	repo.On("ExistsByAdminEmail", ctx, "admin@acme.test").Return(true, nil)

	_, err := newCompanyService(repo).CreateCompany(ctx, CreateCompanyRequest{
		Code:          "ACME",
		Name:          "Acme Calls",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
	})

	assertDomainErrorCode(t, err, "ALREADY_EXISTS")
}

func TestCompanyService_CreateCompany_CustomLimits(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	repo.On("ExistsByCode", ctx, "ACME").Return(false, nil)
	repo.On("ExistsByAdminEmail", ctx, "admin@acme.test").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	limits := identity.CompanyLimits{MaxEmployees: 50, MaxAgents: 30, MaxCampaigns: 40}
	result, err := newCompanyService(repo).CreateCompany(ctx, CreateCompanyRequest{
		Code:          "ACME",
		Name:          "Acme Calls",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
		Limits:        &limits,
	})

	require.NoError(t, err)
	assert.Equal(t, limits, result.Limits)
}

func TestCompanyService_ListCompanies_DefaultsAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()

	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.Filters["status"] == "active"
	})).Return([]*identity.Company{company}, int64(1), nil)

	result, err := newCompanyService(repo).ListCompanies(ctx, ListCompaniesInput{
		Status: "active",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, company.Code, result.Items[0].Code)
	assert.Equal(t, 1, result.TotalPages)
}

func TestCompanyService_UpdateCompany_PartialFields(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()

	repo.On("FindByID", ctx, company.ID).Return(company, nil)
	repo.On("Save", ctx, company).Return(nil)

	newName := "Acme Contact Center"
	newPhone := "555-0199"
	result, err := newCompanyService(repo).UpdateCompany(ctx, company.ID, UpdateCompanyRequest{
		Name:         &newName,
		ContactPhone: &newPhone,
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Contact Center", result.Name)
	assert.Equal(t, "555-0199", result.ContactPhone)
	// Untouched fields stay as they were
	assert.Equal(t, "ACME", result.Code)
}

func TestCompanyService_UpdateCompany_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	name := "Whatever"
	_, err := newCompanyService(repo).UpdateCompany(ctx, id, UpdateCompanyRequest{Name: &name})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCompanyService_DeactivateAndActivate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()

	repo.On("FindByID", ctx, company.ID).Return(company, nil)
	repo.On("Save", ctx, company).Return(nil)

	svc := newCompanyService(repo)

	result, err := svc.DeactivateCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.CompanyStatusInactive, result.Status)

	result, err = svc.ActivateCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.CompanyStatusActive, result.Status)
}

func TestCompanyService_DeactivateCompany_AlreadyInactive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()
	require.NoError(t, company.Deactivate())

	repo.On("FindByID", ctx, company.ID).Return(company, nil)

	_, err := newCompanyService(repo).DeactivateCompany(ctx, company.ID)

	assertDomainErrorCode(t, err, "ALREADY_INACTIVE")
}

func TestCompanyService_SuspendCompany(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()

	repo.On("FindByID", ctx, company.ID).Return(company, nil)
	repo.On("Save", ctx, company).Return(nil)

	result, err := newCompanyService(repo).SuspendCompany(ctx, company.ID)

	require.NoError(t, err)
	assert.Equal(t, identity.CompanyStatusSuspended, result.Status)
}

func TestCompanyService_ResetAdminPassword(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()

	repo.On("FindByID", ctx, company.ID).Return(company, nil)
	repo.On("Save", ctx, company).Return(nil)

	err := newCompanyService(repo).ResetAdminPassword(ctx, company.ID, ResetCompanyPasswordRequest{
		NewPassword: "NewPassword456",
	})

	require.NoError(t, err)
	assert.True(t, company.VerifyAdminPassword("NewPassword456"))
	assert.False(t, company.VerifyAdminPassword("Password123"))
}

func TestCompanyService_DeleteCompany(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()
	require.NoError(t, company.Deactivate())

	repo.On("FindByID", ctx, company.ID).Return(company, nil)
	repo.On("Delete", ctx, company.ID).Return(nil)

	err := newCompanyService(repo).DeleteCompany(ctx, company.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCompanyService_DeleteCompany_StillActive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	company := createTestCompany()

	repo.On("FindByID", ctx, company.ID).Return(company, nil)

	err := newCompanyService(repo).DeleteCompany(ctx, company.ID)

	assertDomainErrorCode(t, err, "COMPANY_ACTIVE")
	repo.AssertNotCalled(t, "Delete", ctx, company.ID)
}

func TestCompanyService_DeleteCompany_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := newCompanyService(repo).DeleteCompany(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
