package identity

import (
	"context"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyService handles company (tenant) management. Only the platform
// admin reaches these operations.
type CompanyService struct {
	companyRepo identity.CompanyRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo identity.CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// CreateCompany creates a new company with its admin credentials
func (s *CompanyService) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	exists, err := s.companyRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		s.logger.Error("Failed to check company code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check company code")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A company with this code already exists")
	}

	exists, err = s.companyRepo.ExistsByAdminEmail(ctx, req.AdminEmail)
	if err != nil {
		s.logger.Error("Failed to check admin email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check admin email")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A company with this admin email already exists")
	}

	company, err := identity.NewCompany(req.Code, req.Name, req.AdminEmail, req.AdminPassword)
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.ContactPhone != "" || req.ContactEmail != "" {
		if err := company.SetContact(req.ContactName, req.ContactPhone, req.ContactEmail); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := company.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		company.SetNotes(req.Notes)
	}
	if req.Limits != nil {
		if err := company.UpdateLimits(*req.Limits); err != nil {
			return nil, err
		}
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to save company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create company")
	}

	s.logger.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("code", company.Code))

	return ToCompanyResponse(company), nil
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return ToCompanyResponse(company), nil
}

// ListCompanies lists companies with pagination and filters
func (s *CompanyService) ListCompanies(ctx context.Context, input ListCompaniesInput) (*shared.Paginated[*CompanyResponse], error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.PageSize < 1 || input.PageSize > 100 {
		input.PageSize = 20
	}

	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   input.Search,
		Filters:  make(map[string]interface{}),
	}
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	if input.Code != "" {
		filter.Filters["code"] = input.Code
	}

	companies, total, err := s.companyRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list companies", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list companies")
	}

	responses := make([]*CompanyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, ToCompanyResponse(c))
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// UpdateCompany updates a company's profile fields
func (s *CompanyService) UpdateCompany(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if req.Name != nil {
		if err := company.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.ContactPhone != nil || req.ContactEmail != nil {
		contactName := company.ContactName
		contactPhone := company.ContactPhone
		contactEmail := company.ContactEmail
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.ContactPhone != nil {
			contactPhone = *req.ContactPhone
		}
		if req.ContactEmail != nil {
			contactEmail = *req.ContactEmail
		}
		if err := company.SetContact(contactName, contactPhone, contactEmail); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := company.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		company.SetNotes(*req.Notes)
	}
	if req.Limits != nil {
		if err := company.UpdateLimits(*req.Limits); err != nil {
			return nil, err
		}
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to update company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update company")
	}

	s.logger.Info("Company updated", zap.String("company_id", company.ID.String()))

	return ToCompanyResponse(company), nil
}

// ActivateCompany re-enables a deactivated or suspended company
func (s *CompanyService) ActivateCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := company.Activate(); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to activate company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to activate company")
	}

	s.logger.Info("Company activated", zap.String("company_id", company.ID.String()))

	return ToCompanyResponse(company), nil
}

// DeactivateCompany disables a company. All of its employee logins stop
// working immediately; the rows stay for history.
func (s *CompanyService) DeactivateCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := company.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to deactivate company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate company")
	}

	s.logger.Info("Company deactivated", zap.String("company_id", company.ID.String()))

	return ToCompanyResponse(company), nil
}

// SuspendCompany suspends a company pending review
func (s *CompanyService) SuspendCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := company.Suspend(); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to suspend company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to suspend company")
	}

	s.logger.Info("Company suspended", zap.String("company_id", company.ID.String()))

	return ToCompanyResponse(company), nil
}

// ResetAdminPassword resets a company admin's password
func (s *CompanyService) ResetAdminPassword(ctx context.Context, id uuid.UUID, req ResetCompanyPasswordRequest) error {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := company.SetAdminPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to reset company admin password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Company admin password reset", zap.String("company_id", company.ID.String()))
	return nil
}

// DeleteCompany removes a company. Active companies must be deactivated
// or suspended first.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return shared.ErrNotFound
	}

	if company.IsActive() {
		return shared.NewDomainError("COMPANY_ACTIVE", "Deactivate the company before deleting it")
	}

	if err := s.companyRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete company", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete company")
	}

	s.logger.Info("Company deleted", zap.String("company_id", id.String()))
	return nil
}
