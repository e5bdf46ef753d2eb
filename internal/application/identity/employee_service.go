package identity

import (
	"context"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService handles employee management within a company
type EmployeeService struct {
	employeeRepo identity.EmployeeRepository
	companyRepo  identity.CompanyRepository
	roleRepo     identity.RoleRepository
	blacklist    auth.TokenBlacklist
	jwtService   *auth.JWTService
	logger       *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employeeRepo identity.EmployeeRepository,
	companyRepo identity.CompanyRepository,
	roleRepo identity.RoleRepository,
	blacklist auth.TokenBlacklist,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		roleRepo:     roleRepo,
		blacklist:    blacklist,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// CreateEmployee creates a new employee, enforcing the company's seat limit
func (s *EmployeeService) CreateEmployee(ctx context.Context, tenantID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	count, err := s.employeeRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to count employees", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check seat limit")
	}
	if !company.CanAddEmployee(int(count)) {
		return nil, shared.NewDomainError("SEAT_LIMIT_REACHED", "Employee seat limit reached for this company")
	}

	exists, err := s.employeeRepo.ExistsByUsernameForTenant(ctx, tenantID, req.Username)
	if err != nil {
		s.logger.Error("Failed to check username", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An employee with this username already exists")
	}

	var employee *identity.Employee
	if req.Activate {
		employee, err = identity.NewActiveEmployee(tenantID, req.Username, req.Password)
	} else {
		employee, err = identity.NewEmployee(tenantID, req.Username, req.Password)
	}
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := employee.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := employee.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := employee.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.RoleID != nil {
		if _, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, *req.RoleID); err != nil {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role does not exist")
		}
		if err := employee.AssignRole(*req.RoleID); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to save employee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create employee")
	}

	s.logger.Info("Employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("username", employee.Username))

	return ToEmployeeResponse(employee), nil
}

// GetEmployee retrieves an employee by ID
func (s *EmployeeService) GetEmployee(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return ToEmployeeResponse(employee), nil
}

// ListEmployees lists employees with pagination and filters
func (s *EmployeeService) ListEmployees(ctx context.Context, tenantID uuid.UUID, input ListEmployeesInput) (*shared.Paginated[*EmployeeResponse], error) {
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
	if input.RoleID != nil {
		filter.Filters["role_id"] = *input.RoleID
	}

	employees, total, err := s.employeeRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list employees", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list employees")
	}

	responses := make([]*EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, ToEmployeeResponse(e))
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// ListEmployeesByRole lists the employees holding a given role
func (s *EmployeeService) ListEmployeesByRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]*EmployeeResponse, error) {
	employees, err := s.employeeRepo.FindByRoleForTenant(ctx, tenantID, roleID)
	if err != nil {
		s.logger.Error("Failed to list employees by role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list employees")
	}

	responses := make([]*EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, ToEmployeeResponse(e))
	}
	return responses, nil
}

// UpdateEmployee updates an employee's profile fields
func (s *EmployeeService) UpdateEmployee(ctx context.Context, tenantID, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if req.Email != nil {
		if err := employee.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := employee.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := employee.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to update employee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update employee")
	}

	s.logger.Info("Employee updated", zap.String("employee_id", employee.ID.String()))

	return ToEmployeeResponse(employee), nil
}

// ActivateEmployee activates an employee account
func (s *EmployeeService) ActivateEmployee(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := employee.Activate(); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to activate employee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to activate employee")
	}

	s.logger.Info("Employee activated", zap.String("employee_id", employee.ID.String()))

	return ToEmployeeResponse(employee), nil
}

// DeactivateEmployee deactivates an employee and revokes their sessions
func (s *EmployeeService) DeactivateEmployee(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := employee.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to deactivate employee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate employee")
	}

	if err := s.blacklist.AddSubjectTokensToBlacklist(ctx, id.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after deactivation", zap.Error(err))
	}

	s.logger.Info("Employee deactivated", zap.String("employee_id", employee.ID.String()))

	return ToEmployeeResponse(employee), nil
}

// UnlockEmployee unlocks a locked employee account
func (s *EmployeeService) UnlockEmployee(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := employee.Unlock(); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to unlock employee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to unlock employee")
	}

	s.logger.Info("Employee unlocked", zap.String("employee_id", employee.ID.String()))

	return ToEmployeeResponse(employee), nil
}

// AssignRole assigns a role to an employee. The role must belong to the
// same company.
func (s *EmployeeService) AssignRole(ctx context.Context, tenantID, employeeID, roleID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if _, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, roleID); err != nil {
		return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role does not exist")
	}

	if err := employee.AssignRole(roleID); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to assign role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign role")
	}

	s.logger.Info("Role assigned to employee",
		zap.String("employee_id", employeeID.String()),
		zap.String("role_id", roleID.String()))

	return ToEmployeeResponse(employee), nil
}

// ClearRole removes an employee's role
func (s *EmployeeService) ClearRole(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	employee.ClearRole()

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to clear role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to clear role")
	}

	s.logger.Info("Role cleared from employee", zap.String("employee_id", employeeID.String()))

	return ToEmployeeResponse(employee), nil
}

// ResetPassword resets an employee's password without the old one and
// revokes their sessions
func (s *EmployeeService) ResetPassword(ctx context.Context, tenantID, id uuid.UUID, req ResetEmployeePasswordRequest) error {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := employee.SetPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to reset employee password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	if err := s.blacklist.AddSubjectTokensToBlacklist(ctx, id.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after password reset", zap.Error(err))
	}

	s.logger.Info("Employee password reset", zap.String("employee_id", id.String()))
	return nil
}

// DeleteEmployee removes an employee from the company
func (s *EmployeeService) DeleteEmployee(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return shared.ErrNotFound
	}

	if err := s.employeeRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete employee", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete employee")
	}

	if err := s.blacklist.AddSubjectTokensToBlacklist(ctx, id.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after deletion", zap.Error(err))
	}

	s.logger.Info("Employee deleted",
		zap.String("employee_id", id.String()),
		zap.String("tenant_id", tenantID.String()))
	return nil
}
