package identity

import (
	"context"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleService handles role and permission matrix management
type RoleService struct {
	roleRepo     identity.RoleRepository
	employeeRepo identity.EmployeeRepository
	permCache    identity.PermissionCache
	logger       *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.RoleRepository,
	employeeRepo identity.EmployeeRepository,
	permCache identity.PermissionCache,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roleRepo:     roleRepo,
		employeeRepo: employeeRepo,
		permCache:    permCache,
		logger:       logger,
	}
}

// CreateRole creates a new role
func (s *RoleService) CreateRole(ctx context.Context, tenantID uuid.UUID, req CreateRoleRequest) (*RoleResponse, error) {
	exists, err := s.roleRepo.ExistsByCodeForTenant(ctx, tenantID, req.Code)
	if err != nil {
		s.logger.Error("Failed to check role code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check role code")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A role with this code already exists")
	}

	role, err := identity.NewRole(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		role.SetDescription(req.Description)
	}
	if req.SortOrder != 0 {
		role.SetSortOrder(req.SortOrder)
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		s.logger.Error("Failed to save role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create role")
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", role.Code))

	return ToRoleResponse(role), nil
}

// GetRole retrieves a role by ID
func (s *RoleService) GetRole(ctx context.Context, tenantID, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return ToRoleResponse(role), nil
}

// ListRoles lists roles with pagination and filters
func (s *RoleService) ListRoles(ctx context.Context, tenantID uuid.UUID, input ListRolesInput) (*shared.Paginated[*RoleResponse], error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.PageSize < 1 || input.PageSize > 100 {
		input.PageSize = 20
	}

	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		OrderBy:  "sort_order",
		OrderDir: "asc",
		Search:   input.Search,
		Filters:  make(map[string]interface{}),
	}
	if input.IsEnabled != nil {
		filter.Filters["is_enabled"] = *input.IsEnabled
	}

	roles, total, err := s.roleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list roles")
	}

	responses := make([]*RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, ToRoleResponse(r))
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// UpdateRole updates a role's descriptive fields
func (s *RoleService) UpdateRole(ctx context.Context, tenantID, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if req.Name != nil {
		if err := role.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		role.SetDescription(*req.Description)
	}
	if req.SortOrder != nil {
		role.SetSortOrder(*req.SortOrder)
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		s.logger.Error("Failed to update role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update role")
	}

	s.logger.Info("Role updated", zap.String("role_id", role.ID.String()))

	return ToRoleResponse(role), nil
}

// EnableRole enables a role
func (s *RoleService) EnableRole(ctx context.Context, tenantID, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := role.Enable(); err != nil {
		return nil, err
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		s.logger.Error("Failed to enable role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to enable role")
	}

	s.invalidatePermissions(ctx, id)
	s.logger.Info("Role enabled", zap.String("role_id", role.ID.String()))

	return ToRoleResponse(role), nil
}

// DisableRole disables a role. Employees holding it lose its permissions
// once their cached entry expires or is invalidated.
func (s *RoleService) DisableRole(ctx context.Context, tenantID, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := role.Disable(); err != nil {
		return nil, err
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		s.logger.Error("Failed to disable role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to disable role")
	}

	s.invalidatePermissions(ctx, id)
	s.logger.Info("Role disabled", zap.String("role_id", role.ID.String()))

	return ToRoleResponse(role), nil
}

// SetGrants replaces a role's permission matrix
func (s *RoleService) SetGrants(ctx context.Context, tenantID, id uuid.UUID, req SetGrantsRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	grants := make([]identity.MenuGrant, 0, len(req.Grants))
	for _, g := range req.Grants {
		var grant *identity.MenuGrant
		if g.SubMenuID != nil {
			grant, err = identity.NewSubMenuGrant(g.MenuID, *g.SubMenuID, g.Resource, g.CanView, g.CanAdd, g.CanEdit, g.CanDelete)
		} else {
			grant, err = identity.NewMenuGrant(g.MenuID, g.Resource, g.CanView, g.CanAdd, g.CanEdit, g.CanDelete)
		}
		if err != nil {
			return nil, err
		}
		grants = append(grants, *grant)
	}

	if err := role.SetGrants(grants); err != nil {
		return nil, err
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		s.logger.Error("Failed to save role grants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save permissions")
	}

	s.invalidatePermissions(ctx, id)
	s.logger.Info("Role grants replaced",
		zap.String("role_id", role.ID.String()),
		zap.Int("grant_count", len(grants)))

	return ToRoleResponse(role), nil
}

// GetPermissions returns the flattened permission codes of a role
func (s *RoleService) GetPermissions(ctx context.Context, tenantID, id uuid.UUID) ([]string, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	perms := role.Permissions()
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, p.Code)
	}
	return codes, nil
}

// DeleteRole deletes a role. System roles and roles still held by
// employees cannot be deleted.
func (s *RoleService) DeleteRole(ctx context.Context, tenantID, id uuid.UUID) error {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return shared.ErrNotFound
	}

	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}

	holders, err := s.employeeRepo.FindByRoleForTenant(ctx, tenantID, id)
	if err != nil {
		s.logger.Error("Failed to check role usage", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check role usage")
	}
	if len(holders) > 0 {
		return shared.NewDomainError("ROLE_IN_USE", "Role is still assigned to employees")
	}

	if err := s.roleRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete role", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete role")
	}

	s.invalidatePermissions(ctx, id)
	s.logger.Info("Role deleted",
		zap.String("role_id", id.String()),
		zap.String("tenant_id", tenantID.String()))
	return nil
}

func (s *RoleService) invalidatePermissions(ctx context.Context, roleID uuid.UUID) {
	if err := s.permCache.Delete(ctx, roleID); err != nil {
		s.logger.Warn("Failed to invalidate permission cache", zap.Error(err), zap.String("role_id", roleID.String()))
	}
}
