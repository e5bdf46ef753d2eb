package identity

import (
	"context"
	"errors"
	"time"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/navigation"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts   int           // Maximum failed login attempts before lock
	LockDuration       time.Duration // How long to lock account after max attempts
	PermissionCacheTTL time.Duration // How long resolved role permissions stay cached
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts:   5,
		LockDuration:       15 * time.Minute,
		PermissionCacheTTL: 10 * time.Minute,
	}
}

// AuthService handles the three authentication flows: platform admin,
// company admin and employee. Each flow issues the same token pair
// shape with a different role discriminant.
type AuthService struct {
	adminRepo    identity.PlatformAdminRepository
	companyRepo  identity.CompanyRepository
	employeeRepo identity.EmployeeRepository
	roleRepo     identity.RoleRepository
	menuRepo     navigation.MenuRepository
	jwtService   *auth.JWTService
	blacklist    auth.TokenBlacklist
	permCache    identity.PermissionCache
	config       AuthServiceConfig
	logger       *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	adminRepo identity.PlatformAdminRepository,
	companyRepo identity.CompanyRepository,
	employeeRepo identity.EmployeeRepository,
	roleRepo identity.RoleRepository,
	menuRepo navigation.MenuRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	permCache identity.PermissionCache,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:    adminRepo,
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		roleRepo:     roleRepo,
		menuRepo:     menuRepo,
		jwtService:   jwtService,
		blacklist:    blacklist,
		permCache:    permCache,
		config:       config,
		logger:       logger,
	}
}

// SuperAdminLogin authenticates a platform admin by email
func (s *AuthService) SuperAdminLogin(ctx context.Context, input SuperAdminLoginInput) (*LoginResult, error) {
	s.logger.Info("Super admin login attempt", zap.String("email", input.Email))

	admin, err := s.adminRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Super admin not found during login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !admin.CanLogin() {
		if admin.IsLocked() {
			s.logger.Warn("Login attempt for locked admin account", zap.String("email", input.Email))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		s.logger.Warn("Login attempt for deactivated admin account", zap.String("email", input.Email))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !admin.VerifyPassword(input.Password) {
		locked := admin.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.adminRepo.Save(ctx, admin); err != nil {
			s.logger.Error("Failed to update admin after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Admin account locked after too many failed attempts",
				zap.String("email", input.Email),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	name := admin.DisplayName
	if name == "" {
		name = admin.Email
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:  uuid.Nil,
		SubjectID: admin.ID,
		Name:      name,
		Role:      identity.RoleSuperAdmin,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	admin.RecordLoginSuccess(input.IP)
	if err := s.adminRepo.Save(ctx, admin); err != nil {
		s.logger.Error("Failed to update admin after successful login", zap.Error(err))
	}

	s.logger.Info("Super admin logged in successfully",
		zap.String("email", input.Email),
		zap.String("admin_id", admin.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User: UserInfo{
			ID:    admin.ID,
			Role:  identity.RoleSuperAdmin,
			Name:  name,
			Email: admin.Email,
		},
	}, nil
}

// CompanyLogin authenticates a company admin. The credentials live on
// the company row itself.
func (s *AuthService) CompanyLogin(ctx context.Context, input CompanyLoginInput) (*LoginResult, error) {
	s.logger.Info("Company admin login attempt", zap.String("email", input.Email))

	company, err := s.companyRepo.FindByAdminEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Company not found during admin login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !company.IsActive() {
		s.logger.Warn("Login attempt for inactive company",
			zap.String("email", input.Email),
			zap.String("company_code", company.Code))
		return nil, shared.NewDomainError("TENANT_INACTIVE", "Company account is deactivated")
	}

	if !company.VerifyAdminPassword(input.Password) {
		s.logger.Warn("Invalid company admin password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:  company.ID,
		SubjectID: company.ID,
		Name:      company.Name,
		Role:      identity.RoleCompanyAdmin,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// Company admins see the whole sidebar
	menus, err := s.menuRepo.FindTreeForTenant(ctx, company.ID)
	if err != nil {
		s.logger.Error("Failed to load menu tree", zap.Error(err))
		menus = nil
	}

	s.logger.Info("Company admin logged in successfully",
		zap.String("email", input.Email),
		zap.String("company_id", company.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User: UserInfo{
			ID:       company.ID,
			TenantID: company.ID,
			Role:     identity.RoleCompanyAdmin,
			Name:     company.Name,
			Email:    company.AdminEmail,
		},
		Menus: menus,
	}, nil
}

// EmployeeLogin authenticates an employee. The company code selects the
// tenant before the username lookup so two companies can each have an
// employee with the same username.
func (s *AuthService) EmployeeLogin(ctx context.Context, input EmployeeLoginInput) (*LoginResult, error) {
	s.logger.Info("Employee login attempt",
		zap.String("company_code", input.CompanyCode),
		zap.String("username", input.Username))

	company, err := s.companyRepo.FindByCode(ctx, input.CompanyCode)
	if err != nil {
		s.logger.Warn("Company not found during employee login", zap.String("company_code", input.CompanyCode))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid company code, username or password")
	}

	if !company.IsActive() {
		s.logger.Warn("Employee login attempt for inactive company", zap.String("company_code", input.CompanyCode))
		return nil, shared.NewDomainError("TENANT_INACTIVE", "Company account is deactivated")
	}

	employee, err := s.employeeRepo.FindByUsernameForTenant(ctx, company.ID, input.Username)
	if err != nil {
		s.logger.Warn("Employee not found during login",
			zap.String("company_code", input.CompanyCode),
			zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid company code, username or password")
	}

	if !employee.CanLogin() {
		if employee.IsLocked() {
			s.logger.Warn("Login attempt for locked employee", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact your administrator")
		}
		if employee.Status == identity.EmployeeStatusDeactivated {
			s.logger.Warn("Login attempt for deactivated employee", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		if employee.Status == identity.EmployeeStatusPending {
			s.logger.Warn("Login attempt for pending employee", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_PENDING", "Account is pending activation")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !employee.VerifyPassword(input.Password) {
		locked := employee.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.employeeRepo.Save(ctx, employee); err != nil {
			s.logger.Error("Failed to update employee after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Employee account locked after too many failed attempts",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid employee password attempt",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", employee.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid company code, username or password")
	}

	permissions, err := s.resolvePermissions(ctx, company.ID, employee.RoleID)
	if err != nil {
		s.logger.Error("Failed to resolve employee permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load permissions")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    company.ID,
		SubjectID:   employee.ID,
		Name:        employee.GetDisplayNameOrUsername(),
		Role:        identity.RoleEmployee,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	menus, err := s.permittedMenus(ctx, company.ID, permissions)
	if err != nil {
		s.logger.Error("Failed to load menu tree", zap.Error(err))
		menus = nil
	}

	employee.RecordLoginSuccess(input.IP)
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to update employee after successful login", zap.Error(err))
	}

	s.logger.Info("Employee logged in successfully",
		zap.String("username", input.Username),
		zap.String("employee_id", employee.ID.String()),
		zap.String("tenant_id", company.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User: UserInfo{
			ID:          employee.ID,
			TenantID:    company.ID,
			Role:        identity.RoleEmployee,
			Name:        employee.GetDisplayNameOrUsername(),
			Email:       employee.Email,
			Username:    employee.Username,
			RoleID:      employee.RoleID,
			Permissions: permissions,
		},
		Menus: menus,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// Permissions are re-resolved so role changes take effect on refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		}
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	if revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate token")
	} else if revoked {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	if invalidated, err := s.blacklist.IsSubjectTokenInvalidated(ctx, claims.SubjectID, claims.GetIssuedAtTime()); err != nil {
		s.logger.Error("Failed to check subject invalidation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate token")
	} else if invalidated {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	subjectID, err := claims.GetSubjectUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	var (
		name        string
		permissions []string
	)

	switch claims.RoleKind() {
	case identity.RoleSuperAdmin:
		admin, err := s.adminRepo.FindByID(ctx, subjectID)
		if err != nil {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Account no longer exists")
		}
		if !admin.CanLogin() {
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		name = admin.DisplayName
		if name == "" {
			name = admin.Email
		}

	case identity.RoleCompanyAdmin:
		company, err := s.companyRepo.FindByID(ctx, tenantID)
		if err != nil {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Account no longer exists")
		}
		if !company.IsActive() {
			return nil, shared.NewDomainError("TENANT_INACTIVE", "Company account is deactivated")
		}
		name = company.Name

	case identity.RoleEmployee:
		company, err := s.companyRepo.FindByID(ctx, tenantID)
		if err != nil {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Account no longer exists")
		}
		if !company.IsActive() {
			return nil, shared.NewDomainError("TENANT_INACTIVE", "Company account is deactivated")
		}

		employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, subjectID)
		if err != nil {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Account no longer exists")
		}
		if !employee.CanLogin() {
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is no longer active")
		}

		name = employee.GetDisplayNameOrUsername()
		permissions, err = s.resolvePermissions(ctx, tenantID, employee.RoleID)
		if err != nil {
			s.logger.Error("Failed to resolve employee permissions", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load permissions")
		}

	default:
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, name, permissions)
	if err != nil {
		s.logger.Error("Failed to refresh token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh tokens")
	}

	s.logger.Info("Tokens refreshed", zap.String("subject_id", claims.SubjectID))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return nil
	}

	ttl := input.TokenTTL
	if ttl <= 0 {
		ttl = s.jwtService.GetAccessTokenExpiration()
	}

	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to blacklist token on logout",
			zap.Error(err),
			zap.String("subject_id", input.SubjectID.String()))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("User logged out", zap.String("subject_id", input.SubjectID.String()))
	return nil
}

// GetCurrentUser returns the authenticated principal's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	switch input.Role {
	case identity.RoleSuperAdmin:
		admin, err := s.adminRepo.FindByID(ctx, input.SubjectID)
		if err != nil {
			return nil, shared.ErrNotFound
		}
		name := admin.DisplayName
		if name == "" {
			name = admin.Email
		}
		return &CurrentUserResult{
			User: UserInfo{
				ID:    admin.ID,
				Role:  identity.RoleSuperAdmin,
				Name:  name,
				Email: admin.Email,
			},
		}, nil

	case identity.RoleCompanyAdmin:
		company, err := s.companyRepo.FindByID(ctx, input.TenantID)
		if err != nil {
			return nil, shared.ErrNotFound
		}
		menus, err := s.menuRepo.FindTreeForTenant(ctx, company.ID)
		if err != nil {
			s.logger.Error("Failed to load menu tree", zap.Error(err))
			menus = nil
		}
		return &CurrentUserResult{
			User: UserInfo{
				ID:       company.ID,
				TenantID: company.ID,
				Role:     identity.RoleCompanyAdmin,
				Name:     company.Name,
				Email:    company.AdminEmail,
			},
			Menus: menus,
		}, nil

	case identity.RoleEmployee:
		employee, err := s.employeeRepo.FindByIDForTenant(ctx, input.TenantID, input.SubjectID)
		if err != nil {
			return nil, shared.ErrNotFound
		}
		permissions, err := s.resolvePermissions(ctx, input.TenantID, employee.RoleID)
		if err != nil {
			s.logger.Error("Failed to resolve employee permissions", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load permissions")
		}
		menus, err := s.permittedMenus(ctx, input.TenantID, permissions)
		if err != nil {
			s.logger.Error("Failed to load menu tree", zap.Error(err))
			menus = nil
		}
		return &CurrentUserResult{
			User: UserInfo{
				ID:          employee.ID,
				TenantID:    employee.TenantID,
				Role:        identity.RoleEmployee,
				Name:        employee.GetDisplayNameOrUsername(),
				Email:       employee.Email,
				Username:    employee.Username,
				RoleID:      employee.RoleID,
				Permissions: permissions,
			},
			Menus: menus,
		}, nil

	default:
		return nil, shared.ErrUnauthorized
	}
}

// ChangePassword lets an employee change their own password. All of the
// employee's existing sessions are revoked afterwards.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, input.TenantID, input.EmployeeID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := employee.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Error("Failed to save employee after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	if err := s.blacklist.AddSubjectTokensToBlacklist(ctx, input.EmployeeID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after password change", zap.Error(err))
	}

	s.logger.Info("Employee changed password", zap.String("employee_id", input.EmployeeID.String()))
	return nil
}

// resolvePermissions returns the flattened permission codes for a role,
// consulting the permission cache first. A nil role yields no permissions.
func (s *AuthService) resolvePermissions(ctx context.Context, tenantID uuid.UUID, roleID *uuid.UUID) ([]string, error) {
	if roleID == nil {
		return []string{}, nil
	}

	if cached, err := s.permCache.Get(ctx, *roleID); err != nil {
		s.logger.Warn("Permission cache lookup failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, *roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	codes := []string{}
	if role.IsEnabled {
		for _, p := range role.Permissions() {
			codes = append(codes, p.Code)
		}
	}

	if err := s.permCache.Set(ctx, *roleID, codes, s.config.PermissionCacheTTL); err != nil {
		s.logger.Warn("Failed to cache role permissions", zap.Error(err))
	}

	return codes, nil
}

// permittedMenus filters the tenant's menu tree down to the entries the
// given permission set can view. A menu with viewable submenus stays
// even when the menu itself is not directly viewable.
func (s *AuthService) permittedMenus(ctx context.Context, tenantID uuid.UUID, permissions []string) ([]*navigation.MenuTree, error) {
	tree, err := s.menuRepo.FindTreeForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		allowed[p] = true
	}
	canView := func(resourceKey string) bool {
		return allowed[resourceKey+":"+identity.ActionView]
	}

	filtered := make([]*navigation.MenuTree, 0, len(tree))
	for _, node := range tree {
		subMenus := make([]*navigation.SidebarSubMenu, 0, len(node.SubMenus))
		for _, sub := range node.SubMenus {
			if canView(sub.ResourceKey) {
				subMenus = append(subMenus, sub)
			}
		}

		if !canView(node.Menu.ResourceKey) && len(subMenus) == 0 {
			continue
		}

		filtered = append(filtered, &navigation.MenuTree{
			Menu:     node.Menu,
			SubMenus: subMenus,
		})
	}

	return filtered, nil
}
