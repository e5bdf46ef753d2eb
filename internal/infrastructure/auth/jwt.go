package auth

import (
	"errors"
	"time"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingSubjectID = errors.New("missing subject_id in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims represents custom JWT claims. Role carries the login variant
// (super_admin, company_admin or employee); tenant_id is empty only for
// super admins.
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string    `json:"tenant_id,omitempty"`
	SubjectID   string    `json:"subject_id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions,omitempty"`
	TokenType   TokenType `json:"token_type"`
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// JWTService handles JWT token operations
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := []byte(cfg.RefreshSecret)
	if cfg.RefreshSecret == "" {
		refreshSecret = []byte(cfg.Secret)
	}

	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     refreshSecret,
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
	}
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	TenantID    uuid.UUID // uuid.Nil for super admins
	SubjectID   uuid.UUID
	Name        string
	Role        identity.RoleKind
	Permissions []string
}

// GenerateTokenPair generates both access and refresh tokens
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	now := time.Now()

	tenantID := ""
	if input.TenantID != uuid.Nil {
		tenantID = input.TenantID.String()
	}

	accessClaims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.SubjectID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID:    tenantID,
		SubjectID:   input.SubjectID.String(),
		Name:        input.Name,
		Role:        string(input.Role),
		Permissions: input.Permissions,
		TokenType:   TokenTypeAccess,
	}

	accessToken, err := s.generateToken(accessClaims, s.accessSecret)
	if err != nil {
		return nil, err
	}

	// Refresh token carries minimal claims
	refreshClaims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.SubjectID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID:  tenantID,
		SubjectID: input.SubjectID.String(),
		Role:      string(input.Role),
		TokenType: TokenTypeRefresh,
	}

	refreshToken, err := s.generateToken(refreshClaims, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

// generateToken creates a signed JWT token
func (s *JWTService) generateToken(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, s.refreshSecret, TokenTypeRefresh)
}

// validateToken validates a JWT token
func (s *JWTService) validateToken(tokenString string, secret []byte, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}

	if !identity.RoleKind(claims.Role).IsValid() {
		return nil, ErrInvalidClaims
	}

	if claims.SubjectID == "" {
		return nil, ErrMissingSubjectID
	}

	// Only super admins operate without a tenant
	if claims.TenantID == "" && claims.Role != string(identity.RoleSuperAdmin) {
		return nil, ErrMissingTenantID
	}

	return claims, nil
}

// RefreshTokenPair refreshes tokens using a valid refresh token. Permissions
// are re-resolved by the caller so role changes take effect on refresh.
func (s *JWTService) RefreshTokenPair(refreshToken string, name string, permissions []string) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	subjectID, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		return nil, ErrInvalidClaims
	}

	tenantID := uuid.Nil
	if claims.TenantID != "" {
		tenantID, err = uuid.Parse(claims.TenantID)
		if err != nil {
			return nil, ErrInvalidClaims
		}
	}

	return s.GenerateTokenPair(GenerateTokenInput{
		TenantID:    tenantID,
		SubjectID:   subjectID,
		Name:        name,
		Role:        identity.RoleKind(claims.Role),
		Permissions: permissions,
	})
}

// GetTenantUUID extracts and parses the tenant ID from claims.
// Returns uuid.Nil without error for super admin claims.
func (c *Claims) GetTenantUUID() (uuid.UUID, error) {
	if c.TenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(c.TenantID)
}

// GetSubjectUUID extracts and parses the subject ID from claims
func (c *Claims) GetSubjectUUID() (uuid.UUID, error) {
	return uuid.Parse(c.SubjectID)
}

// RoleKind returns the role claim as a typed RoleKind
func (c *Claims) RoleKind() identity.RoleKind {
	return identity.RoleKind(c.Role)
}

// Principal reconstructs the authenticated principal from the claims
func (c *Claims) Principal() (identity.Principal, error) {
	subjectID, err := c.GetSubjectUUID()
	if err != nil {
		return nil, ErrInvalidClaims
	}

	switch identity.RoleKind(c.Role) {
	case identity.RoleSuperAdmin:
		return identity.SuperAdminPrincipal{AdminID: subjectID}, nil
	case identity.RoleCompanyAdmin:
		tenantID, err := c.GetTenantUUID()
		if err != nil {
			return nil, ErrInvalidClaims
		}
		return identity.CompanyAdminPrincipal{CompanyID: tenantID}, nil
	case identity.RoleEmployee:
		tenantID, err := c.GetTenantUUID()
		if err != nil {
			return nil, ErrInvalidClaims
		}
		return identity.EmployeePrincipal{EmployeeID: subjectID, CompanyID: tenantID}, nil
	default:
		return nil, ErrInvalidClaims
	}
}

// HasPermission checks if the claims contain a specific permission
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if the claims contain any of the specified permissions
func (c *Claims) HasAnyPermission(permissions ...string) bool {
	for _, required := range permissions {
		if c.HasPermission(required) {
			return true
		}
	}
	return false
}

// GetIssuedAtTime returns the token's issued-at time as time.Time
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetAccessTokenExpiration returns the access token expiration duration
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

// GetRefreshTokenExpiration returns the refresh token expiration duration
func (s *JWTService) GetRefreshTokenExpiration() time.Duration {
	return s.refreshExpiration
}
