package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Authentication error codes
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
)

// AuthService handles sign-in, token refresh and revocation
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	refreshTTL time.Duration
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	refreshTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for user events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Login for unknown user", zap.String("username", username))
		return nil, shared.NewDomainError(CodeInvalidCredentials, "Invalid username or password")
	}
	if err != nil {
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", username))
		return nil, shared.NewDomainError(CodeInvalidCredentials, "Invalid username or password")
	}

	pair, err := s.jwtService.GenerateTokenPair(user.Principal())
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// The login itself succeeded; only the timestamp is lost
		s.logger.Error("Failed to record login", zap.String("username", username), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("department", user.Department))
	return tokenResponse(pair, user), nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked, and the new access token reflects the user's current role and department.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, claims.Username)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError(CodeTokenInvalid, "User no longer exists")
	}
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(claims, user.Principal())
	if err != nil {
		s.logger.Warn("Token refresh refused", zap.String("username", user.Username), zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, shared.NewPersistenceError("revoke refresh token", err)
	}

	s.logger.Info("Token refreshed", zap.String("username", user.Username))
	return tokenResponse(pair, user), nil
}

// Authenticate validates an access token and returns its claims.
// Revoked tokens and tokens issued before a password change are refused.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return shared.NewPersistenceError("check token blacklist", err)
	}
	if !revoked && claims.IssuedAt != nil {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.Username, claims.IssuedAt.Time)
		if err != nil {
			return shared.NewPersistenceError("check user revocation", err)
		}
	}
	if revoked {
		return shared.NewDomainError(CodeTokenRevoked, "Token has been revoked")
	}
	return nil
}

// Logout revokes the caller's access token and, when given, the refresh token
// of the same user
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if err := s.blacklist.Revoke(ctx, access.ID, access.GetRemainingTTL()); err != nil {
		return shared.NewPersistenceError("revoke access token", err)
	}

	if req.RefreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err == nil && refresh.Username == access.Username {
			if err := s.blacklist.Revoke(ctx, refresh.ID, refresh.GetRemainingTTL()); err != nil {
				return shared.NewPersistenceError("revoke refresh token", err)
			}
		}
	}

	s.logger.Info("User logged out", zap.String("username", access.Username))
	return nil
}

// Me returns the stored profile of the caller
func (s *AuthService) Me(ctx context.Context, actor identity.Principal) (*UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, actor.Username)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword changes the caller's password and ends every other session
func (s *AuthService) ChangePassword(ctx context.Context, actor identity.Principal, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByUsername(ctx, actor.Username)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewPersistenceError("save user", err)
	}
	if err := s.blacklist.RevokeUser(ctx, user.Username, s.refreshTTL); err != nil {
		s.logger.Error("Failed to revoke sessions after password change", zap.String("username", user.Username), zap.Error(err))
	}
	s.publish(ctx, user)

	s.logger.Info("Password changed", zap.String("username", user.Username))
	return nil
}

// EnsureDefaultAdmin creates the bootstrap administrator in the storage
// department when no administrator exists
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists,
			"No administrator exists and the bootstrap username is taken: "+username)
	}

	id, err := s.userRepo.NextID(ctx)
	if err != nil {
		return err
	}
	admin, err := identity.NewUser(id, username, password, identity.RoleAdmin, plan.DepartmentStorage)
	if err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return shared.NewPersistenceError("create bootstrap admin", err)
	}
	s.publish(ctx, admin)

	s.logger.Warn("Bootstrap administrator created; change its password",
		zap.String("username", admin.Username))
	return nil
}

func (s *AuthService) publish(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.publisher != nil && len(events) > 0 {
		_ = s.publisher.Publish(ctx, events...)
	}
}

func tokenResponse(pair *auth.TokenPair, user *identity.User) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}
}

// tokenError maps token validation errors to domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(CodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(CodeTokenMaxRefresh, "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError(CodeTokenInvalid, "Invalid token")
	}
}
