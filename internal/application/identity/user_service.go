package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService manages user accounts. Every operation is for administrators.
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	refreshTTL time.Duration
	publisher  shared.EventPublisher
	logger     *zap.Logger

	// serializes NextID and Save so concurrent creates get distinct ids
	createMu sync.Mutex
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	refreshTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for user events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

func requireAdmin(actor identity.Principal) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError(shared.CodeForbidden, "Only administrators can manage users")
	}
	return nil
}

// List returns all users ordered by username
func (s *UserService) List(ctx context.Context, actor identity.Principal) ([]UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out, nil
}

// Create adds a user. An empty role means an ordinary user.
func (s *UserService) Create(ctx context.Context, actor identity.Principal, req CreateUserRequest) (*UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = identity.RoleUser
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	exists, err := s.userRepo.ExistsByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Username already exists: "+req.Username)
	}

	id, err := s.userRepo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(id, req.Username, req.Password, role, req.Department)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, shared.NewPersistenceError("create user", err)
	}
	s.publish(ctx, user.GetDomainEvents()...)
	user.ClearDomainEvents()

	s.logger.Info("User created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("department", user.Department),
		zap.String("by", actor.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password for username and ends that user's sessions
func (s *UserService) ResetPassword(ctx context.Context, actor identity.Principal, username string, req ResetPasswordRequest) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	user, err := s.userRepo.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewPersistenceError("save user", err)
	}
	s.revokeSessions(ctx, user.Username)
	s.publish(ctx, user.GetDomainEvents()...)
	user.ClearDomainEvents()

	s.logger.Info("Password reset", zap.String("username", user.Username), zap.String("by", actor.Username))
	return nil
}

// Delete removes username. Administrators cannot delete themselves, and the
// last administrator cannot be deleted.
func (s *UserService) Delete(ctx context.Context, actor identity.Principal, username string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	username = strings.ToLower(username)
	if username == actor.Username {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot delete your own account")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return shared.NewDomainError(shared.CodeInvalidState, "Cannot delete the last administrator")
		}
	}

	if err := s.userRepo.Delete(ctx, username); err != nil {
		return shared.NewPersistenceError("delete user", err)
	}
	s.revokeSessions(ctx, username)
	s.publish(ctx, identity.NewUserDeletedEvent(user, actor.Username))

	s.logger.Info("User deleted", zap.String("username", username), zap.String("by", actor.Username))
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, username string) {
	if err := s.blacklist.RevokeUser(ctx, username, s.refreshTTL); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("username", username), zap.Error(err))
	}
}

func (s *UserService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}
