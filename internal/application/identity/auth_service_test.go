package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/auth"
	"github.com/labstock/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) NextID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

var _ identity.UserRepository = (*MockUserRepository)(nil)

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        3,
	})
}

func createTestUser(t *testing.T, username string, role identity.Role, department string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(1, username, "secret1", role, department)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

// Helper function to create auth service
func createAuthService(userRepo *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(userRepo, testJWTService(), blacklist, 7*24*time.Hour, zap.NewNop()), blacklist
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)

	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	authService, _ := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginRequest{Username: " Ivanov ", Password: "secret1"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "ivanov", result.User.Username)
	assert.Equal(t, plan.DepartmentWater, result.User.Department)
	assert.NotNil(t, user.LastLoginAt)

	claims, err := authService.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Principal(), claims.Principal())

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)

	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)

	authService, _ := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginRequest{Username: "ivanov", Password: "wrongpassword"})

	require.Error(t, err)
	assert.Nil(t, result)
	requireCode(t, err, CodeInvalidCredentials)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("FindByUsername", ctx, "nonexistent").Return(nil, shared.ErrNotFound)

	authService, _ := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginRequest{Username: "nonexistent", Password: "secret1"})

	assert.Nil(t, result)
	requireCode(t, err, CodeInvalidCredentials)
}

func TestAuthService_Login_StorageFailure(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("FindByUsername", ctx, "ivanov").
		Return(nil, shared.NewPersistenceError("find user", errors.New("connection refused")))

	authService, _ := createAuthService(userRepo)

	_, err := authService.Login(ctx, LoginRequest{Username: "ivanov", Password: "secret1"})

	require.Error(t, err)
	assert.True(t, shared.IsPersistenceError(err))
}

func TestAuthService_Login_LoginTimestampFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)

	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(errors.New("disk full"))

	authService, _ := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginRequest{Username: "ivanov", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)

	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	authService, _ := createAuthService(userRepo)
	login, err := authService.Login(ctx, LoginRequest{Username: "ivanov", Password: "secret1"})
	require.NoError(t, err)

	// the department changed after login; the refreshed token must carry it
	user.Department = plan.DepartmentAir

	refreshed, err := authService.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	claims, err := authService.Authenticate(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, plan.DepartmentAir, claims.Department)

	t.Run("old refresh token cannot be reused", func(t *testing.T) {
		_, err := authService.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		requireCode(t, err, CodeTokenRevoked)
	})
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	authService, _ := createAuthService(new(MockUserRepository))

	_, err := authService.Refresh(context.Background(), RefreshRequest{RefreshToken: "invalid-token"})
	requireCode(t, err, CodeTokenInvalid)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)
	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	authService, _ := createAuthService(userRepo)
	login, err := authService.Login(ctx, LoginRequest{Username: "ivanov", Password: "secret1"})
	require.NoError(t, err)

	_, err = authService.Refresh(ctx, RefreshRequest{RefreshToken: login.AccessToken})
	requireCode(t, err, CodeTokenInvalid)
}

func TestAuthService_Refresh_UserNotFound(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)
	pair, err := testJWTService().GenerateTokenPair(user.Principal())
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByUsername", ctx, "ivanov").Return(nil, shared.ErrNotFound)

	authService, _ := createAuthService(userRepo)

	_, err = authService.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	requireCode(t, err, CodeTokenInvalid)
}

func TestAuthService_Refresh_MaxRefreshCount(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)
	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	authService, _ := createAuthService(userRepo)
	tokens, err := authService.Login(ctx, LoginRequest{Username: "ivanov", Password: "secret1"})
	require.NoError(t, err)

	for range 3 {
		tokens, err = authService.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})
		require.NoError(t, err)
	}

	_, err = authService.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})
	requireCode(t, err, CodeTokenMaxRefresh)
}

func TestAuthService_Logout_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)
	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	authService, _ := createAuthService(userRepo)
	login, err := authService.Login(ctx, LoginRequest{Username: "ivanov", Password: "secret1"})
	require.NoError(t, err)

	claims, err := authService.Authenticate(ctx, login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, claims, LogoutRequest{RefreshToken: login.RefreshToken}))

	_, err = authService.Authenticate(ctx, login.AccessToken)
	requireCode(t, err, CodeTokenRevoked)

	_, err = authService.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	requireCode(t, err, CodeTokenRevoked)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)
	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)

	authService, _ := createAuthService(userRepo)

	me, err := authService.Me(ctx, user.Principal())
	require.NoError(t, err)
	assert.Equal(t, "ivanov", me.Username)
	assert.Equal(t, identity.RoleUser, me.Role)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)
	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	authService, blacklist := createAuthService(userRepo)
	publisher := &recordingPublisher{}
	authService.SetEventPublisher(publisher)

	err := authService.ChangePassword(ctx, user.Principal(), ChangePasswordRequest{
		OldPassword: "secret1",
		NewPassword: "secret2",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("secret2"))
	assert.Equal(t, []string{identity.EventTypeUserPasswordChanged}, publisher.types())

	revoked, err := blacklist.IsUserRevoked(ctx, "ivanov", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked, "sessions issued before the change must be revoked")
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "ivanov", identity.RoleUser, plan.DepartmentWater)
	userRepo.On("FindByUsername", ctx, "ivanov").Return(user, nil)

	authService, _ := createAuthService(userRepo)

	err := authService.ChangePassword(ctx, user.Principal(), ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "secret2",
	})
	requireCode(t, err, "INVALID_PASSWORD")
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_EnsureDefaultAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin when none exists", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(0), nil)
		userRepo.On("ExistsByUsername", ctx, "admin").Return(false, nil)
		userRepo.On("NextID", ctx).Return(int64(5), nil)
		userRepo.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.ID == 5 && u.IsAdmin() && u.Department == plan.DepartmentStorage && u.VerifyPassword("admin")
		})).Return(nil)

		authService, _ := createAuthService(userRepo)
		publisher := &recordingPublisher{}
		authService.SetEventPublisher(publisher)

		require.NoError(t, authService.EnsureDefaultAdmin(ctx, "admin", "admin"))
		assert.Equal(t, []string{identity.EventTypeUserCreated}, publisher.types())
		userRepo.AssertExpectations(t)
	})

	t.Run("does nothing when an admin exists", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(1), nil)

		authService, _ := createAuthService(userRepo)

		require.NoError(t, authService.EnsureDefaultAdmin(ctx, "admin", "admin"))
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when the username belongs to a non-admin", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(0), nil)
		userRepo.On("ExistsByUsername", ctx, "admin").Return(true, nil)

		authService, _ := createAuthService(userRepo)

		err := authService.EnsureDefaultAdmin(ctx, "admin", "admin")
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}
