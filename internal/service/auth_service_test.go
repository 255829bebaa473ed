package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"saltscope/internal/config"
	"saltscope/internal/domain"
	"saltscope/internal/service"
	"saltscope/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "saltscope-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	tenant := &domain.Tenant{
		ID:       tenantID,
		Name:     "Acme Advisors",
		Slug:     "acme-advisors",
		IsActive: true,
	}
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "user@acme.com",
		PasswordHash: hashPassword("password123"),
		FullName:     "Test User",
		Role:         domain.RoleMember,
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme-advisors").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenantID, "user@acme.com").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme-advisors",
		Email:      "user@acme.com",
		Password:   "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	tenantRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	tenant := &domain.Tenant{ID: tenantID, Slug: "acme-advisors", IsActive: true}
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "user@acme.com",
		PasswordHash: hashPassword("correct-password"),
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme-advisors").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenantID, "user@acme.com").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme-advisors",
		Email:      "user@acme.com",
		Password:   "wrong-password",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_TenantNotFound(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantRepo.On("GetBySlug", mock.Anything, "nonexistent").Return(nil, domain.ErrNotFound)

	result, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "nonexistent",
		Email:      "user@acme.com",
		Password:   "password123",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveTenant(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenant := &domain.Tenant{ID: uuid.New(), Slug: "dormant", IsActive: false}
	tenantRepo.On("GetBySlug", mock.Anything, "dormant").Return(tenant, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "dormant",
		Email:      "user@acme.com",
		Password:   "password123",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrTenantInactive)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	tenant := &domain.Tenant{ID: tenantID, Slug: "acme-advisors", IsActive: true}
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "user@acme.com",
		PasswordHash: hashPassword("password123"),
		IsActive:     false,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme-advisors").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenantID, "user@acme.com").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme-advisors",
		Email:      "user@acme.com",
		Password:   "password123",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_ValidateToken_RoundTrip(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	userID := uuid.New()
	tenant := &domain.Tenant{ID: tenantID, Slug: "acme-advisors", IsActive: true}
	user := &domain.User{
		ID:           userID,
		TenantID:     tenantID,
		Email:        "admin@acme.com",
		PasswordHash: hashPassword("password123"),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme-advisors").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenantID, "admin@acme.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme-advisors",
		Email:      "admin@acme.com",
		Password:   "password123",
	})
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestAuthService_ValidateToken_RejectsRefreshToken(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	tenant := &domain.Tenant{ID: tenantID, Slug: "acme-advisors", IsActive: true}
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "user@acme.com",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme-advisors").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenantID, "user@acme.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme-advisors",
		Email:      "user@acme.com",
		Password:   "password123",
	})
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(pair.RefreshToken)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	userID := uuid.New()
	tenant := &domain.Tenant{ID: tenantID, Slug: "acme-advisors", IsActive: true}
	user := &domain.User{
		ID:           userID,
		TenantID:     tenantID,
		Email:        "user@acme.com",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme-advisors").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenantID, "user@acme.com").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, tenantID, userID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme-advisors",
		Email:      "user@acme.com",
		Password:   "password123",
	})
	assert.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_RefreshToken_GarbageToken(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	result, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
