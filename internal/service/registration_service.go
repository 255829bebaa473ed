package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"saltscope/internal/domain"
	"saltscope/internal/port"
)

// RegisterInput is the DTO for firm self-registration.
type RegisterInput struct {
	FirmName string `json:"firm_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// RegisterOutput contains the results of a successful registration.
type RegisterOutput struct {
	Tenant *domain.Tenant `json:"tenant"`
	User   *domain.User   `json:"user"`
	Tokens *TokenPair     `json:"tokens"`
}

// RegistrationService defines the self-registration contract. Each registered
// firm gets its own tenant with the registrant as admin.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
}

type registrationService struct {
	tenantRepo port.TenantRepository
	userRepo   port.UserRepository
	authSvc    AuthService
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	tenantRepo port.TenantRepository,
	userRepo port.UserRepository,
	authSvc AuthService,
) RegistrationService {
	return &registrationService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		authSvc:    authSvc,
	}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe tenant slug from a firm name.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	slug := slugify(input.FirmName)
	if slug == "" {
		return nil, fmt.Errorf("registration.Register: firm name %q yields empty slug", input.FirmName)
	}

	// Disambiguate when the slug is taken
	if _, err := s.tenantRepo.GetBySlug(ctx, slug); err == nil {
		slug = slug + "-" + uuid.New().String()[:8]
	}

	tenant := &domain.Tenant{
		ID:       uuid.New(),
		Name:     input.FirmName,
		Slug:     slug,
		IsActive: true,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("creating tenant: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.authSvc.Login(ctx, LoginInput{
		TenantSlug: tenant.Slug,
		Email:      input.Email,
		Password:   input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	return &RegisterOutput{
		Tenant: tenant,
		User:   user,
		Tokens: tokens,
	}, nil
}
