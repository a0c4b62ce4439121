package users

import (
	"context"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListByTenant(ctx context.Context, tenantID int64) ([]User, error)
	Create(ctx context.Context, tenantID int64, in CreateInput, passwordHash string) (User, error)
	SetActive(ctx context.Context, tenantID, id int64, active bool) (User, error)
}

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List returns all users of the tenant.
func (s *Service) List(ctx context.Context, tenantID int64) ([]User, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// Create validates the input, hashes the password, and stores the user.
func (s *Service) Create(ctx context.Context, tenantID int64, in CreateInput) (User, error) {
	if err := s.validate.Struct(in); err != nil {
		return User{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, tenantID, in, string(hashed))
}

// Deactivate disables a user account.
func (s *Service) Deactivate(ctx context.Context, tenantID, id int64) (User, error) {
	return s.repo.SetActive(ctx, tenantID, id, false)
}

// Activate re-enables a user account.
func (s *Service) Activate(ctx context.Context, tenantID, id int64) (User, error) {
	return s.repo.SetActive(ctx, tenantID, id, true)
}
