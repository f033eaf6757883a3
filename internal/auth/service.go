package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort describes persistence used by Service.
type RepositoryPort interface {
	CreateUser(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   RepositoryPort
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register stores a new pending account with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user := User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         RoleUser,
		Status:       StatusPending,
	}
	return s.repo.CreateUser(ctx, user)
}

// Login validates credentials, enforces the approval gate and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}
	switch user.Status {
	case StatusApproved:
	case StatusRejected:
		return "", User{}, ErrAccountRejected
	default:
		return "", User{}, ErrAccountPending
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// ListUsers returns every account, for the approval screen.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// SetStatus approves or rejects an account.
func (s *Service) SetStatus(ctx context.Context, id int64, status Status) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return ErrValidation
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
