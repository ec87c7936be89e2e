package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inkwell/internal/model"
	"inkwell/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Deliberately a single error for both cases so login failures stay
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already in use")
)

// AuthService handles registration and credential checks.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
}

type authService struct {
	users repository.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

// Register creates a new user with a hashed password. The plaintext is
// discarded after hashing.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user := &model.User{
		Name:  name,
		Email: email,
		Role:  model.RoleUser,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login returns the user when the email/password pair matches.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
