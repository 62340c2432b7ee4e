package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/courtstat/internal/auth"
	"github.com/courtside/courtstat/internal/store"
)

// AuthService implements operator registration and login.
type AuthService struct {
	users  UserStore
	tokens *auth.Manager
}

// NewAuthService creates a new auth service.
func NewAuthService(users UserStore, tokens *auth.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// RegisterInput is the payload for creating an operator account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is a signed token with the authenticated user.
type AuthResult struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

// Register creates an account and signs the first token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}

	_, err := s.users.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, Conflict("email %s is already registered", input.Email)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &store.User{
		UserID:       newLocalID("user"),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.UserID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and signs a token. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return nil, Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(user.UserID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
