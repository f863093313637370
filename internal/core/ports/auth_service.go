package ports

import (
	"context"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
	IP       string
}

// LoginInput is the DTO passed to AuthService.Login.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	AccessToken string
	TokenType   string
	Role        domain.Role
	UserID      string
}

// AuthService orchestrates registration, login and identity lookups.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Me(ctx context.Context, principal domain.Principal) (*domain.Account, error)
}
