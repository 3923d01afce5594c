package ports

import (
	"context"

	"github.com/cmcs/claims-api/internal/core/domain"
)

// RegisterInput carries a new account registration. FullName is required
// for lecturer accounts, where it seeds the lecturer reference record.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     string
	FullName string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
