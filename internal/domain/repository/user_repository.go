package repository

import (
	"context"
	"errors"

	"github.com/erpmodern/auth-service/internal/domain/entity"
)

// ErrNotFound is returned when no user matches the lookup. Any other
// error from an implementation means the store itself was unavailable and
// must be surfaced to callers as an opaque internal failure.
var ErrNotFound = errors.New("user not found")

// UserRepository is the credential store contract.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
}
