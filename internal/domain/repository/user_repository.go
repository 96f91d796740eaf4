package repository

import (
	"context"
	"time"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetAuthView fetches the minimal projection the session resolver needs.
	GetAuthView(ctx context.Context, id string) (*entity.AuthUser, error)
	// List returns all users, newest first, without password hashes.
	List(ctx context.Context) ([]*entity.User, error)
	// UpdateStatus performs a conditional status write: the row is updated
	// only if its current status equals expect. It reports whether a row was
	// updated, which is how concurrent transitions lose the race safely.
	UpdateStatus(ctx context.Context, id string, expect, next entity.Status, approvedAt *time.Time) (bool, error)
	// UpdateProfile persists the mutable profile fields of u.
	UpdateProfile(ctx context.Context, u *entity.User) error
	// HasSuperadmin reports whether any SUPERADMIN account exists.
	HasSuperadmin(ctx context.Context) (bool, error)
}
