package repository

import (
	"context"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
)

// AdminActionRepository is the append-only audit store. There is no update
// or delete on purpose.
type AdminActionRepository interface {
	Append(ctx context.Context, a *entity.AdminAction) error
	ListByTarget(ctx context.Context, targetUserID string) ([]*entity.AdminAction, error)
}
