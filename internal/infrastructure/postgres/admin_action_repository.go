package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	"github.com/sajhathali/sajhathali-api/internal/domain/repository"
)

type AdminActionRepository struct {
	pool *pgxpool.Pool
}

func NewAdminActionRepository(pool *pgxpool.Pool) *AdminActionRepository {
	return &AdminActionRepository{pool: pool}
}

func (r *AdminActionRepository) Append(ctx context.Context, a *entity.AdminAction) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO admin_actions (admin_id, target_user_id, action, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, a.AdminID, a.TargetUserID, a.Action, a.Details)
	return row.Scan(&a.ID, &a.CreatedAt)
}

func (r *AdminActionRepository) ListByTarget(ctx context.Context, targetUserID string) ([]*entity.AdminAction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, admin_id, target_user_id, action, details, created_at
		FROM admin_actions
		WHERE target_user_id = $1
		ORDER BY created_at DESC
	`, targetUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*entity.AdminAction
	for rows.Next() {
		a := &entity.AdminAction{}
		if err := rows.Scan(&a.ID, &a.AdminID, &a.TargetUserID, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

var _ repository.AdminActionRepository = (*AdminActionRepository)(nil)
