package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	"github.com/sajhathali/sajhathali-api/internal/domain/repository"
)

type DonationSessionRepository struct {
	pool *pgxpool.Pool
}

func NewDonationSessionRepository(pool *pgxpool.Pool) *DonationSessionRepository {
	return &DonationSessionRepository{pool: pool}
}

func (r *DonationSessionRepository) Create(ctx context.Context, s *entity.DonationSession) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO donation_sessions (ref, donor_id, receiver_id, food_description, quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, s.Ref, s.DonorID, s.ReceiverID, s.FoodDescription, s.Quantity, s.Status)
	return row.Scan(&s.ID, &s.CreatedAt)
}

func (r *DonationSessionRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.DonationSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ref, donor_id, receiver_id, food_description, quantity, status, created_at
		FROM donation_sessions
		WHERE donor_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*entity.DonationSession
	for rows.Next() {
		s := &entity.DonationSession{}
		if err := rows.Scan(&s.ID, &s.Ref, &s.DonorID, &s.ReceiverID,
			&s.FoodDescription, &s.Quantity, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

var _ repository.DonationSessionRepository = (*DonationSessionRepository)(nil)
