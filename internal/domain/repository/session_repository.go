package repository

import (
	"context"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
)

// DonationSessionRepository stores donation sessions.
type DonationSessionRepository interface {
	Create(ctx context.Context, s *entity.DonationSession) error
	// ListByParticipant returns sessions where the user is donor or
	// receiver, newest first.
	ListByParticipant(ctx context.Context, userID string) ([]*entity.DonationSession, error)
}
