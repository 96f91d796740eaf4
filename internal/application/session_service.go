package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	"github.com/sajhathali/sajhathali-api/pkg/mailer/templates"
)

// SessionService starts donation sessions between approved donors and
// approved receivers and notifies both parties. There is no further
// session workflow yet.
type SessionService struct {
	Sessions repo.DonationSessionRepository
	Users    repo.UserRepository
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewSessionService(sessions repo.DonationSessionRepository, users repo.UserRepository, notifier Notifier, logger *logrus.Logger) *SessionService {
	return &SessionService{Sessions: sessions, Users: users, Notifier: notifier, Logger: logger}
}

type StartSessionInput struct {
	ReceiverID      string
	FoodDescription string
	Quantity        string
}

// Start creates an ACTIVE session owned by the calling donor. The caller is
// already gated as an APPROVED DONOR; the receiver side is validated here.
func (s *SessionService) Start(ctx context.Context, donorID string, in StartSessionInput) (*entity.DonationSession, error) {
	donor, err := s.Users.GetByID(ctx, donorID)
	if err != nil || donor == nil {
		return nil, ErrUserNotFound
	}
	receiver, err := s.Users.GetByID(ctx, in.ReceiverID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if receiver.Role != entity.RoleReceiver || receiver.Status != entity.StatusApproved {
		return nil, ErrReceiverNotEligible
	}

	session := &entity.DonationSession{
		Ref:             entity.NewSessionRef(time.Now().UTC()),
		DonorID:         donor.ID,
		ReceiverID:      receiver.ID,
		FoodDescription: in.FoodDescription,
		Quantity:        in.Quantity,
		Status:          entity.SessionActive,
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.notifyParties(ctx, session, donor, receiver)
	return session, nil
}

func (s *SessionService) notifyParties(ctx context.Context, session *entity.DonationSession, donor, receiver *entity.User) {
	if s.Notifier == nil {
		return
	}
	data := map[string]any{
		"SessionRef":      session.Ref,
		"DonorName":       donor.FullName(),
		"DonorEmail":      donor.Email,
		"DonorPhone":      donor.PhoneNumber,
		"ReceiverName":    receiver.FullName(),
		"ReceiverEmail":   receiver.Email,
		"ReceiverPhone":   receiver.PhoneNumber,
		"FoodDescription": session.FoodDescription,
		"Quantity":        session.Quantity,
	}
	if !s.Notifier.Send(ctx, templates.SessionStartedDonor, donor.Email, data) && s.Logger != nil {
		s.Logger.WithField("session", session.Ref).Warn("donor session notification not sent")
	}
	if !s.Notifier.Send(ctx, templates.SessionStartedReceiver, receiver.Email, data) && s.Logger != nil {
		s.Logger.WithField("session", session.Ref).Warn("receiver session notification not sent")
	}
}

// ListForUser returns the sessions the user participates in, newest first.
func (s *SessionService) ListForUser(ctx context.Context, userID string) ([]*entity.DonationSession, error) {
	return s.Sessions.ListByParticipant(ctx, userID)
}
