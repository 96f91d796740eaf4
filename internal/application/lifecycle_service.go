package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	"github.com/sajhathali/sajhathali-api/pkg/mailer/templates"
)

// LifecycleAction is a closed enumeration of the admin actions.
type LifecycleAction string

const (
	ActionApprove LifecycleAction = "approve"
	ActionReject  LifecycleAction = "reject"
	ActionBlock   LifecycleAction = "block"
	ActionEnable  LifecycleAction = "enable"
)

func ParseLifecycleAction(s string) (LifecycleAction, bool) {
	switch LifecycleAction(strings.ToLower(s)) {
	case ActionApprove, ActionReject, ActionBlock, ActionEnable:
		return LifecycleAction(strings.ToLower(s)), true
	}
	return "", false
}

// transition is one row of the fixed table: what the status must be, what
// it becomes, whether an approval timestamp is set (actions that don't
// approve clear it), and which template (if any) announces it.
type transition struct {
	expect   entity.Status
	next     entity.Status
	approves bool
	template string
}

func (a LifecycleAction) transition() (transition, bool) {
	switch a {
	case ActionApprove:
		return transition{expect: entity.StatusPending, next: entity.StatusApproved, approves: true, template: templates.WelcomeApproved}, true
	case ActionReject:
		return transition{expect: entity.StatusPending, next: entity.StatusRejected}, true
	case ActionBlock:
		return transition{expect: entity.StatusApproved, next: entity.StatusBlocked, template: templates.AccountBlocked}, true
	case ActionEnable:
		return transition{expect: entity.StatusBlocked, next: entity.StatusApproved, approves: true, template: templates.WelcomeApproved}, true
	}
	return transition{}, false
}

// UserIndexer keeps the search index in step with the directory. Satisfied
// by AccountService.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}

// LifecycleService applies admin-triggered status transitions. It performs
// no authorization of its own: callers must already have passed the
// SUPERADMIN gate.
type LifecycleService struct {
	Users    repo.UserRepository
	Actions  repo.AdminActionRepository
	Notifier Notifier
	Logger   *logrus.Logger
	Index    UserIndexer // optional, best-effort
}

func NewLifecycleService(users repo.UserRepository, actions repo.AdminActionRepository, notifier Notifier, logger *logrus.Logger) *LifecycleService {
	return &LifecycleService{Users: users, Actions: actions, Notifier: notifier, Logger: logger}
}

// Apply runs one transition. The status write is a compare-and-swap against
// the precondition, so a concurrent transition on the same user loses
// cleanly with ErrInvalidTransition instead of double-applying. On success
// exactly one audit row is appended and the notification (when the action
// has one) is fired without being awaited.
func (s *LifecycleService) Apply(ctx context.Context, adminID, targetID string, action LifecycleAction) (*entity.User, error) {
	t, ok := action.transition()
	if !ok {
		return nil, ErrInvalidAction
	}

	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil || target == nil {
		return nil, ErrUserNotFound
	}
	if target.Role == entity.RoleSuperadmin {
		return nil, ErrSuperadminProtected
	}

	var approvedAt *time.Time
	if t.approves {
		now := time.Now().UTC()
		approvedAt = &now
	}
	updated, err := s.Users.UpdateStatus(ctx, target.ID, t.expect, t.next, approvedAt)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Precondition no longer holds: either it never did, or a
		// concurrent action won the race.
		return nil, ErrInvalidTransition
	}

	audit := &entity.AdminAction{
		AdminID:      adminID,
		TargetUserID: target.ID,
		Action:       strings.ToUpper(string(action)),
		Details:      fmt.Sprintf("Changed user status from %s to %s", target.Status, t.next),
	}
	if err := s.Actions.Append(ctx, audit); err != nil {
		// The status change has already committed and is not rolled back,
		// but an unrecorded admin action is an error the caller must see.
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"admin_id": adminID,
				"target":   target.ID,
				"action":   audit.Action,
			}).Error("audit append failed")
		}
		return nil, err
	}

	if t.template != "" && s.Notifier != nil {
		data := map[string]any{
			"Name":     target.FullName(),
			"RoleText": roleText(target.Role),
			"IsDonor":  target.Role == entity.RoleDonor,
		}
		if !s.Notifier.Send(ctx, t.template, target.Email, data) && s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{
				"template": t.template,
				"target":   target.ID,
			}).Warn("lifecycle notification not sent")
		}
	}

	target.Status = t.next
	target.ApprovedAt = approvedAt

	if s.Index != nil {
		// Keep the search projection current; index trouble never undoes
		// the transition.
		_ = s.Index.IndexUser(ctx, target)
	}
	return target, nil
}

func roleText(r entity.Role) string {
	switch r {
	case entity.RoleDonor:
		return "Food Donor"
	case entity.RoleReceiver:
		return "Food Receiver"
	case entity.RoleSuperadmin:
		return "Administrator"
	}
	return string(r)
}
