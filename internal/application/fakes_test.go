package application

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
)

// In-memory repository doubles. They mirror the conditional-write semantics
// of the Postgres implementations so the services can be tested without a
// database.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User

	failUpdateStatus error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	f.seq++
	u.ID = "user-" + strconv.Itoa(f.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetAuthView(ctx context.Context, id string) (*entity.AuthUser, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.AuthUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Status:    u.Status,
	}, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		cp.Password = ""
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id string, expect, next entity.Status, approvedAt *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateStatus != nil {
		return false, f.failUpdateStatus
	}
	u, ok := f.users[id]
	if !ok || u.Status != expect {
		return false, nil
	}
	u.Status = next
	u.ApprovedAt = approvedAt
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cp := *u
	cp.Password = existing.Password
	cp.UpdatedAt = time.Now().UTC()
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) HasSuperadmin(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Role == entity.RoleSuperadmin {
			return true, nil
		}
	}
	return false, nil
}

// put stores a user directly, bypassing Create's duplicate check.
func (f *fakeUserRepo) put(u *entity.User) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		f.seq++
		u.ID = "user-" + strconv.Itoa(f.seq)
	}
	cp := *u
	f.users[u.ID] = &cp
	return u
}

type fakeActionRepo struct {
	mu      sync.Mutex
	seq     int
	actions []*entity.AdminAction

	failAppend error
}

func (f *fakeActionRepo) Append(_ context.Context, a *entity.AdminAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend != nil {
		return f.failAppend
	}
	f.seq++
	a.ID = "action-" + strconv.Itoa(f.seq)
	a.CreatedAt = time.Now().UTC()
	cp := *a
	f.actions = append(f.actions, &cp)
	return nil
}

func (f *fakeActionRepo) ListByTarget(_ context.Context, targetUserID string) ([]*entity.AdminAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.AdminAction
	for _, a := range f.actions {
		if a.TargetUserID == targetUserID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	seq      int
	sessions []*entity.DonationSession
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.DonationSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s.ID = "session-" + strconv.Itoa(f.seq)
	s.CreatedAt = time.Now().UTC()
	cp := *s
	f.sessions = append(f.sessions, &cp)
	return nil
}

func (f *fakeSessionRepo) ListByParticipant(_ context.Context, userID string) ([]*entity.DonationSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DonationSession
	for i := len(f.sessions) - 1; i >= 0; i-- {
		s := f.sessions[i]
		if s.DonorID == userID || s.ReceiverID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type sentMail struct {
	Template string
	To       string
	Data     map[string]any
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeNotifier) Send(_ context.Context, template, to string, data map[string]any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false
	}
	f.sent = append(f.sent, sentMail{Template: template, To: to, Data: data})
	return true
}

func (f *fakeNotifier) sentTo(to string) []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMail
	for _, s := range f.sent {
		if s.To == to {
			out = append(out, s)
		}
	}
	return out
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []entity.User
	err     error
}

func (f *fakeIndexer) IndexUser(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, *u)
	return nil
}
