package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	"github.com/sajhathali/sajhathali-api/pkg/helpers"
)

// AccountService covers registration, credential checks, token issuance,
// and profile maintenance. GCS and Elasticsearch are optional; everything
// nil-guards them so local development runs without either.
type AccountService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Logger       *logrus.Logger
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewAccountService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AccountService {
	return &AccountService{Repo: r, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Role          string
	PhoneNumber   string
	AadhaarNumber string
	Address       string
	City          string
	State         string
	Pincode       string
	Latitude      *float64
	Longitude     *float64
}

// Register creates a PENDING account. Role is fixed here forever; only the
// self-registrable roles are accepted.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role, ok := entity.ParseRole(in.Role)
	if !ok || !role.IsRegistrable() {
		return nil, ErrInvalidRole
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Password:      hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PhoneNumber:   in.PhoneNumber,
		AadhaarNumber: in.AadhaarNumber,
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		Pincode:       in.Pincode,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Role:          role,
		Status:        entity.StatusPending,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	_ = s.IndexUser(ctx, u)
	return u, nil
}

// EnsureSuperadmin creates the bootstrap SUPERADMIN account when none
// exists yet, whatever email an earlier bootstrap used. The account is born
// APPROVED; no registration path can mint this role. Reports whether a row
// was created.
func (s *AccountService) EnsureSuperadmin(ctx context.Context, email, password string) (*entity.User, bool, error) {
	exists, err := s.Repo.HasSuperadmin(ctx)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	u := &entity.User{
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Password:   hash,
		FirstName:  "Super",
		LastName:   "Admin",
		Role:       entity.RoleSuperadmin,
		Status:     entity.StatusApproved,
		ApprovedAt: &now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Authenticate validates email/password and returns the user without
// issuing a token.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a session token. Blocked accounts are
// refused outright; everyone else gets a token carrying their status at
// issuance, which the session resolver re-checks per request.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if u.Status == entity.StatusBlocked {
		return nil, "", time.Time{}, ErrAccountBlocked
	}
	token, exp, err := s.JWT.Generate(&entity.AuthUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Status:    u.Status,
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	PhoneNumber *string
	Address     *string
	City        *string
	State       *string
	Pincode     *string
	Latitude    *float64
	Longitude   *float64
}

// UpdateProfile applies partial updates to the mutable contact fields.
// Email, role, and status are not touched here.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.City != nil {
		u.City = *in.City
	}
	if in.State != nil {
		u.State = *in.State
	}
	if in.Pincode != nil {
		u.Pincode = *in.Pincode
	}
	if in.Latitude != nil {
		u.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		u.Longitude = in.Longitude
	}
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	_ = s.IndexUser(ctx, u)
	return u, nil
}

// UploadAvatar streams an image to GCS and stores the public URL.
func (s *AccountService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("storage not configured")
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		return "", err
	}
	_ = s.IndexUser(ctx, u)
	return url, nil
}

// IndexUser upserts the user's search document. Best-effort: the search
// index is a projection of the directory, never the other way round, so
// failures are logged and swallowed.
func (s *AccountService) IndexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"city":       u.City,
		"role":       string(u.Role),
		"status":     string(u.Status),
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a multi_match search on email and names.
func (s *AccountService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "first_name", "last_name", "city"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
