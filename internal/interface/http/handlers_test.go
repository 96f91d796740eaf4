package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajhathali/sajhathali-api/internal/application"
	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	"github.com/sajhathali/sajhathali-api/internal/interface/middleware"
	"github.com/sajhathali/sajhathali-api/pkg/helpers"
	"github.com/sajhathali/sajhathali-api/pkg/validation"
)

// In-memory stores backing the handler tests. Same conditional-write
// semantics as the Postgres repositories.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	m.seq++
	u.ID = "00000000-0000-0000-0000-" + strconv.Itoa(100000000000+m.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetAuthView(ctx context.Context, id string) (*entity.AuthUser, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.AuthUser{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role, Status: u.Status}, nil
}

func (m *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		cp.Password = ""
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memUserRepo) UpdateStatus(_ context.Context, id string, expect, next entity.Status, approvedAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Status != expect {
		return false, nil
	}
	u.Status = next
	u.ApprovedAt = approvedAt
	return true, nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cp := *u
	cp.Password = existing.Password
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) HasSuperadmin(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Role == entity.RoleSuperadmin {
			return true, nil
		}
	}
	return false, nil
}

type memActionRepo struct {
	mu      sync.Mutex
	seq     int
	actions []*entity.AdminAction
}

func (m *memActionRepo) Append(_ context.Context, a *entity.AdminAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	a.ID = "action-" + strconv.Itoa(m.seq)
	a.CreatedAt = time.Now().UTC()
	cp := *a
	m.actions = append(m.actions, &cp)
	return nil
}

func (m *memActionRepo) ListByTarget(_ context.Context, targetUserID string) ([]*entity.AdminAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.AdminAction
	for _, a := range m.actions {
		if a.TargetUserID == targetUserID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type apiFixture struct {
	engine  *gin.Engine
	users   *memUserRepo
	actions *memActionRepo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := newMemUserRepo()
	actions := &memActionRepo{}
	logger := logrus.New()

	jwtMgr, err := helpers.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	accounts := application.NewAccountService(users, jwtMgr, logger)
	lifecycle := application.NewLifecycleService(users, actions, nil, logger)

	authH := NewAuthHandler(accounts, logger, "localhost", false)
	adminH := NewAdminHandler(users, actions, lifecycle, accounts, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	auth := api.Group("/")
	auth.Use(middleware.Authenticate(jwtMgr, users))
	auth.POST("/auth/logout", authH.Logout)
	auth.GET("/auth/me", authH.Me)

	admin := api.Group("/admin")
	admin.Use(middleware.Authenticate(jwtMgr, users), middleware.RequireRoles(entity.RoleSuperadmin))
	admin.GET("/users", adminH.ListUsers)
	admin.GET("/users/:id", adminH.GetUser)
	admin.PATCH("/users/:id", adminH.ApplyAction)
	admin.GET("/users/:id/actions", adminH.ListActions)

	return &apiFixture{engine: r, users: users, actions: actions}
}

func (f *apiFixture) request(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer func() { _ = res.Body.Close() }()
	for _, c := range res.Cookies() {
		if c.Name == helpers.AuthCookieName {
			return c
		}
	}
	t.Fatal("auth-token cookie not set")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *apiFixture) seedSuperadmin(t *testing.T) *http.Cookie {
	t.Helper()
	hash, err := helpers.HashPassword("admin-password")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, f.users.Create(context.Background(), &entity.User{
		Email:      "admin@sajhathali.com",
		Password:   hash,
		FirstName:  "Super",
		LastName:   "Admin",
		Role:       entity.RoleSuperadmin,
		Status:     entity.StatusApproved,
		ApprovedAt: &now,
	}))
	w := f.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "admin@sajhathali.com",
		"password": "admin-password",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return authCookie(t, w)
}

var registerBody = gin.H{
	"email":     "donor@example.com",
	"password":  "secret-password",
	"firstName": "Ravi",
	"lastName":  "Sharma",
	"role":      "DONOR",
	"city":      "Kathmandu",
}

func TestRegisterLifecycleLoginFlow(t *testing.T) {
	f := newAPIFixture(t)
	adminCookie := f.seedSuperadmin(t)

	// register
	w := f.request(t, http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	user := body["user"].(map[string]any)
	userID := user["id"].(string)
	assert.Equal(t, "PENDING", user["status"])
	assert.NotContains(t, user, "password")

	// login works while pending, me reflects PENDING
	w = f.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "donor@example.com",
		"password": "secret-password",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	donorCookie := authCookie(t, w)

	w = f.request(t, http.MethodGet, "/api/auth/me", nil, donorCookie)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "PENDING", me["status"])

	// approve
	w = f.request(t, http.MethodPatch, "/api/admin/users/"+userID, gin.H{"action": "approve"}, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	approved := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "APPROVED", approved["status"])

	// audit row exists
	w = f.request(t, http.MethodGet, "/api/admin/users/"+userID+"/actions", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	auditRows := decode(t, w)["actions"].([]any)
	require.Len(t, auditRows, 1)
	first := auditRows[0].(map[string]any)
	assert.Equal(t, "APPROVE", first["action"])
	assert.Equal(t, "Changed user status from PENDING to APPROVED", first["details"])

	// approving again fails the precondition
	w = f.request(t, http.MethodPatch, "/api/admin/users/"+userID, gin.H{"action": "approve"}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// block, then the old session dies at the resolver
	w = f.request(t, http.MethodPatch, "/api/admin/users/"+userID, gin.H{"action": "block"}, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.request(t, http.MethodGet, "/api/auth/me", nil, donorCookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// and login is refused outright
	w = f.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "donor@example.com",
		"password": "secret-password",
	}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	f := newAPIFixture(t)

	// duplicate email → 409, no second row
	w := f.request(t, http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.request(t, http.MethodPost, "/api/auth/register", registerBody, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decode(t, w), "error")
	all, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// short password → 400
	bad := gin.H{"email": "x@example.com", "password": "short", "firstName": "X", "role": "DONOR"}
	w = f.request(t, http.MethodPost, "/api/auth/register", bad, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// superadmin role is not self-registrable
	bad = gin.H{"email": "y@example.com", "password": "secret-password", "firstName": "Y", "role": "SUPERADMIN"}
	w = f.request(t, http.MethodPost, "/api/auth/register", bad, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newAPIFixture(t)
	w := f.request(t, http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "donor@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
}

func TestAdminRoutesRequireSuperadmin(t *testing.T) {
	f := newAPIFixture(t)
	adminCookie := f.seedSuperadmin(t)

	w := f.request(t, http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decode(t, w)["user"].(map[string]any)["id"].(string)

	// approve so the donor passes the status gate, then try an admin route
	w = f.request(t, http.MethodPatch, "/api/admin/users/"+userID, gin.H{"action": "approve"}, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "donor@example.com",
		"password": "secret-password",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	donorCookie := authCookie(t, w)

	w = f.request(t, http.MethodGet, "/api/admin/users", nil, donorCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// anonymous gets 401
	w = f.request(t, http.MethodGet, "/api/admin/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminActionOnSuperadminTarget(t *testing.T) {
	f := newAPIFixture(t)
	adminCookie := f.seedSuperadmin(t)

	var adminID string
	all, err := f.users.List(context.Background())
	require.NoError(t, err)
	for _, u := range all {
		if u.Role == entity.RoleSuperadmin {
			adminID = u.ID
		}
	}
	require.NotEmpty(t, adminID)

	w := f.request(t, http.MethodPatch, "/api/admin/users/"+adminID, gin.H{"action": "block"}, adminCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminUserEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	adminCookie := f.seedSuperadmin(t)

	w := f.request(t, http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decode(t, w)["user"].(map[string]any)["id"].(string)

	// list
	w = f.request(t, http.MethodGet, "/api/admin/users", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]any)
	assert.Len(t, users, 2)

	// fetch one
	w = f.request(t, http.MethodGet, "/api/admin/users/"+userID, nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	u := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "donor@example.com", u["email"])

	// 404 on a missing user
	w = f.request(t, http.MethodGet, "/api/admin/users/missing", nil, adminCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// invalid action value → 400
	w = f.request(t, http.MethodPatch, "/api/admin/users/"+userID, gin.H{"action": "delete"}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newAPIFixture(t)
	adminCookie := f.seedSuperadmin(t)

	w := f.request(t, http.MethodPost, "/api/auth/logout", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	defer func() { _ = res.Body.Close() }()
	var cleared bool
	for _, c := range res.Cookies() {
		if c.Name == helpers.AuthCookieName {
			cleared = c.Value == "" && c.MaxAge < 0
		}
	}
	assert.True(t, cleared)
}
