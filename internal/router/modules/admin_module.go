package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sajhathali/sajhathali-api/internal/container"
	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	handlers "github.com/sajhathali/sajhathali-api/internal/interface/http"
	"github.com/sajhathali/sajhathali-api/internal/interface/middleware"
)

// AdminModule wires the SUPERADMIN-only user management routes. Every route
// requires an authenticated, APPROVED SUPERADMIN.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Users   repo.UserRepository
}

func NewAdminModule(h *handlers.AdminHandler, users repo.UserRepository) *AdminModule {
	return &AdminModule{Handler: h, Users: users}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.Authenticate(container.GetJWT(), m.Users),
		middleware.RequireRoles(entity.RoleSuperadmin),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/search", m.Handler.SearchUsers)
		admin.GET("/users/:id", m.Handler.GetUser)
		admin.PATCH("/users/:id", m.Handler.ApplyAction)
		admin.GET("/users/:id/actions", m.Handler.ListActions)
	}
}
