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

// SessionModule wires the donation session routes. Only APPROVED donors can
// open a session; both donors and receivers can list their own.
type SessionModule struct {
	Handler *handlers.SessionHandler
	Users   repo.UserRepository
}

func NewSessionModule(h *handlers.SessionHandler, users repo.UserRepository) *SessionModule {
	return &SessionModule{Handler: h, Users: users}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	sessions.Use(
		middleware.Authenticate(container.GetJWT(), m.Users),
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		sessions.POST("", middleware.RequireRoles(entity.RoleDonor), m.Handler.Start)
		sessions.GET("", middleware.RequireRoles(entity.RoleDonor, entity.RoleReceiver), m.Handler.List)
	}
}
