package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sajhathali/sajhathali-api/internal/container"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	handlers "github.com/sajhathali/sajhathali-api/internal/interface/http"
	"github.com/sajhathali/sajhathali-api/internal/interface/middleware"
)

// ProfileModule wires the self-service profile routes. Any authenticated
// account may read and update its own profile, whatever its status.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Users   repo.UserRepository
}

func NewProfileModule(h *handlers.ProfileHandler, users repo.UserRepository) *ProfileModule {
	return &ProfileModule{Handler: h, Users: users}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.Use(
		middleware.Authenticate(container.GetJWT(), m.Users),
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		profile.GET("", m.Handler.Get)
		profile.PUT("", m.Handler.Update)
		profile.POST("/avatar", m.Handler.UploadAvatar)
	}
}
