package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sajhathali/sajhathali-api/internal/container"
	"github.com/sajhathali/sajhathali-api/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar metrics, rate-limited per IP, bypassed for private networks.
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
