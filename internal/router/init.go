package router

import (
	"github.com/sajhathali/sajhathali-api/internal/application"
	"github.com/sajhathali/sajhathali-api/internal/container"
	pginfra "github.com/sajhathali/sajhathali-api/internal/infrastructure/postgres"
	handlers "github.com/sajhathali/sajhathali-api/internal/interface/http"
	"github.com/sajhathali/sajhathali-api/internal/router/modules"
)

// InitModules constructs repositories, services, and handlers from the
// container singletons, then registers every feature module. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	actions := pginfra.NewAdminActionRepository(pool)
	sessions := pginfra.NewDonationSessionRepository(pool)

	accounts := application.NewAccountService(users, container.GetJWT(), logger)
	accounts.GCS = container.GetGCS()
	accounts.GCSBucket = cfg.GCSBucket
	accounts.ES = container.GetES()
	accounts.ESUsersIndex = cfg.ESUsersIndex

	lifecycle := application.NewLifecycleService(users, actions, container.GetNotifier(), logger)
	lifecycle.Index = accounts
	sessionSvc := application.NewSessionService(sessions, users, container.GetNotifier(), logger)

	authH := handlers.NewAuthHandler(accounts, logger, cfg.CookieDomain, cfg.CookieSecure)
	adminH := handlers.NewAdminHandler(users, actions, lifecycle, accounts, logger)
	profileH := handlers.NewProfileHandler(accounts, logger)
	sessionH := handlers.NewSessionHandler(sessionSvc, logger)

	r.Add(modules.NewAuthModule(authH, users))
	r.Add(modules.NewAdminModule(adminH, users))
	r.Add(modules.NewProfileModule(profileH, users))
	r.Add(modules.NewSessionModule(sessionH, users))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
