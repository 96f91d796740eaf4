package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/sajhathali/sajhathali-api/config"
	"github.com/sajhathali/sajhathali-api/internal/application"
	pginfra "github.com/sajhathali/sajhathali-api/internal/infrastructure/postgres"
	"github.com/sajhathali/sajhathali-api/pkg/helpers"
)

// Seeds the bootstrap SUPERADMIN account. There is no registration path
// that can create one, so every deployment runs this once. Idempotent by
// role, not email: if any SUPERADMIN exists the run is a no-op, so changing
// SUPERADMIN_EMAIL later cannot mint a second one.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.SuperadminEmail == "" || cfg.SuperadminPassword == "" {
		log.Fatal("SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD must be set")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	accounts := application.NewAccountService(users, nil, helpers.NewLogger(cfg.AppName, cfg.Env))

	u, created, err := accounts.EnsureSuperadmin(ctx, cfg.SuperadminEmail, cfg.SuperadminPassword)
	if err != nil {
		log.Fatalf("failed to seed superadmin: %v", err)
	}
	if !created {
		fmt.Println("superadmin already exists; nothing to do")
		return
	}
	fmt.Printf("seeded superadmin: id=%s email=%s\n", u.ID, u.Email)
}
