// Command seed fills a development database with demo users and listings.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"usethis-backend/internal/config"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository/postgres"
	"usethis-backend/internal/security"
	"usethis-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	setupFile := flag.String("data", "config/seed.yaml", "Path to the seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	setup, err := readSetupFile(*setupFile)
	if err != nil {
		log.Fatalf("Failed to read setup file: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store := postgres.NewStore(db)
	tokens := security.NewTokenManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute)
	s := &seeder{
		auth:  service.NewAuthService(store.UserRepository, tokens, security.NewMemoryRevocationStore()),
		items: service.NewItemService(store.ItemRepository),
		users: store.UserRepository,
	}

	users, items, err := s.populate(ctx, setup)
	if err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	logger.Info("Seed data populated", "new_users", users, "items", items)
}
