package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	grpcapi "usethis-backend/internal/api/grpc"
	httpapi "usethis-backend/internal/api/http"
	"usethis-backend/internal/config"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository/postgres"
	"usethis-backend/internal/security"
	"usethis-backend/internal/service"
	"usethis-backend/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting UseThis backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Security
	tokens := security.NewTokenManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute)
	revocations := newRevocationStore(ctx, cfg.Redis)

	// Storage
	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	opts := httpapi.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Storage.MaxFileSizeMB << 20,
	}
	if local, ok := objects.(*storage.LocalStorage); ok {
		logger.Info("Serving uploads from local disk", "upload_dir", cfg.Storage.UploadDir)
		opts.Files = local
	}

	// Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	authSvc := service.NewAuthService(store.UserRepository, tokens, revocations)
	convSvc := service.NewConversationService(store.ConversationRepository, store.MessageRepository)
	services := httpapi.Services{
		Auth:  authSvc,
		Items: service.NewItemService(store.ItemRepository),
		Bookings: service.NewBookingService(store.BookingRepository, store.ItemRepository,
			store.UserRepository, store.NotificationRepository, emailSvc),
		Reviews: service.NewReviewService(store.ReviewRepository, store.BookingRepository),
		Inquiries: service.NewInquiryService(store.InquiryRepository, store.ItemRepository,
			store.UserRepository, convSvc, emailSvc),
		Conversations: convSvc,
		Images:        service.NewImageStorageService(store.ItemRepository, objects, int(cfg.Storage.MaxFileSizeMB)),
		Notifications: service.NewNotificationService(store.NotificationRepository),
	}

	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           httpapi.NewRouter(services, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcapi.NewServer(authSvc)

	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetHTTPAddress())
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down...")
	case err := <-errCh:
		logger.Error("Server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.Shutdown()
	logger.Info("Server stopped")
}

// newRevocationStore uses redis when configured and reachable, otherwise
// revocations live in this process only.
func newRevocationStore(ctx context.Context, cfg config.RedisConfig) security.RevocationStore {
	if cfg.Addr == "" {
		logger.Info("Redis not configured, using in-memory token revocation")
		return security.NewMemoryRevocationStore()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, using in-memory token revocation", "addr", cfg.Addr, "error", err)
		_ = rdb.Close()
		return security.NewMemoryRevocationStore()
	}
	logger.Info("Using redis token revocation", "addr", cfg.Addr)
	return security.NewRedisRevocationStore(rdb)
}
