package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"travel-journal-backend/internal/cache"
	"travel-journal-backend/internal/config"
	"travel-journal-backend/internal/database"
	"travel-journal-backend/internal/handler"
	"travel-journal-backend/internal/middleware"
	"travel-journal-backend/internal/repository"
	"travel-journal-backend/internal/service"
	"travel-journal-backend/internal/storage"
	"travel-journal-backend/pkg/utils"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration and logger
	cfg := config.LoadConfig()
	setupLogger(cfg.Server.GinMode)
	slog.Info("configuration loaded", "db_driver", cfg.Database.Driver, "protect_writes", cfg.Server.ProtectWrites)

	// 2. Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// 3. Upload storage
	store := storage.NewPhotoStore(cfg.Storage.UploadDir, cfg.Storage.MaxPhotoBytes)
	if err := store.Init(); err != nil {
		slog.Error("upload directory unusable", "dir", cfg.Storage.UploadDir, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Optional read cache
	var readCache *cache.Cache
	if cfg.Redis.Enabled() {
		readCache, err = cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "travel-journal:", cfg.Redis.TTL)
		if err != nil {
			slog.Warn("redis unavailable, read cache disabled", "addr", cfg.Redis.Addr, "error", err)
			readCache = nil
		} else {
			slog.Info("read cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	// 5. Repositories
	userRepo := repository.NewUserRepo(db)
	travelRepo := repository.NewTravelRepo(db)
	photoRepo := repository.NewPhotoRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 6. Services
	tokens := utils.NewTokenIssuer(utils.TokenConfig{
		Secret:       cfg.JWT.Secret,
		Issuer:       cfg.JWT.Issuer,
		Audience:     cfg.JWT.Audience,
		AccessExpiry: cfg.JWT.AccessTokenExpiry,
	})
	authService := service.NewAuthService(userRepo, auditRepo, utils.NewPasswordHasher(), tokens, service.AuthConfig{
		RefreshTTL:     cfg.JWT.RefreshTokenExpiry(),
		RotationWindow: cfg.JWT.RotationWindow,
	})
	travelService := service.NewTravelService(userRepo, travelRepo, photoRepo, auditRepo, store, readCache)
	feedService := service.NewFeedService(travelRepo, readCache)

	// 7. Background workers
	if cfg.Storage.OrphanSweepInterval > 0 {
		sweeper := service.NewUploadSweeper(photoRepo, store, cfg.Storage.OrphanSweepInterval, cfg.Storage.OrphanMinAge)
		go sweeper.Start(ctx)
	}
	authLimiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go authLimiter.Cleanup(ctx)

	// 8. Router
	gin.SetMode(cfg.Server.GinMode)
	r := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authService),
		Travel:         handler.NewTravelHandler(travelService),
		Feed:           handler.NewFeedHandler(feedService),
		Photo:          handler.NewPhotoHandler(travelService),
		Tokens:         tokens,
		Access:         middleware.NewAccessControlMiddleware(travelRepo),
		AuthLimiter:    authLimiter,
		ProtectWrites:  cfg.Server.ProtectWrites,
		UploadDir:      store.Root(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 9. Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// one operation: the steps below must run in order
			"server": func(ctx context.Context) error {
				err := srv.Shutdown(ctx)
				cancel()
				if cerr := readCache.Close(); cerr != nil {
					slog.Warn("redis close failed", "error", cerr)
				}
				sqlDB, dberr := db.DB()
				if dberr == nil {
					dberr = sqlDB.Close()
				}
				return errors.Join(err, dberr)
			},
		},
	)

	exitCode := <-wait
	slog.Info("server exited", "code", exitCode)
	os.Exit(exitCode)
}

func setupLogger(ginMode string) {
	level := slog.LevelDebug
	if ginMode == gin.ReleaseMode {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
