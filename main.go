package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotel-admin/cache"
	"hotel-admin/config"
	"hotel-admin/controllers"
	"hotel-admin/realtime"
	"hotel-admin/routes"
	"hotel-admin/services"
	"hotel-admin/utils"
)

func main() {
	// Load .env (optional)
	envErr := godotenv.Load()

	cfg := config.Load()
	utils.InitLogger(utils.LogOptions{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if envErr != nil {
		log.Debug().Msg(".env not found; using process environment")
	}
	gin.SetMode(cfg.GinMode)

	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET is not usable")
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database connect failed")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connected and migrated")

	var store cache.Cache = cache.Nop{}
	var rdb *redis.Client
	rdb, err = config.ConnectRedis(context.Background(), cfg)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("redis unavailable; running without cache")
	case rdb != nil:
		store = cache.NewRedisCache(rdb, "hotel-admin:")
		log.Info().Msg("redis cache enabled")
	}

	var images services.ImageStore = services.NewLocalImageStore(cfg.UploadDir, "/uploads")
	if cfg.CloudinaryURL != "" {
		cld, err := services.NewCloudinaryImageStore(cfg.CloudinaryURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid CLOUDINARY_URL")
		}
		images = cld
		log.Info().Msg("room images stored on cloudinary")
	}

	hub := realtime.NewHub()

	// Initialize services
	accessService := services.NewAccessService(db, store, cfg.PermissionCacheTTL)
	authService := services.NewAuthService(db, tokens, accessService)
	roomService := services.NewRoomService(db, images, hub)
	bookingService := services.NewBookingService(db, roomService, hub)
	maintenanceService := services.NewMaintenanceService(db, roomService, hub)
	staffService := services.NewStaffService(db, accessService)
	userService := services.NewUserService(db, accessService)
	dashboardService := services.NewDashboardService(db, store)
	settingsService := services.NewSettingsService(db)

	// Initialize controllers
	router := routes.SetupRouter(routes.Handlers{
		Auth:        controllers.NewAuthController(authService),
		Rooms:       controllers.NewRoomController(roomService, bookingService, maintenanceService),
		Bookings:    controllers.NewBookingController(bookingService),
		Maintenance: controllers.NewMaintenanceController(maintenanceService),
		Staff:       controllers.NewStaffController(staffService),
		Users:       controllers.NewUserController(userService),
		Dashboard:   controllers.NewDashboardController(dashboardService),
		Settings:    controllers.NewSettingsController(settingsService, authService),
		Hub:         hub,
		Tokens:      tokens,
		Access:      accessService,
	}, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   uploadDirIfLocal(cfg),
	})

	reconciler := services.NewRoomSyncReconciler(bookingService)
	if err := reconciler.Start(cfg.ReconcileSchedule); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.ReconcileSchedule).Msg("invalid RECONCILE_SCHEDULE")
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	reconciler.Stop(ctx)
	if err := hub.Close(); err != nil {
		log.Warn().Err(err).Msg("closing websocket hub")
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server stopped gracefully")
}

func uploadDirIfLocal(cfg config.Config) string {
	if cfg.CloudinaryURL != "" {
		return ""
	}
	return cfg.UploadDir
}
