package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"bookdocker/database"
	"bookdocker/internal/ai"
	"bookdocker/internal/config"
	"bookdocker/internal/httpapi/handler"
	"bookdocker/internal/httpapi/middleware"
	"bookdocker/internal/httpapi/repository"
	"bookdocker/internal/httpapi/service"
	"bookdocker/internal/mailer"
	"bookdocker/internal/payment"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Session-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// Repositories
	expertRepo := repository.NewExpertRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Outbound clients
	mail := mailer.NewClient(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
	gemini := ai.NewClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	paypal := payment.NewClient(cfg.PayPalAPIURL, cfg.PayPalClientID, cfg.PayPalSecret)

	// Services
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	hiveService := service.NewHiveService(expertRepo, cache, cacheTTL, logger)
	alertService := service.NewAlertService(notificationRepo, mail, cfg.PlatformBaseURL, logger)
	expertService := service.NewExpertService(expertRepo, alertService, hiveService, gemini, logger)
	authService := service.NewAuthService(expertRepo, refreshTokenRepo, cfg)
	notificationService := service.NewNotificationService(notificationRepo)
	wishlistService := service.NewWishlistService(cache)
	adminService := service.NewAdminService(expertRepo, gemini, hiveService, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	expertHandler := handler.NewExpertHandler(expertService)
	hiveHandler := handler.NewHiveHandler(hiveService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	mailHandler := handler.NewMailHandler(expertService, mail, cfg.AdminEmail, cfg.PlatformBaseURL, logger)
	adminHandler := handler.NewAdminHandler(adminService)
	billingHandler := handler.NewBillingHandler(paypal, expertService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(api.Group("/auth"))
	expertHandler.RegisterRoutes(api.Group("/experts"))
	hiveHandler.RegisterRoutes(api.Group("/hive"))
	wishlistHandler.RegisterRoutes(api.Group("/wishlist"))
	mailHandler.RegisterRoutes(api.Group("/mail"))

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	expertHandler.RegisterProtectedRoutes(authed.Group("/experts"))
	notificationHandler.RegisterRoutes(authed.Group("/notifications"))
	billingHandler.RegisterRoutes(authed.Group("/billing"))

	// Admin routes
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	adminHandler.RegisterRoutes(admin)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting http server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
