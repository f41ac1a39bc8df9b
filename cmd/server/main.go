package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Priyanshusingh0818/GORUS/config"
	"github.com/Priyanshusingh0818/GORUS/internal/middleware"
	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/notify"
	"github.com/Priyanshusingh0818/GORUS/internal/server"
	"github.com/Priyanshusingh0818/GORUS/internal/service"
	"github.com/Priyanshusingh0818/GORUS/internal/store"
	"github.com/Priyanshusingh0818/GORUS/internal/upload"
	"github.com/Priyanshusingh0818/GORUS/internal/utils"
	"github.com/Priyanshusingh0818/GORUS/pkg/database"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := newLogger(cfg.Log)
	slog.SetDefault(log)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Connect to Database (migrations run inside Connect)
	db, err := database.Connect(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// 3. Seed Data
	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		log.Error("Failed to seed admin user", "error", err)
	}
	if err := database.SeedProducts(db); err != nil {
		log.Error("Failed to seed products", "error", err)
	}

	uploads, err := upload.NewStorage(cfg.Server.UploadDir)
	if err != nil {
		log.Error("Failed to prepare upload directory", "dir", cfg.Server.UploadDir, "error", err)
		os.Exit(1)
	}

	// 4. Notifications
	mailer := notify.NewMailer(cfg.Mail, log)
	notifier := notify.NewNotifier(mailer, notify.Address{Email: cfg.Mail.SenderEmail, Name: cfg.Mail.SenderName}, cfg.Mail.AdminEmail, log)
	dispatcher := notify.NewDispatcher(notifier, 0, log)
	dispatcher.OnResult = func(kind string, order models.Order, res notify.Result) {
		switch {
		case res.Success:
			log.Info("Notification sent", "kind", kind, "order_number", order.OrderNumber)
		case res.Skipped:
			log.Debug("Notification skipped", "kind", kind, "order_number", order.OrderNumber)
		default:
			log.Warn("Notification failed", "kind", kind, "order_number", order.OrderNumber, "error", res.Error)
		}
	}

	// 5. Services and Router
	st := store.New(db)
	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Window, cfg.RateLimit.Max)

	r := server.NewRouter(server.Deps{
		Config:    cfg,
		Auth:      service.NewAuthService(st, tokens, log),
		Catalog:   service.NewCatalogService(st, uploads, log),
		Orders:    service.NewOrderService(st, dispatcher, log),
		Payments:  service.NewPaymentService(st, uploads, dispatcher, log),
		Analytics: service.NewAnalyticsService(st, log),
		Limiter:   limiter,
		Log:       log,
	})

	// 6. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to run server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Warn("Pending notifications dropped at shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server exited")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
