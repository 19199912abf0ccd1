// Package main provides the entry point for the EstateRef backend.
//
//	@title			EstateRef Affiliate API
//	@version		1.0.0
//	@description	Affiliate attribution, lead capture and conversion analytics for a property catalog.
//
//	@contact.name	EstateRef Support
//	@contact.email	support@estateref.example
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"context"
	"fmt"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/analytics"
	"EstateRef-Backend/internal/auth"
	"EstateRef-Backend/internal/config"
	"EstateRef-Backend/internal/database"
	httpHandler "EstateRef-Backend/internal/handler/http"
	"EstateRef-Backend/internal/notifier"
	"EstateRef-Backend/internal/repository/postgres"
	"EstateRef-Backend/internal/service"
	"EstateRef-Backend/internal/visits"
	"EstateRef-Backend/pkg/logger"
	"EstateRef-Backend/pkg/useragent"

	_ "EstateRef-Backend/docs" // Import swagger docs
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting EstateRef backend", zap.String("env", cfg.Env))

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	if cfg.Database.SeedData {
		if err := database.SeedData(db, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// Crawler detection for the visit recorder.
	useragent.InitGlobalParser(log)

	storage := postgres.New(db, log)

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:            []byte(cfg.Auth.JWTSecret),
		AccessTokenDuration:  time.Duration(cfg.Auth.AccessTokenTTLMin) * time.Minute,
		RefreshTokenDuration: time.Duration(cfg.Auth.RefreshTokenTTLMin) * time.Minute,
		Issuer:               "EstateRef-Backend",
	})
	passwordService := auth.NewPasswordService()

	// Outbound lead notifications.
	whatsappSender := notifier.NewWhatsAppSender(&cfg.WhatsApp, storage, log)
	dispatcher := notifier.NewDispatcher(whatsappSender, log, notifier.DefaultConfig())
	if err := dispatcher.Start(); err != nil {
		log.Fatal("failed to start notification dispatcher", zap.Error(err))
	}

	affiliateService := service.NewAffiliateService(storage, &cfg.Attribution, passwordService, log)
	leadService := service.NewLeadService(storage, dispatcher, log)
	aggregator := analytics.NewAggregator(storage, &cfg.Analytics, log)
	recorder := visits.NewRecorder(storage, log)

	httpAPIServer := httpHandler.NewServer(
		cfg,
		storage,
		affiliateService,
		leadService,
		aggregator,
		recorder,
		jwtService,
		passwordService,
		log,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTPServer.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      httpAPIServer.SetupRoutes(),
		ReadTimeout:  time.Duration(cfg.HTTPServer.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPServer.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPServer.IdleTimeoutSec) * time.Second,
	}

	go func() {
		log.Info("starting HTTP server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down EstateRef backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// Drain the notification queue after the HTTP surface stops accepting
	// new leads.
	if err := dispatcher.Stop(); err != nil {
		log.Error("failed to stop notification dispatcher", zap.Error(err))
	}
}
