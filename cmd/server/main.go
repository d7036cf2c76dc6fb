package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/inhaeval/inhaeval-backend/config"
	"github.com/inhaeval/inhaeval-backend/internal/app/controller"
	"github.com/inhaeval/inhaeval-backend/internal/app/repository"
	"github.com/inhaeval/inhaeval-backend/internal/app/service"
	"github.com/inhaeval/inhaeval-backend/internal/db"
	"github.com/inhaeval/inhaeval-backend/internal/router"
	"github.com/inhaeval/inhaeval-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting INHAEVAL Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(db.GetDB())
	verificationRepo := repository.NewEmailVerificationRepository(db.GetDB())

	// Initialize services
	mailService := service.NewMailService(cfg.SMTP)
	memberService := service.NewMemberService(memberRepo, verificationRepo, mailService)

	// Initialize controllers
	authController := controller.NewAuthController(memberService)

	// Setup router
	r := router.NewRouter(authController, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
