package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/JuanValentinPerdomo/glosas/internal/ai"
	"github.com/JuanValentinPerdomo/glosas/internal/config"
	"github.com/JuanValentinPerdomo/glosas/internal/export"
	httpserver "github.com/JuanValentinPerdomo/glosas/internal/interfaces/http"
	"github.com/JuanValentinPerdomo/glosas/internal/repository"
	"github.com/JuanValentinPerdomo/glosas/internal/service"
	"github.com/JuanValentinPerdomo/glosas/internal/webhook"
	"github.com/JuanValentinPerdomo/glosas/pkg/database"
	"github.com/JuanValentinPerdomo/glosas/pkg/utils"
)

func main() {
	// Optional .env for local development
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting glosas review service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	if cfg.AI.APIKey == "" {
		logger.Warn("AI gateway API key not configured; analysis endpoints will fail")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	analysisRepo := repository.NewAnalysisRepository(db.DB, logger)
	settingsRepo := repository.NewSettingsRepository(db.DB, logger)

	// AI gateway client
	analyst := ai.NewAnalyst(ai.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
	}, logger)

	// Outbound adapters
	dispatcher := webhook.NewDispatcher(logger)
	builder := export.NewBuilder(logger)

	// Application services
	invoiceService := service.NewInvoiceService(invoiceRepo, logger)
	analysisService := service.NewAnalysisService(invoiceRepo, analysisRepo, analyst, logger)
	responseService := service.NewResponseService(invoiceRepo, analysisRepo, settingsRepo, analyst, dispatcher, builder, logger)

	handlers := httpserver.NewHandlers(invoiceService, analysisService, responseService, settingsRepo, logger)
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
