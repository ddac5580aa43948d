package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/application/service"
	"github.com/invstore/inventory-approval/internal/config"
	httpserver "github.com/invstore/inventory-approval/internal/interfaces/http"
	"github.com/invstore/inventory-approval/internal/invoice"
	"github.com/invstore/inventory-approval/pkg/database"
	"github.com/invstore/inventory-approval/pkg/logger"

	"github.com/invstore/inventory-approval/internal/infrastructure/persistence/repository"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting inventory approval service",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create data directory", zap.Error(err))
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, log)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	itemRepo := repository.NewItemRepository(db.DB, log)
	userRepo := repository.NewUserRepository(db.DB, log)
	tokenRepo := repository.NewTokenRepository(db.DB, log)
	stockRepo := repository.NewStockRepository(db.DB, log)

	if err := tokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Warn("Failed to purge expired tokens", zap.Error(err))
	}

	svcLog := logger.NewKeyValueAdapter(log)
	authService := service.NewAuthService(userRepo, tokenRepo, cfg.Auth.TokenTTL, svcLog)
	inventoryService := service.NewInventoryService(itemRepo, svcLog)
	stockService := service.NewStockService(stockRepo, svcLog)
	invoiceService := service.NewInvoiceService(itemRepo, svcLog)
	exporter := invoice.NewExporter(log)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		authService,
		inventoryService,
		stockService,
		invoiceService,
		exporter,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}

	log.Info("Server exited")
}
