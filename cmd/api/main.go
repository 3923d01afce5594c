package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/cmcs/claims-api/docs"
	"github.com/cmcs/claims-api/internal/api"
	"github.com/cmcs/claims-api/internal/core/ports"
	"github.com/cmcs/claims-api/internal/core/service"
	"github.com/cmcs/claims-api/internal/infrastructure/config"
	mongodb "github.com/cmcs/claims-api/internal/infrastructure/db/mongo"
	redisdb "github.com/cmcs/claims-api/internal/infrastructure/db/redis"
	"github.com/cmcs/claims-api/internal/infrastructure/queue"
	"github.com/cmcs/claims-api/pkg/logger"
)

const tokenTTL = 24 * time.Hour

// @title           Contract Claims API
// @version         1.0
// @description     Monthly claim management for contract lecturers:
// @description     submission, validation, auto-approval, reporting and invoicing.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "claims-api",
	})

	policy, err := cfg.Claims.ClaimPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid claim policy configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	claimRepo := mongodb.NewClaimRepository(db)
	lecturerRepo := mongodb.NewLecturerRepository(db)
	reportRepo := mongodb.NewReportRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	if err := claimRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("claims index creation failed")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("users index creation failed")
	}

	// --- Services ---
	clock := ports.SystemClock{}
	guard := redisdb.NewApprovalGuard(rdb)

	claimService := service.NewClaimService(claimRepo, lecturerRepo, policy, clock, log)
	approvalService := service.NewApprovalService(claimRepo, lecturerRepo, guard, clock, log)
	reportService := service.NewReportService(claimRepo, reportRepo, clock, log)
	invoiceService := service.NewInvoiceService(claimRepo, lecturerRepo, clock, log)
	authService := service.NewAuthService(authRepo, lecturerRepo, clock, cfg.JWTSecret, tokenTTL)

	// --- Auto-approval workers ---
	dispatcher := queue.NewDispatcher(cfg.Claims.ApprovalWorkers, approvalService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.RouterDeps{
		DB:              db,
		Redis:           rdb,
		JWTSecret:       cfg.JWTSecret,
		Logger:          log,
		Clock:           clock,
		AuthService:     authService,
		ClaimService:    claimService,
		ApprovalService: approvalService,
		ReportService:   reportService,
		InvoiceService:  invoiceService,
		ApprovalQueue:   dispatcher,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
