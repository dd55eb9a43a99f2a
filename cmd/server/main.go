package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tregeagle/finagle/internal/api"
	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/config"
	"github.com/tregeagle/finagle/internal/database"
	"github.com/tregeagle/finagle/internal/importer"
	"github.com/tregeagle/finagle/internal/logger"
	"github.com/tregeagle/finagle/internal/notecrypt"
	"github.com/tregeagle/finagle/internal/report"
	"github.com/tregeagle/finagle/internal/repository"
	"github.com/tregeagle/finagle/internal/scheduler"
	"github.com/tregeagle/finagle/internal/service"
	"github.com/tregeagle/finagle/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(appLog)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	log.Info().Str("path", cfg.Database.Path).Str("version", version.Version).Msg("Connected to database")

	notes, err := notecrypt.New(cfg.Security.ContractNoteKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load contract note key")
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db, notes)

	// Create services
	reportService := service.NewReportService(
		transactionRepo,
		userRepo,
		cgt.NewCalculator(cgt.Options{
			Workers:            cfg.CGT.Workers,
			CarryForwardLosses: cfg.CGT.CarryForwardLosses,
		}),
		report.NewProjector(cfg.Report.DecimalPlaces),
		cfg.Report.CacheTTL,
		appLog,
	)
	services := api.Services{
		System: service.NewSystemService(db, map[string]bool{
			"carry_forward_losses":     cfg.CGT.CarryForwardLosses,
			"contract_note_encryption": notes.Enabled(),
			"report_warm_job":          cfg.Report.WarmSchedule != "",
		}),
		Users:        service.NewUserService(userRepo, reportService),
		Transactions: service.NewTransactionService(transactionRepo, userRepo, reportService),
		Imports:      service.NewImportService(importer.Default(), transactionRepo, userRepo, reportService, appLog),
		Exports:      service.NewExportService(transactionRepo, userRepo),
		Reports:      reportService,
	}

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Report.WarmSchedule != "" {
		jobs = scheduler.New(appLog)
		if err := jobs.AddJob(cfg.Report.WarmSchedule, scheduler.NewReportWarmJob(reportService, appLog)); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Report.WarmSchedule).Msg("Invalid REPORT_WARM_SCHEDULE")
		}
		jobs.Start()
	}

	// Create router
	router := api.NewRouter(services, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if jobs != nil {
		jobs.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited")
}
