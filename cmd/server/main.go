package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tillsync/internal/config"
	emailnoop "tillsync/internal/email/noop"
	emailses "tillsync/internal/email/ses"
	"tillsync/internal/handler"
	"tillsync/internal/normalize"
	"tillsync/internal/port"
	"tillsync/internal/repository/postgres"
	"tillsync/internal/router"
	"tillsync/internal/service"
	s3storage "tillsync/internal/storage/s3"
	"tillsync/internal/storefront"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	orderRepo := postgres.NewOrderRepo(db)
	deviceRepo := postgres.NewDeviceRepo(db)

	// Initialize keyword table
	var keywords *normalize.Keywords
	if cfg.Sync.KeywordsFile != "" {
		keywords, err = normalize.LoadKeywords(cfg.Sync.KeywordsFile)
		if err != nil {
			return fmt.Errorf("failed to load keyword table: %w", err)
		}
	}
	normalizer := normalize.New(keywords)

	// Initialize storefront client
	fetcher := storefront.NewClient(&cfg.Store)

	// Initialize email sender
	var emailer port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailer, err = emailses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		emailer = emailnoop.NewNoopSender()
	}

	// Initialize export archive storage when enabled
	var storage port.ObjectStorage
	if cfg.Export.ArchiveToS3 {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	authSvc := service.NewAuthService(deviceRepo, cfg.Auth)
	orderSvc := service.NewOrderService(
		orderRepo, fetcher, emailer, normalizer,
		cfg.Email.NotifyTo,
		time.Duration(cfg.Sync.LookbackHours)*time.Hour,
	)
	exportSvc := service.NewExportService(orderRepo, storage, cfg.S3.Bucket, cfg.Export.ArchiveToS3, cfg.S3.PresignExpiry)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, orderH, exportH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the sync worker
	worker := service.NewSyncWorker(fetcher, orderSvc, service.SyncWorkerConfig{
		PollInterval: time.Duration(cfg.Sync.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Sync.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone

	return nil
}
