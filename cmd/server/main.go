package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saltscope/internal/config"
	"saltscope/internal/email/noop"
	"saltscope/internal/email/ses"
	"saltscope/internal/handler"
	"saltscope/internal/nexus"
	"saltscope/internal/port"
	"saltscope/internal/repository/postgres"
	"saltscope/internal/router"
	"saltscope/internal/service"
	s3storage "saltscope/internal/storage/s3"
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
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	analysisRepo := postgres.NewAnalysisRepo(db)
	txnRepo := postgres.NewTransactionRepo(db)
	physRepo := postgres.NewPhysicalNexusRepo(db)
	resultRepo := postgres.NewYearResultRepo(db)
	scenarioRepo := postgres.NewVDAScenarioRepo(db)
	jurisRepo := postgres.NewJurisdictionRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email delivery
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	case "noop", "":
		emailSender = noop.NewNoopSender()
	default:
		return fmt.Errorf("unknown email provider: %q", cfg.Email.Provider)
	}

	// Initialize engine and services
	engine := nexus.NewEngine(cfg.Engine.Workers)
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	registrationSvc := service.NewRegistrationService(tenantRepo, userRepo, authSvc)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	analysisSvc := service.NewAnalysisService(
		analysisRepo, txnRepo, physRepo, resultRepo, jurisRepo, fileRepo, userRepo,
		s3Client, emailSender, engine, cfg.Engine,
	)
	vdaSvc := service.NewVDAScenarioService(analysisRepo, resultRepo, scenarioRepo, jurisRepo)
	jurisdictionSvc := service.NewJurisdictionService(jurisRepo)
	tenantSvc := service.NewTenantService(tenantRepo)
	userSvc := service.NewUserService(userRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc, registrationSvc)
	fileH := handler.NewFileHandler(fileSvc)
	analysisH := handler.NewAnalysisHandler(analysisSvc)
	resultH := handler.NewResultHandler(analysisSvc)
	vdaH := handler.NewVDAHandler(vdaSvc)
	jurisdictionH := handler.NewJurisdictionHandler(jurisdictionSvc)
	tenantH := handler.NewTenantHandler(tenantSvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(
		authSvc, cfg.CORS.AllowedOrigins,
		authH, fileH, analysisH, resultH, vdaH, jurisdictionH, tenantH, userH, healthH,
	)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Println("server stopped")
	return nil
}
