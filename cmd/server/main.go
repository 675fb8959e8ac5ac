package main

import (
	"fmt"
	"log"

	"opsboard/internal/columns"
	"opsboard/internal/config"
	"opsboard/internal/handler"
	"opsboard/internal/notify/noop"
	"opsboard/internal/notify/ses"
	"opsboard/internal/permission"
	"opsboard/internal/port"
	"opsboard/internal/repository/postgres"
	"opsboard/internal/router"
	"opsboard/internal/screens"
	"opsboard/internal/service"
	s3storage "opsboard/internal/storage/s3"
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
	employeeRepo := postgres.NewEmployeeRepo(db)
	permRepo := postgres.NewFormPermissionRepo(db)
	colRepo := postgres.NewColumnPrefRepo(db)
	slotRepo := postgres.NewDocumentSlotRepo(db)
	invoker := postgres.NewProcInvoker(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize notifier
	var notifier port.Notifier
	switch cfg.Notify.Provider {
	case "ses":
		notifier, err = ses.NewSESNotifier(cfg.Notify.Region, cfg.Notify.FromAddress, cfg.Notify.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	default:
		notifier = noop.NewNotifier()
	}

	// Initialize core state
	registry := permission.NewRegistry()
	colStore := columns.NewStore(colRepo)
	manager := screens.NewManager(invoker, registry, s3Client, cfg.S3.Bucket, cfg.Upload.Grace())

	// Initialize services
	authSvc := service.NewAuthService(employeeRepo, cfg.JWT)
	screenSvc := service.NewScreenService(manager, registry, colStore, permRepo, colRepo, invoker)
	uploadSvc := service.NewUploadService(manager, slotRepo, notifier, cfg.S3.MaxFileSizeMB, cfg.S3.PresignExpiry)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	screenH := handler.NewScreenHandler(screenSvc)
	uploadH := handler.NewUploadHandler(uploadSvc)
	adminH := handler.NewAdminHandler(screenSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, authH, screenH, uploadH, adminH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
