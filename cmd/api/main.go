package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/geosecure/geosecure-service/internal/api/http"
	"github.com/geosecure/geosecure-service/internal/api/http/handlers"
	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/config"
	"github.com/geosecure/geosecure-service/internal/events"
	"github.com/geosecure/geosecure-service/internal/notifier"
	"github.com/geosecure/geosecure-service/internal/observability"
	"github.com/geosecure/geosecure-service/internal/persistence"
	"github.com/geosecure/geosecure-service/internal/repository"
	"github.com/geosecure/geosecure-service/internal/service"
	"github.com/geosecure/geosecure-service/internal/storage"
	"github.com/geosecure/geosecure-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	identityRepo := repository.NewIdentityRepository(pool)
	otpRepo := repository.NewOtpRepository(pool)
	boundaryRepo := repository.NewBoundaryRepository(pool)
	fileRepo := repository.NewFileRepository(pool)

	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init blob store", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		IdentityRepo: identityRepo,
		OtpRepo:      otpRepo,
		Notifier:     newNotifier(cfg.Notifier, logger),
		Dispatcher:   dispatcher,
		Metrics:      metrics,
	})
	accessService := service.NewAccessService(fileRepo, boundaryRepo, dispatcher, metrics)
	adminService := service.NewAdminService(identityRepo, boundaryRepo, dispatcher)
	fileService := service.NewFileService(fileRepo, blobs, accessService, dispatcher)
	auditService := service.NewAuditService(dispatcher, logger)

	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), identityRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(adminService),
		Files:          handlers.NewFilesHandler(fileService, accessService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newNotifier(cfg config.NotifierConfig, logger *zap.Logger) notifier.Notifier {
	if strings.EqualFold(cfg.Mode, "smtp") {
		return notifier.NewSMTPNotifier(notifier.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.EmailFrom,
		})
	}
	return notifier.NewLogNotifier(logger)
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig) (storage.BlobStore, error) {
	if strings.EqualFold(cfg.Mode, "s3") {
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewDiskStore(cfg.LocalDir)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
