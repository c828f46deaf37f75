package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/ElSocialismo/plataforma-freelancer/api/handler"
	"github.com/ElSocialismo/plataforma-freelancer/internal/config"
	"github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/journal"
	"github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/monitor"
	pgInfra "github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/postgres"
	redisInfra "github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/redis"
	"github.com/ElSocialismo/plataforma-freelancer/internal/middleware"
	"github.com/ElSocialismo/plataforma-freelancer/internal/provider"
	"github.com/ElSocialismo/plataforma-freelancer/internal/router"
	"github.com/ElSocialismo/plataforma-freelancer/internal/services"
	"github.com/ElSocialismo/plataforma-freelancer/internal/services/lifecycle"
	"github.com/ElSocialismo/plataforma-freelancer/internal/storage"
	"github.com/ElSocialismo/plataforma-freelancer/internal/token"
	"github.com/ElSocialismo/plataforma-freelancer/pkg/httpcontext"
	"github.com/ElSocialismo/plataforma-freelancer/pkg/logger"
	"github.com/ElSocialismo/plataforma-freelancer/repository/postgres"
	redisRepo "github.com/ElSocialismo/plataforma-freelancer/repository/redis"
	authUC "github.com/ElSocialismo/plataforma-freelancer/usecase/auth"
	avatarUC "github.com/ElSocialismo/plataforma-freelancer/usecase/avatar"
	reconcileUC "github.com/ElSocialismo/plataforma-freelancer/usecase/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	codec, err := token.New(cfg.Session.Secret, cfg.Session.Lifetime, cfg.Session.Issuer)
	if err != nil {
		log.Fatalf("token codec error: %v", err)
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	divergences, err := journal.Open(cfg.Journal.Path, "divergences")
	if err != nil {
		zapLogger.Fatal("failed to open divergence journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return divergences.Close()
	})

	assets, err := storage.NewLocalStore(cfg.Upload.StorageRoot, cfg.Upload.URLPrefix)
	if err != nil {
		zapLogger.Fatal("failed to prepare asset storage", zap.Error(err))
	}

	mon := monitor.New(pool, redisClient, divergences, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sweeper, err := services.NewJournalSweeper(divergences, zapLogger, services.SweeperConfig{
		Schedule:  cfg.Journal.SweepSchedule,
		Retention: cfg.Journal.Retention,
	})
	if err != nil {
		zapLogger.Fatal("invalid journal sweep schedule", zap.Error(err))
	}
	sweeper.Start()
	manager.Register("journal_sweeper", func(ctx context.Context) error {
		sweeper.Stop()
		return nil
	})

	profileRepo := postgres.NewProfileRepository(pool)
	freelancerRepo := postgres.NewFreelancerRepository(pool)
	stateRepo := redisRepo.NewLoginStateRepository(redisClient, cfg.Session.StateTTL)

	providers := provider.NewRegistry(
		provider.NewGoogle(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.Google.RedirectURL),
		provider.NewGitHub(cfg.OAuth.GitHub.ClientID, cfg.OAuth.GitHub.ClientSecret, cfg.OAuth.GitHub.RedirectURL),
	)

	authUseCase := authUC.New(providers, stateRepo, profileRepo, codec, zapLogger)
	reconcileUseCase := reconcileUC.New(freelancerRepo, profileRepo, divergences, zapLogger)
	avatarUseCase := avatarUC.New(profileRepo, assets, cfg.Upload.MaxBytes, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(reconcileUseCase, ctxAdapter, zapLogger),
		Avatar:  apiHandler.NewAvatarHandler(avatarUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(codec, zapLogger)
	corsMiddleware := middleware.CORS(cfg.HTTP.AllowedOrigin)
	r := router.New(handlers, authMiddleware, corsMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: int(cfg.Upload.MaxBytes) + 1<<20,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
