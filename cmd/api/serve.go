package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"barter-auth/internal/config"
	"barter-auth/internal/db"
	"barter-auth/internal/email"
	apihttp "barter-auth/internal/http"
	"barter-auth/internal/observability"
	"barter-auth/internal/repository"
	"barter-auth/internal/service"
	"barter-auth/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd crea el subcomando serve.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and side-effect workers",
		RunE:  runServe,
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		cmd.PrintErrf("warning: loading %s: %v\n", envFile, err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error("db connect", zap.Error(err))
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("db migrate", zap.Error(err))
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	accountRepo := repository.NewPgAccountRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	notificationRepo := repository.NewPgNotificationRepository(pool)

	tokens := service.NewTokenService(
		cfg.JWTSecret,
		cfg.VerificationSecret,
		cfg.SessionTTL(),
		cfg.VerificationTTL(),
		cfg.JWTIssuer,
	)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.AppName)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var queue worker.Queue = worker.NewMemoryQueue(1024)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory task queue", zap.Error(err))
		} else {
			queue = worker.NewRedisQueue(redisClient, "")
		}
		cancel()
	}

	workers := worker.NewPool(logger, queue, tokens, emailSender, notificationRepo, metrics, worker.PoolConfig{
		Workers:     cfg.WorkerCount,
		MaxAttempts: cfg.TaskMaxAttempts,
		LinkBase:    cfg.VerificationURLBase,
	})
	// Los workers no siguen la señal: se detienen en gracefulShutdown, despues del server.
	workers.Start(context.Background())
	defer workers.Stop()

	dispatcher := worker.NewDispatcher(queue)
	accountSvc := service.NewAccountService(
		logger,
		accountRepo,
		profileRepo,
		service.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		dispatcher,
		dispatcher,
		cfg.AppName,
	)

	accountHandler := apihttp.NewAccountHandler(logger, accountSvc, metrics, cfg.PasswordMinEntropy)
	router := apihttp.NewRouter(logger, accountHandler, tokens, observability.Handler(reg))

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return gracefulShutdown(shutdownCtx, server, workers)
}

type stopper interface {
	Stop()
}

// gracefulShutdown drena los requests en curso y recien entonces detiene los workers.
func gracefulShutdown(ctx context.Context, server *http.Server, workers stopper) error {
	err := server.Shutdown(ctx)
	workers.Stop()
	return err
}
