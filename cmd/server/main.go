package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/divvyup/divvy/internal/adapter/http"
	"github.com/divvyup/divvy/internal/adapter/http/handler"
	postgresRepo "github.com/divvyup/divvy/internal/adapter/repository/postgres"
	redisRepo "github.com/divvyup/divvy/internal/adapter/repository/redis"
	"github.com/divvyup/divvy/internal/infrastructure/config"
	"github.com/divvyup/divvy/internal/infrastructure/eventpublisher"
	"github.com/divvyup/divvy/internal/infrastructure/logger"
	"github.com/divvyup/divvy/internal/infrastructure/metrics"
	"github.com/divvyup/divvy/internal/infrastructure/postgres"
	"github.com/divvyup/divvy/internal/infrastructure/redis"
	"github.com/divvyup/divvy/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	txManager := postgresRepo.NewTxManager(pool, cfg.LockTimeout)
	groupRepo := postgresRepo.NewGroupRepository(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	balanceCache := redisRepo.NewBalanceCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	reconciler := usecase.NewReconciler(memberRepo, expenseRepo, settlementRepo, idGen, log)
	groupUC := usecase.NewGroupUseCase(txManager, groupRepo, memberRepo, expenseRepo, outboxRepo, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, groupRepo, memberRepo, expenseRepo, outboxRepo, reconciler, idGen, retrier, m)
	settlementUC := usecase.NewSettlementUseCase(txManager, groupRepo, settlementRepo, outboxRepo, reconciler, idGen, retrier, m)
	balanceUC := usecase.NewBalanceUseCase(groupRepo, memberRepo, expenseRepo, settlementRepo, balanceCache, log)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		GroupHandler:      handler.NewGroupHandler(groupUC, log),
		ExpenseHandler:    handler.NewExpenseHandler(expenseUC, log),
		BalanceHandler:    handler.NewBalanceHandler(balanceUC, log),
		SettlementHandler: handler.NewSettlementHandler(settlementUC, log),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		Logger:            log,
		Metrics:           m,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewRedisPublisher(redisClient, "divvy.events"),
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}

	log.Info().Msg("server stopped")
}
