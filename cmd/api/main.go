package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fruitify/fruitify-backend/api/routes"
	"github.com/fruitify/fruitify-backend/internal/auth"
	"github.com/fruitify/fruitify-backend/internal/cron"
	"github.com/fruitify/fruitify-backend/internal/inventory"
	"github.com/fruitify/fruitify-backend/internal/notify"
	"github.com/fruitify/fruitify-backend/internal/notify/email"
	"github.com/fruitify/fruitify-backend/internal/notify/telegram"
	"github.com/fruitify/fruitify-backend/internal/orders"
	"github.com/fruitify/fruitify-backend/internal/payments"
	"github.com/fruitify/fruitify-backend/internal/products"
	"github.com/fruitify/fruitify-backend/internal/realtime"
	"github.com/fruitify/fruitify-backend/internal/users"
	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/fruitify/fruitify-backend/pkg/metrics"
	"github.com/fruitify/fruitify-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := db.MaybeAutoMigrate(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	notificationMetrics := metrics.NewNotificationMetrics(registry)
	cronMetrics := metrics.NewCronJobMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	telegramLogRepo := telegram.NewLogRepository(dbClient.DB())
	resolver := inventory.NewResolver(dbClient.DB())
	hub := realtime.NewHub(logg)

	telegramNotifier, err := telegram.NewNotifier(cfg.Telegram, telegramLogRepo, notificationMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create telegram notifier", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(cfg.Email, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	dispatcher, err := notify.NewDispatcher(mailer, telegramNotifier, hub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, resolver, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	var gateway payments.GatewayClient
	if cfg.Razorpay.Configured() {
		gateway = payments.NewRazorpayClient(cfg.Razorpay)
	}
	paymentsService, err := payments.NewService(ordersRepo, gateway, cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retentionJob, err := cron.NewTelegramLogRetentionJob(cron.TelegramLogRetentionJobParams{
		Logger:        logg,
		Repository:    telegramLogRepo,
		RetentionDays: cfg.Cron.TelegramLogRetention,
	})
	if err != nil {
		logg.Error(ctx, "failed to create retention job", err)
		os.Exit(1)
	}
	failureWatchJob, err := cron.NewTelegramFailureWatchJob(cron.TelegramFailureWatchJobParams{
		Logger:  logg,
		Checker: telegramNotifier,
	})
	if err != nil {
		logg.Error(ctx, "failed to create failure watch job", err)
		os.Exit(1)
	}
	cronLock, err := cron.NewRedisLock(redisClient, "cron:maintenance", cfg.Cron.Interval+time.Hour)
	if err != nil {
		logg.Error(ctx, "failed to create cron lock", err)
		os.Exit(1)
	}
	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{retentionJob, failureWatchJob},
		Lock:     cronLock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		os.Exit(1)
	}
	go func() {
		if err := cronService.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "cron service stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			Registry:         registry,
			HTTPMetrics:      httpMetrics,
			AuthService:      authService,
			ProductsService:  productsService,
			OrdersService:    ordersService,
			PaymentsService:  paymentsService,
			UsersRepo:        usersRepo,
			TelegramNotifier: telegramNotifier,
			Hub:              hub,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
		if err := dispatcher.Drain(shutdownCtx); err != nil {
			logg.Warn(startCtx, "notification drain timed out")
		}
	}
}
