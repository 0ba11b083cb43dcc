package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"meudinheiro/internal/aggregate"
	"meudinheiro/internal/amqp"
	"meudinheiro/internal/azure"
	"meudinheiro/internal/backend"
	"meudinheiro/internal/cache"
	"meudinheiro/internal/cli"
	"meudinheiro/internal/config"
	"meudinheiro/internal/core"
	apphttp "meudinheiro/internal/http"
	"meudinheiro/internal/log"
	"meudinheiro/internal/middleware/ratelimit"
	"meudinheiro/internal/notify"
	"meudinheiro/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	cacheSweepEvery = time.Minute
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	envErr := cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	if envErr != nil {
		logger.Warn("Ignoring .env file", log.FieldError, envErr)
	}

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		return err
	}

	ctx, cancel := cli.ShutdownContext(context.Background(), logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.FieldErrorType, log.ErrorTypeDatabase,
			log.FieldError, err,
			"backend", cfg.DataBackend)
		return err
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	var publishers []notify.Publisher
	if client := connectAMQP(cfg, logger); client != nil {
		defer client.Close()
		publishers = append(publishers, client)
	}
	if p := connectAzureQueue(cfg, logger); p != nil {
		publishers = append(publishers, p)
	}
	queue := notify.New(cfg.NotificationTTL, notify.Combine(publishers...), logger)
	defer queue.Close()

	dashboards := cache.NewLRUCache[aggregate.Dashboard](32, 5*time.Minute)
	caches := cache.NewManager(logger)
	caches.Register(dashboards)

	monitor := services.NewDueMonitor(
		result.Store.Transactions(),
		queue,
		services.WindowRule{Days: cfg.DueWindowDays},
		cfg.DueMonitorDedup,
		logger,
	)
	session := services.NewSession(services.SessionConfig{
		Store:        result.Store,
		Queue:        queue,
		Monitor:      monitor,
		Dashboards:   dashboards,
		Logger:       logger,
		CashFlowSeed: core.Money{Cents: cfg.CashFlowSeed},
	})

	var limiter *ratelimit.Limiter
	if cfg.RateLimitRPM > 0 {
		limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitRPM})
	}
	srv := apphttp.NewServer(":"+cfg.Port, session, apphttp.Options{Logger: logger, Limiter: limiter})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting meudinheiro server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"due_window_days", cfg.DueWindowDays)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		return session.RunDueMonitor(gctx, cfg.DueCheckInterval)
	})
	g.Go(func() error {
		return caches.Run(gctx, cacheSweepEvery)
	})
	if limiter != nil {
		g.Go(func() error {
			return limiter.Run(gctx)
		})
	}

	err = g.Wait()
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
	return err
}

// connectAMQP dials the broker when AMQP_URL is set. A broker that is
// unreachable at startup leaves notifications local to the process.
func connectAMQP(cfg *config.Config, logger *log.Logger) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - notifications stay in process")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Warn("AMQP unavailable - notifications stay in process", log.FieldError, err)
		return nil
	}
	logger.Info("AMQP publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

func connectAzureQueue(cfg *config.Config, logger *log.Logger) *azure.QueuePublisher {
	if cfg.AzureQueueURL == "" {
		return nil
	}
	p, err := azure.NewQueuePublisher(azure.QueueConfig{
		ServiceURL:  cfg.AzureQueueURL,
		QueueName:   cfg.AzureQueueName,
		AccountName: cfg.AzureQueueAccount,
		AccountKey:  cfg.AzureQueueKey,
	}, logger)
	if err != nil {
		logger.Warn("Azure queue unavailable - notifications not forwarded there", log.FieldError, err)
		return nil
	}
	logger.Info("Azure queue publisher configured", "queue", cfg.AzureQueueName)
	return p
}
