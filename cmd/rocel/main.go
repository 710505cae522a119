package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"rocel/internal/amqp"
	"rocel/internal/backend"
	"rocel/internal/cli"
	apphttp "rocel/internal/http"
	"rocel/internal/log"
	"rocel/internal/query"
	"rocel/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	logger.Info("Starting rocel server")

	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).Create(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend",
			log.FieldError, err.Error(),
			log.FieldBackend, backendCfg.Type.String())
		os.Exit(1)
	}

	st := store.New(result.Persister, logger)
	st.Load(context.Background())

	// Publishing transaction events is optional; the server runs without
	// a broker.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect to AMQP, events disabled", log.FieldError, err.Error())
		} else {
			st.SetNotifier(amqpClient)
			logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, st, query.New(), logger, cfg.RateLimitPerMin)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", log.FieldError, err.Error())
			}
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err.Error())
			}
		}
	})

	logger.Info("Server listening",
		"port", cfg.Port,
		log.FieldBackend, backendCfg.Type.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
