package main

import (
	"context"
	"os"
	"time"

	"rocel/internal/amqp"
	"rocel/internal/cli"
	"rocel/internal/log"
	"rocel/internal/sheets"
	gsheet "rocel/internal/sheets/google"
	mem "rocel/internal/sheets/memory"
	"rocel/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting rocel-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// Mirror to Google Sheets when configured, otherwise keep rows in
	// memory so the consumer still drains the queue.
	var mirror sheets.Mirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err.Error())
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		mirror = mem.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID set, mirroring to memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	w := worker.NewMirrorWorker(mirror, logger)
	logger.Info("Consuming transaction events", "queue", cfg.AMQPQueue)
	runErr := w.Run(ctx, amqpClient)

	// Close the broker connection only after the consumer has stopped.
	if err := amqpClient.Close(); err != nil {
		logger.Error("AMQP close error", log.FieldError, err.Error())
	}
	if runErr != nil {
		logger.Error("Worker stopped with error", log.FieldError, runErr.Error())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
