package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/zfogg/factoryfeed/internal/container"
	"github.com/zfogg/factoryfeed/internal/logger"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	c, err := container.Bootstrap(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start feed API: %v\n", err)
		os.Exit(1)
	}

	cfg := c.Config()
	logger.Log.Info("Feed API starting",
		zap.String("environment", cfg.Environment),
		zap.String("locale", cfg.Locale),
		zap.Bool("tracing", cfg.Tracing.Enabled),
	)

	lambda.StartWithOptions(c.Handlers().Handle,
		lambda.WithEnableSIGTERM(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()
			logger.Log.Info("Feed API shutting down")
			c.Cleanup(shutdownCtx)
		}),
	)
}
