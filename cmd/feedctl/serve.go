package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/zfogg/factoryfeed/internal/container"
	"github.com/zfogg/factoryfeed/internal/database"
	"github.com/zfogg/factoryfeed/internal/logger"
	"github.com/zfogg/factoryfeed/internal/server"
	"go.uber.org/zap"
)

var (
	serveAddr    string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the feed handler over HTTP for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(c *container.Container) error {
			cfg := c.Config()
			if serveAddr == "" {
				serveAddr = cfg.HTTPAddr
			}
			if !cfg.IsDevelopment() {
				gin.SetMode(gin.ReleaseMode)
			}

			if serveMigrate {
				if err := database.Migrate(c.DB()); err != nil {
					return err
				}
			}

			router := server.NewRouter(c.Handlers().Handle, server.Options{
				ServiceName:    cfg.Tracing.ServiceName,
				TracingEnabled: cfg.Tracing.Enabled,
				HealthCheck:    database.Health,
			})

			srv := &http.Server{
				Addr:              serveAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Log.Info("Dev server listening", zap.String("addr", serveAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			logger.Log.Info("Shutting down dev server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return <-errCh
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Run migrations before serving")
}
