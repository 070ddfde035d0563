package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zfogg/factoryfeed/internal/middleware"
)

// Options configures the local HTTP front door
type Options struct {
	ServiceName    string
	TracingEnabled bool
	// HealthCheck backs /health; nil reports healthy
	HealthCheck func(context.Context) error
}

// NewRouter builds the gin engine used by `feedctl serve`. Every path other
// than /health and /metrics is forwarded to handle, mirroring a proxy+ route.
func NewRouter(handle LambdaHandler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	if opts.TracingEnabled {
		r.Use(middleware.TracingMiddleware(opts.ServiceName)...)
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/health", healthHandler(opts.HealthCheck))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(ProxyHandler(handle))

	return r
}

func healthHandler(check func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "unhealthy",
					"database": err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
