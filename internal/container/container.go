// Package container wires the feed's dependencies once per process and tears
// them down in reverse order.
package container

import (
	"context"
	"fmt"
	"sync"

	"github.com/zfogg/factoryfeed/internal/config"
	"github.com/zfogg/factoryfeed/internal/database"
	"github.com/zfogg/factoryfeed/internal/handlers"
	"github.com/zfogg/factoryfeed/internal/logger"
	"github.com/zfogg/factoryfeed/internal/metrics"
	"github.com/zfogg/factoryfeed/internal/telemetry"
	"github.com/zfogg/factoryfeed/internal/timeago"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds the process-wide dependencies
type Container struct {
	cfg       *config.Config
	db        *gorm.DB
	formatter *timeago.Formatter
	handlers  *handlers.Handlers

	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// New creates an empty container for cfg
func New(cfg *config.Config) *Container {
	return &Container{cfg: cfg}
}

// Bootstrap loads configuration and brings up logging, tracing, the database
// pool and the request handlers.
func Bootstrap(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c := New(cfg)
	c.OnCleanup(func(context.Context) error { return logger.Close() })

	tp, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName:  cfg.Tracing.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
	})
	if err != nil {
		// Tracing is optional; keep serving without it
		logger.WarnWithFields("Failed to initialize tracing", err)
	} else if tp != nil {
		c.OnCleanup(tp.Shutdown)
	}

	if err := database.Initialize(cfg); err != nil {
		c.Cleanup(ctx)
		return nil, err
	}
	c.OnCleanup(func(context.Context) error { return database.Close() })

	metrics.Initialize()

	locale, _ := timeago.LocaleFor(cfg.Locale)
	c.SetDB(database.DB).SetFormatter(timeago.New(locale))
	c.SetHandlers(handlers.NewHandlers(c.DB(), c.Formatter()))

	if err := c.Validate(); err != nil {
		c.Cleanup(ctx)
		return nil, err
	}
	return c, nil
}

// Config returns the loaded configuration
func (c *Container) Config() *config.Config {
	return c.cfg
}

// SetDB registers the database connection
func (c *Container) SetDB(db *gorm.DB) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = db
	return c
}

// DB returns the database connection
func (c *Container) DB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// SetFormatter registers the timestamp formatter
func (c *Container) SetFormatter(f *timeago.Formatter) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formatter = f
	return c
}

// Formatter returns the timestamp formatter
func (c *Container) Formatter() *timeago.Formatter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formatter
}

// SetHandlers registers the request handlers
func (c *Container) SetHandlers(h *handlers.Handlers) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = h
	return c
}

// Handlers returns the request handlers
func (c *Container) Handlers() *handlers.Handlers {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handlers
}

// OnCleanup registers fn to run during Cleanup
func (c *Container) OnCleanup(fn func(context.Context) error) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
	return c
}

// Cleanup runs registered cleanup functions in reverse order. Failures are
// logged and do not stop the remaining functions.
func (c *Container) Cleanup(ctx context.Context) {
	c.mu.Lock()
	funcs := c.cleanupFuncs
	c.cleanupFuncs = nil
	c.mu.Unlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			logger.Log.Error("Cleanup function failed", zap.Int("index", i), zap.Error(err))
		}
	}
}

// Validate checks that every required dependency has been registered
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []string
	if c.cfg == nil {
		missing = append(missing, "config")
	}
	if c.db == nil {
		missing = append(missing, "database")
	}
	if c.formatter == nil {
		missing = append(missing, "formatter")
	}
	if c.handlers == nil {
		missing = append(missing, "handlers")
	}

	if len(missing) > 0 {
		return NewInitializationError("container is missing dependencies", missing)
	}
	return nil
}
