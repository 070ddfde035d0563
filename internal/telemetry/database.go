package telemetry

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	dbSystemKey    = "db.system"
	dbTableKey     = "db.table"
	dbOperationKey = "db.operation"
	dbStatementKey = "db.statement"

	spanKey      = "otel:span"
	startTimeKey = "otel:startTime"

	maxStatementLen = 500
)

// GORMTracingPlugin returns a GORM plugin that opens a span per statement
func GORMTracingPlugin() gorm.Plugin {
	return &tracingPlugin{tracer: otel.Tracer("gorm")}
}

type tracingPlugin struct {
	tracer trace.Tracer
}

func (p *tracingPlugin) Name() string {
	return "telemetry:tracing"
}

func (p *tracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		name      string
		operation string
		register  func(before, after func(*gorm.DB)) error
	}{
		{"query", "SELECT", func(before, after func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("telemetry:before_query", before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("telemetry:after_query", after)
		}},
		{"create", "INSERT", func(before, after func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("telemetry:before_create", before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("telemetry:after_create", after)
		}},
		{"update", "UPDATE", func(before, after func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("telemetry:before_update", before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("telemetry:after_update", after)
		}},
		{"delete", "DELETE", func(before, after func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after)
		}},
		{"raw", "RAW", func(before, after func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after)
		}},
		{"row", "ROW", func(before, after func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register("telemetry:before_row", before); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register("telemetry:after_row", after)
		}},
	}

	for _, h := range hooks {
		op := h.operation
		if err := h.register(func(db *gorm.DB) { p.startSpan(db, op) }, p.endSpan); err != nil {
			return fmt.Errorf("failed to register %s callbacks: %w", h.name, err)
		}
	}
	return nil
}

func (p *tracingPlugin) startSpan(db *gorm.DB, operation string) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	table := db.Statement.Table
	if table == "" {
		table = "unknown"
	}

	_, span := p.tracer.Start(ctx, "db."+strings.ToLower(operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(dbSystemKey, db.Dialector.Name()),
			attribute.String(dbTableKey, table),
			attribute.String(dbOperationKey, operation),
		),
	)

	db.InstanceSet(spanKey, span)
	db.InstanceSet(startTimeKey, time.Now())
}

func (p *tracingPlugin) endSpan(db *gorm.DB) {
	spanRaw, exists := db.InstanceGet(spanKey)
	if !exists {
		return
	}
	span, ok := spanRaw.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if startRaw, exists := db.InstanceGet(startTimeKey); exists {
		if start, ok := startRaw.(time.Time); ok {
			span.SetAttributes(attribute.Int64("db.duration_ms", time.Since(start).Milliseconds()))
		}
	}

	if sql := db.Statement.SQL.String(); sql != "" {
		span.SetAttributes(attribute.String(dbStatementKey, truncateStatement(sql, maxStatementLen)))
	}

	if db.RowsAffected > 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
	}

	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}

// truncateStatement cuts sql to at most limit bytes without splitting a rune
func truncateStatement(sql string, limit int) string {
	if len(sql) <= limit {
		return sql
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(sql[cut]) {
		cut--
	}
	return sql[:cut] + "... (truncated)"
}
