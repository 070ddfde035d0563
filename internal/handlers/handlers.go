package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/zfogg/factoryfeed/internal/database"
	apperrors "github.com/zfogg/factoryfeed/internal/errors"
	"github.com/zfogg/factoryfeed/internal/logger"
	"github.com/zfogg/factoryfeed/internal/metrics"
	"github.com/zfogg/factoryfeed/internal/repository"
	"github.com/zfogg/factoryfeed/internal/telemetry"
	"github.com/zfogg/factoryfeed/internal/timeago"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers serves feed requests delivered as API Gateway proxy events
type Handlers struct {
	db        *gorm.DB
	newRepo   func(*gorm.DB) repository.FeedRepository
	formatter *timeago.Formatter
	validate  *validator.Validate
	metrics   *metrics.Metrics
	events    *telemetry.BusinessEvents
	now       func() time.Time
}

// NewHandlers creates a handler set backed by db. The formatter renders post
// and comment timestamps.
func NewHandlers(db *gorm.DB, formatter *timeago.Formatter) *Handlers {
	return &Handlers{
		db:        db,
		newRepo:   repository.NewFeedRepository,
		formatter: formatter,
		validate:  newValidator(),
		metrics:   metrics.Get(),
		events:    telemetry.NewBusinessEvents(),
		now:       time.Now,
	}
}

// SetRepositoryFactory overrides how a repository is bound to a transaction
func (h *Handlers) SetRepositoryFactory(fn func(*gorm.DB) repository.FeedRepository) {
	h.newRepo = fn
}

// Handle is the Lambda entry point. It never returns an error: every failure
// is rendered into the response.
func (h *Handlers) Handle(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := h.now()

	method := strings.ToUpper(ev.HTTPMethod)
	if method == "" {
		method = "GET"
	}
	if method == "OPTIONS" {
		return preflightResponse(), nil
	}

	requestID := requestIDFrom(ev)
	action := Action(ev.QueryStringParameters["action"])

	fn, ok := lookup(method, action)
	if !ok {
		// Unsupported pairs are answered before any connection is taken
		err := apperrors.UnknownAction()
		h.observe(method, "unknown", requestID, err.Status(), start, err)
		return errorResponse(err, requestID), nil
	}

	ctx, span := h.events.TraceAction(ctx, method, string(action), requestID)
	status, payload, err := h.dispatch(ctx, fn, newRequest(ev))
	telemetry.EndAction(span, status, err)

	h.observe(method, string(action), requestID, status, start, err)
	if err != nil {
		return errorResponse(apperrors.AsAPIError(err), requestID), nil
	}
	return jsonResponse(status, payload, requestID), nil
}

// dispatch runs one action inside a scoped transaction. Panics are turned
// into internal errors after the transaction has been rolled back.
func (h *Handlers) dispatch(ctx context.Context, fn actionFunc, req *request) (status int, payload interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Recovered from panic in feed action", zap.Any("panic", r))
			err = apperrors.InternalError(fmt.Errorf("%v", r))
		}
		if err != nil {
			status = apperrors.AsAPIError(err).Status()
			payload = nil
		}
	}()

	err = database.Scoped(ctx, h.db, func(tx *gorm.DB) error {
		var actionErr error
		status, payload, actionErr = fn(h, ctx, h.newRepo(tx), req)
		return actionErr
	})
	return status, payload, err
}

func (h *Handlers) observe(method, action, requestID string, status int, start time.Time, err error) {
	elapsed := h.now().Sub(start)

	h.metrics.RequestsTotal.WithLabelValues(method, action, fmt.Sprintf("%d", status)).Inc()
	h.metrics.RequestDuration.WithLabelValues(action).Observe(elapsed.Seconds())

	fields := []zap.Field{
		logger.WithRequestID(requestID),
		logger.WithAction(action),
		zap.String("method", method),
		logger.WithStatus(status),
		logger.WithDuration(elapsed),
	}

	if err == nil {
		logger.Log.Info("Feed request handled", fields...)
		return
	}

	apiErr := apperrors.AsAPIError(err)
	h.metrics.ErrorsTotal.WithLabelValues(action, string(apiErr.Code)).Inc()
	fields = append(fields, zap.String("error_code", string(apiErr.Code)), zap.Error(err))
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}

	if apiErr.Code == apperrors.ErrInternalError {
		logger.Log.Error("Feed request failed", fields...)
	} else {
		logger.Log.Warn("Feed request rejected", fields...)
	}
}

// requestIDFrom prefers the gateway's request id and falls back to a new one
func requestIDFrom(ev events.APIGatewayProxyRequest) string {
	if id := ev.RequestContext.RequestID; id != "" {
		return id
	}
	for name, value := range ev.Headers {
		if strings.EqualFold(name, "X-Request-ID") && value != "" {
			return value
		}
	}
	return uuid.New().String()
}
