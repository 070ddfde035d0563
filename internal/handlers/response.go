package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/zfogg/factoryfeed/internal/dto"
	apperrors "github.com/zfogg/factoryfeed/internal/errors"
	"github.com/zfogg/factoryfeed/internal/logger"
	"go.uber.org/zap"
)

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// preflightResponse answers OPTIONS without touching the database
func preflightResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode:      http.StatusOK,
		Headers:         corsHeaders(),
		Body:            "",
		IsBase64Encoded: false,
	}
}

func jsonResponse(status int, payload interface{}, requestID string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error("Failed to encode response", zap.Error(err), logger.WithRequestID(requestID))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(dto.ErrorResponse{Error: err.Error()})
	}

	headers := corsHeaders()
	headers["Content-Type"] = "application/json"
	headers["X-Request-ID"] = requestID

	return events.APIGatewayProxyResponse{
		StatusCode:      status,
		Headers:         headers,
		Body:            string(body),
		IsBase64Encoded: false,
	}
}

// errorResponse renders any classified error as {"error": message}
func errorResponse(err *apperrors.APIError, requestID string) events.APIGatewayProxyResponse {
	return jsonResponse(err.Status(), dto.ErrorResponse{Error: err.Message}, requestID)
}
