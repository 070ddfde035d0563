package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/zfogg/factoryfeed/internal/dto"
	"github.com/zfogg/factoryfeed/internal/middleware"
)

// LambdaHandler is the signature served by lambda.Start
type LambdaHandler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// ProxyHandler serves an HTTP request by converting it into an API Gateway
// proxy event, invoking handle and writing the proxy response back.
func ProxyHandler(handle LambdaHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := toProxyRequest(c)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}

		resp, err := handle(c.Request.Context(), ev)
		if err != nil {
			// API Gateway answers a failed invocation with 502
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Internal server error"})
			return
		}

		if err := writeProxyResponse(c, resp); err != nil {
			_ = c.Error(err)
		}
	}
}

func toProxyRequest(c *gin.Context) (events.APIGatewayProxyRequest, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return events.APIGatewayProxyRequest{}, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	ev := events.APIGatewayProxyRequest{
		Resource:   "/{proxy+}",
		Path:       c.Request.URL.Path,
		HTTPMethod: c.Request.Method,
	}

	// Single-value maps keep the last value, as API Gateway does
	if len(c.Request.Header) > 0 {
		ev.Headers = make(map[string]string, len(c.Request.Header))
		ev.MultiValueHeaders = make(map[string][]string, len(c.Request.Header))
		for name, values := range c.Request.Header {
			ev.Headers[name] = values[len(values)-1]
			ev.MultiValueHeaders[name] = values
		}
	}
	if query := c.Request.URL.Query(); len(query) > 0 {
		ev.QueryStringParameters = make(map[string]string, len(query))
		ev.MultiValueQueryStringParameters = make(map[string][]string, len(query))
		for name, values := range query {
			ev.QueryStringParameters[name] = values[len(values)-1]
			ev.MultiValueQueryStringParameters[name] = values
		}
	}

	if utf8.Valid(body) {
		ev.Body = string(body)
	} else {
		ev.Body = base64.StdEncoding.EncodeToString(body)
		ev.IsBase64Encoded = true
	}

	ev.RequestContext.RequestID = middleware.RequestID(c)
	ev.RequestContext.HTTPMethod = c.Request.Method
	ev.RequestContext.Path = c.Request.URL.Path
	ev.RequestContext.Identity.SourceIP = c.ClientIP()
	ev.RequestContext.Identity.UserAgent = c.Request.UserAgent()

	return ev, nil
}

func writeProxyResponse(c *gin.Context, resp events.APIGatewayProxyResponse) error {
	for name, value := range resp.Headers {
		c.Header(name, value)
	}
	for name, values := range resp.MultiValueHeaders {
		for _, value := range values {
			c.Writer.Header().Add(name, value)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			c.Status(http.StatusBadGateway)
			return fmt.Errorf("invalid base64 response body: %w", err)
		}
		body = decoded
	}

	c.Status(resp.StatusCode)
	if len(body) == 0 {
		c.Writer.WriteHeaderNow()
		return nil
	}
	_, err := c.Writer.Write(body)
	return err
}
