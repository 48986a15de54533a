package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mpilhlt/v2v-api/internal/chat"
	"github.com/mpilhlt/v2v-api/internal/database"

	huma "github.com/danielgtaylor/huma/v2"
)

type contextKey string

// Context keys
const (
	PoolKey      = contextKey("dbPool")
	RequestIDKey = contextKey("requestID")
)

// Error responses
var (
	ErrPoolNotFound    = errors.New("database connection pool not found in context")
	ErrGatewayNotFound = errors.New("chat gateway is nil")
)

// AddRoutes adds all the routes to the API
func AddRoutes(pool *database.DB, gateway *chat.Gateway, api huma.API) error {
	err := RegisterHealthRoutes(pool, api)
	if err != nil {
		slog.Error("unable to register health routes", "err", err)
		return err
	}
	err = RegisterChatRoutes(gateway, api)
	if err != nil {
		slog.Error("unable to register chat routes", "err", err)
		return err
	}
	return nil
}

// Middleware to add the connection pool to the context.
// A nil pool is passed on; GetDBPool reports it.
func addPoolToContext[I any, O any](pool *database.DB, next func(context.Context, *I) (*O, error)) func(context.Context, *I) (*O, error) {
	return func(ctx context.Context, input *I) (*O, error) {
		ctx = context.WithValue(ctx, PoolKey, pool)
		return next(ctx, input)
	}
}

// Get the database connection pool from the context
// (exported helper function so that blackbox testing can access it)
func GetDBPool(ctx context.Context) (*database.DB, error) {
	pool, ok := ctx.Value(PoolKey).(*database.DB)
	if !ok || pool == nil {
		return nil, huma.NewError(http.StatusInternalServerError, ErrPoolNotFound.Error())
	}
	return pool, nil
}

// GetRequestID returns the request ID set by the RequestID middleware, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// statusError maps gateway errors to HTTP errors. The message of a
// *chat.Error becomes the detail of the response as is.
func statusError(err error) error {
	var chatErr *chat.Error
	if !errors.As(err, &chatErr) {
		return huma.Error500InternalServerError(fmt.Sprintf("unexpected error. %v", err))
	}
	switch chatErr.Code {
	case chat.ErrorInvalidInput:
		return huma.Error400BadRequest(chatErr.Message)
	case chat.ErrorServiceUnavailable:
		return huma.Error503ServiceUnavailable(chatErr.Message)
	case chat.ErrorUpstream:
		return huma.Error500InternalServerError(chatErr.Message)
	default:
		return huma.Error500InternalServerError(chatErr.Message)
	}
}
