package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mpilhlt/v2v-api/internal/chat"
	"github.com/mpilhlt/v2v-api/internal/models"

	"github.com/danielgtaylor/huma/v2"
)

func postChatFunc(gateway *chat.Gateway) func(context.Context, *models.PostChatRequest) (*models.ChatResponse, error) {
	return func(ctx context.Context, input *models.PostChatRequest) (*models.ChatResponse, error) {
		reply, err := gateway.Submit(ctx, input.Body.Message)
		if err != nil {
			slog.WarnContext(ctx, "chat request failed", "request_id", GetRequestID(ctx), "err", err)
			return nil, statusError(err)
		}
		response := &models.ChatResponse{}
		response.Body.Response = reply
		return response, nil
	}
}

func getChatFunc(gateway *chat.Gateway) func(context.Context, *models.GetChatRequest) (*models.ChatResponse, error) {
	return func(ctx context.Context, input *models.GetChatRequest) (*models.ChatResponse, error) {
		reply, err := gateway.SubmitQuery(ctx, input.Message)
		if err != nil {
			slog.WarnContext(ctx, "chat request failed", "request_id", GetRequestID(ctx), "err", err)
			return nil, statusError(err)
		}
		response := &models.ChatResponse{}
		response.Body.Response = reply
		return response, nil
	}
}

// RegisterChatRoutes registers the chat routes with the API
func RegisterChatRoutes(gateway *chat.Gateway, api huma.API) error {
	if gateway == nil {
		return ErrGatewayNotFound
	}

	postChatOp := huma.Operation{
		OperationID:   "postChat",
		Method:        http.MethodPost,
		Path:          "/api/chat",
		DefaultStatus: http.StatusOK,
		Summary:       "Forward a message to the completion provider",
		Description:   "Trims the message, sends it as a single user turn and returns the trimmed first completion.",
		Errors:        []int{http.StatusBadRequest, http.StatusServiceUnavailable, http.StatusInternalServerError},
		Tags:          []string{"chat"},
	}
	getChatOp := huma.Operation{
		OperationID:   "getChat",
		Method:        http.MethodGet,
		Path:          "/api/gpt",
		DefaultStatus: http.StatusOK,
		Summary:       "Forward a message given as query parameter to the completion provider",
		Errors:        []int{http.StatusBadRequest, http.StatusServiceUnavailable, http.StatusInternalServerError},
		Tags:          []string{"chat"},
	}

	huma.Register(api, postChatOp, postChatFunc(gateway))
	huma.Register(api, getChatOp, getChatFunc(gateway))
	return nil
}
