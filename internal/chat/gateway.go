package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

const (
	MsgEmptyMessage       = "Message cannot be empty"
	MsgMissingQueryParam  = "message query param required"
	MsgProviderNotPresent = "provider not configured on server"
)

// Completer submits a single user turn to a completion provider and returns
// the text of the first choice.
type Completer interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// Gateway validates chat messages and forwards them to the provider.
// It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	completer Completer
	model     string
	logger    *slog.Logger
}

// NewGateway creates a Gateway. A nil completer is allowed and means that no
// provider credential is configured; Submit then fails with
// ErrorServiceUnavailable.
func NewGateway(completer Completer, model string, logger *slog.Logger) (*Gateway, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("chat: model must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		completer: completer,
		model:     model,
		logger:    logger,
	}, nil
}

// Configured reports whether a provider is available.
func (g *Gateway) Configured() bool {
	return g.completer != nil
}

// Model returns the completion model sent with every request.
func (g *Gateway) Model() string {
	return g.model
}

// Submit forwards message to the provider and returns the trimmed completion.
func (g *Gateway) Submit(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", newError(ErrorInvalidInput, MsgEmptyMessage, nil)
	}
	if !g.Configured() {
		return "", newError(ErrorServiceUnavailable, MsgProviderNotPresent, nil)
	}

	g.logger.DebugContext(ctx, "forwarding message to provider", "model", g.model, "length", len(message))
	content, err := g.completer.Complete(ctx, g.model, message)
	if err != nil {
		g.logger.ErrorContext(ctx, "provider call failed", "model", g.model, "err", err)
		return "", newError(ErrorUpstream, err.Error(), err)
	}
	return strings.TrimSpace(content), nil
}

// SubmitQuery is the variant used for query parameters: a missing or blank
// value is rejected before delegating to Submit.
func (g *Gateway) SubmitQuery(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", newError(ErrorInvalidInput, MsgMissingQueryParam, nil)
	}
	return g.Submit(ctx, message)
}
