package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mpilhlt/v2v-api/internal/chat"
	"github.com/mpilhlt/v2v-api/internal/database"
	"github.com/mpilhlt/v2v-api/internal/handlers"
	"github.com/mpilhlt/v2v-api/internal/models"
	"github.com/mpilhlt/v2v-api/internal/paramstore"
	"github.com/mpilhlt/v2v-api/internal/provider"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	huma "github.com/danielgtaylor/huma/v2"
)

// newParamGetter is replaced in tests.
var newParamGetter = func(ctx context.Context) (paramstore.Getter, error) {
	return paramstore.NewFromEnv(ctx)
}

func main() {
	// A missing .env file is fine; it only fills in the environment.
	_ = godotenv.Load()

	var api huma.API

	// Create a CLI app
	cli := humacli.New(func(hooks humacli.Hooks, options *models.Options) {
		logger := newLogger(options.Debug)
		slog.SetDefault(logger)
		if !options.Debug {
			gin.SetMode(gin.ReleaseMode)
		}

		logger.Info("=== Starting v2v API ...",
			"debug", options.Debug, "host", options.Host, "port", options.Port, "model", options.Model)

		ctx := context.Background()

		// Initialize the database pool; it connects on first use.
		// Without one the service still runs and /api/ready answers 503.
		pool, err := database.Open(ctx, database.ResolveURL(options.DatabaseURL))
		if err != nil {
			logger.Error("unable to configure database, continuing without one", "err", err)
			pool = nil
		} else {
			logger.Info("database configured", "database", pool.Describe())
		}

		gateway, err := newGateway(ctx, options, logger)
		if err != nil {
			logger.Error("unable to create chat gateway", "err", err)
			os.Exit(1)
		}

		origins := options.OriginList()
		if err := handlers.ValidateOrigins(origins); err != nil {
			logger.Error("invalid allowed origins", "origins", options.AllowedOrigins, "err", err)
			os.Exit(1)
		}

		// Create a new router & API
		var engine *gin.Engine
		engine, api = handlers.NewRouter(origins, logger)

		// Add routes to the API
		err = handlers.AddRoutes(pool, gateway, api)
		if err != nil {
			logger.Error("unable to add routes", "err", err)
			os.Exit(1)
		}

		// Create the HTTP server
		server := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", options.Host, options.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Start server
		hooks.OnStart(func() {
			logger.Info("=== Starting API server", "addr", server.Addr)
			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("listen error", "err", err)
			} else {
				logger.Info("API server stopped", "addr", server.Addr)
			}
		})

		// Gracefully shutdown server
		hooks.OnStop(func() {
			logger.Info("=== Shutting down API server", "addr", server.Addr)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Error("shutdown error", "err", err)
			}

			logger.Info("closing database pool", "active_connections", pool.OpenConns())
			pool.Close()
			logger.Info("=== v2v API stopped")
		})
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI spec",
		Run: func(cmd *cobra.Command, args []string) {
			b, err := api.OpenAPI().YAML()
			if err != nil {
				fmt.Fprintf(os.Stderr, "unable to render OpenAPI spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(b))
		},
	})

	// Run the CLI. When passed no commands, it starts the server.
	cli.Run()
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newGateway builds the chat gateway. Without a provider key the gateway is
// still created; the chat endpoints then answer 503.
func newGateway(ctx context.Context, options *models.Options, logger *slog.Logger) (*chat.Gateway, error) {
	var completer chat.Completer

	key := resolveProviderKey(ctx, options, logger)
	if key != "" {
		client, err := provider.NewClient(key, provider.WithBaseURL(options.ProviderURL))
		if err != nil {
			return nil, err
		}
		completer = client
	} else {
		logger.Warn("no provider API key configured, chat endpoints are disabled")
	}

	return chat.NewGateway(completer, options.Model, logger)
}

// resolveProviderKey returns the provider API key from, in order, the
// --provider-key option, OPENAI_API_KEY and the SSM parameter named by
// --provider-key-param. It returns "" when none is available.
func resolveProviderKey(ctx context.Context, options *models.Options, logger *slog.Logger) string {
	if key := strings.TrimSpace(options.ProviderKey); key != "" {
		return key
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		return key
	}
	name := strings.TrimSpace(options.ProviderKeyParam)
	if name == "" {
		return ""
	}

	getter, err := newParamGetter(ctx)
	if err != nil {
		logger.Warn("unable to create parameter store client", "err", err)
		return ""
	}
	key, err := paramstore.LoadAPIKey(ctx, getter, name)
	if err != nil {
		logger.Warn("unable to load provider API key", "parameter", name, "err", err)
		return ""
	}
	return key
}
