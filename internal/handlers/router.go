package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// APIConfig returns the huma configuration for the service. Response bodies
// are plain JSON without a $schema link.
func APIConfig() huma.Config {
	config := huma.DefaultConfig("v2v API", "0.1.0")
	config.CreateHooks = nil
	config.Transformers = nil
	return config
}

// CORSConfig allows the given origins with any method, and credentials.
// Allowed request headers are not listed here: a wildcard is taken literally
// by browsers once credentials are allowed, so CORS echoes the requested
// headers instead.
func CORSConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// ValidateOrigins checks the allow-list before it is handed to CORS, which
// panics on a bad entry. An empty list is valid and disables CORS.
func ValidateOrigins(origins []string) error {
	if len(origins) == 0 {
		return nil
	}
	for _, origin := range origins {
		if origin == "*" {
			return errors.New("bad origin: '*' cannot be combined with credentials")
		}
	}
	return CORSConfig(origins).Validate()
}

// CORS adds CORS headers for allowed origins. Requests from any other origin
// are served without CORS headers, so the browser rather than the server
// decides what the page may read. On preflight the requested headers are
// echoed back as allowed.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[strings.ToLower(origin)] = true
	}
	handler := cors.New(CORSConfig(origins))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !allowed[origin] {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodOptions {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}
		handler(c)
	}
}

// NewRouter creates the gin engine with recovery, access logging and CORS,
// and mounts a huma API on it. Without origins no CORS headers are sent.
// The origins must have passed ValidateOrigins.
func NewRouter(origins []string, logger *slog.Logger) (*gin.Engine, huma.API) {
	if logger == nil {
		logger = slog.Default()
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(AccessLog(logger))
	if len(origins) > 0 {
		engine.Use(CORS(origins))
	}

	api := humagin.New(engine, APIConfig())
	api.UseMiddleware(RequestID(api))
	return engine, api
}

// RequestID reuses the inbound X-Request-Id header or creates a new one, puts
// it into the context and echoes it on the response.
func RequestID(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		id := strings.TrimSpace(ctx.Header(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.SetHeader(RequestIDHeader, id)
		ctx = huma.WithValue(ctx, RequestIDKey, id)
		next(ctx)
	}
}

// AccessLog writes one log line per request once it has been served.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.Writer.Header().Get(RequestIDHeader),
		)
	}
}
