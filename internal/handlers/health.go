package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mpilhlt/v2v-api/internal/database"
	"github.com/mpilhlt/v2v-api/internal/models"

	"github.com/danielgtaylor/huma/v2"
)

func healthFunc(ctx context.Context, input *models.HealthRequest) (*models.HealthResponse, error) {
	response := &models.HealthResponse{}
	response.Body.Status = "ok"
	return response, nil
}

func readinessFunc(ctx context.Context, input *models.ReadinessRequest) (*models.ReadinessResponse, error) {
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, huma.Error503ServiceUnavailable("database not configured")
	}
	if err := database.Ping(ctx, pool); err != nil {
		return nil, huma.Error503ServiceUnavailable(fmt.Sprintf("database unavailable. %v", err))
	}
	response := &models.ReadinessResponse{}
	response.Body.Status = "ok"
	response.Body.Database = "ok"
	return response, nil
}

// RegisterHealthRoutes registers the health and readiness routes with the API
func RegisterHealthRoutes(pool *database.DB, api huma.API) error {
	healthOp := huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/api",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}
	readinessOp := huma.Operation{
		OperationID: "readiness",
		Method:      http.MethodGet,
		Path:        "/api/ready",
		Summary:     "Check that the database can be reached",
		Errors:      []int{http.StatusServiceUnavailable},
		Tags:        []string{"health"},
	}

	huma.Register(api, healthOp, healthFunc)
	huma.Register(api, readinessOp, addPoolToContext(pool, readinessFunc))
	return nil
}
