package models

// Health check
// GET Path: "/api"

type HealthRequest struct{}

type HealthResponse struct {
	Body struct {
		Status string `json:"status" doc:"Always ok while the process serves requests" example:"ok"`
	}
}

// Readiness check
// GET Path: "/api/ready"

type ReadinessRequest struct{}

type ReadinessResponse struct {
	Body struct {
		Status   string `json:"status" doc:"ok when all dependencies are reachable" example:"ok"`
		Database string `json:"database" doc:"State of the database connection" example:"ok"`
	}
}
