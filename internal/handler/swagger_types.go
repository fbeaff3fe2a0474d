package handler

import (
	"github.com/google/uuid"

	"snapdocs/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
	Daemon string `json:"daemon,omitempty" example:"ok"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"document deleted"`
}

// WorkflowStatusResponse represents the workflow status of a stored document.
type WorkflowStatusResponse struct {
	ID     uuid.UUID             `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status domain.WorkflowStatus `json:"status" example:"completed"`
}
