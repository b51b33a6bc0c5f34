package dto

// HealthResponse represents a health check response
type HealthResponse struct {
	Success bool `json:"success"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
}

// ErrorResponse represents a raised failure
type ErrorResponse struct {
	Success bool          `json:"success"`
	Code    string        `json:"code"`
	Error   string        `json:"error"`
	Details []ErrorDetail `json:"details,omitempty"`
}
