// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	// Campo names the offending field for invalid-reference errors.
	Campo string `json:"campo,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// NewCampo builds an error that points at a single request field.
func NewCampo(msg, campo string) *APIError {
	return &APIError{Detail: msg, Campo: campo}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
