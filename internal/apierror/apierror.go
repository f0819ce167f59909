// Package apierror holds the JSON bodies of every 4xx/5xx response. Handlers
// never serialise raw errors; internal details stay in the logs.
package apierror

// APIError is the envelope for non-validation failures.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError lists offending fields by JSON path, e.g.
// "lineas[0].cantidad": "min".
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
