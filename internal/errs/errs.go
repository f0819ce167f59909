// Package errs defines the error kinds shared by the store, the services and
// the HTTP layer. Callers compare with errors.Is / errors.As.
package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("no encontrado")
	ErrAlreadyExists      = errors.New("ya existe")
	ErrInvalidCredentials = errors.New("credenciales invalidas")
	ErrUnavailable        = errors.New("servicio no disponible")
)

// ValidationError reports rejected input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validacion: " + strings.Join(parts, ", ")
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// Collector accumulates field violations so every problem is reported at once.
type Collector struct {
	fields map[string]string
}

func (c *Collector) Add(field, reason string) {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	if _, ok := c.fields[field]; !ok {
		c.fields[field] = reason
	}
}

// Err returns nil when nothing was collected.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}
