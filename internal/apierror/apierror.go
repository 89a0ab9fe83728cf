// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// Error is a service-level error that carries the HTTP status class it maps
// to. Handlers unwrap it with errors.As; anything that is not an *Error is
// reported as a generic 500 so store internals never reach the client.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// InvalidID reports a path/body id that is not a well-formed store id.
// Distinct from NotFound: the id could never match anything.
func InvalidID(field string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: "invalid id format: " + field}
}

func NotFound(entity string) *Error {
	return &Error{Status: http.StatusNotFound, Detail: entity + " not found"}
}

// DuplicateSKU signals a product create against an already-taken sku.
func DuplicateSKU(sku string) *Error {
	return &Error{Status: http.StatusConflict, Detail: fmt.Sprintf("SKU already exists: %s", sku)}
}

// InsufficientStock names the product so the caller can identify the
// offending line item.
func InsufficientStock(name string) *Error {
	return &Error{Status: http.StatusConflict, Detail: fmt.Sprintf("insufficient stock for %s", name)}
}

// ProductNotFound reports a draft line item referencing an unknown product.
// Client error on the request body, not on the path, hence 400 rather than 404.
func ProductNotFound(id string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: "product not found: " + id}
}

func Invalid(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: msg}
}

// Unavailable reports that a backing store cannot be reached.
func Unavailable(what string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Detail: what + " unavailable"}
}
