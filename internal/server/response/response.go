// Package response provides the standardized JSON envelope used by every
// read-API endpoint: a data field on success, an error field on failure.
// Hydration clients rely on this shape.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	verrors "github.com/verdantlabs/verdant/pkg/errors"
)

// Response is the envelope returned by all API endpoints.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error carries a machine-readable code and human-readable message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{Code: code, Message: message, Details: details},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; encoding errors are best effort.
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Created writes a successful response with 201 status.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter) {
	JSON(w, http.StatusMethodNotAllowed, Fail("METHOD_NOT_ALLOWED", "Method not allowed", ""))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail("SERVICE_UNAVAILABLE", message, ""))
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter, message string) {
	JSON(w, http.StatusInternalServerError, Fail("INTERNAL_ERROR", "Internal server error", message))
}

// FromError maps a domain error onto the right HTTP error response.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, verrors.ErrNotFound):
		NotFound(w, err.Error(), "")
	case errors.Is(err, verrors.ErrInvalidInput), errors.Is(err, verrors.ErrAlreadyExists):
		BadRequest(w, err.Error(), "")
	case errors.Is(err, verrors.ErrUnavailable):
		ServiceUnavailable(w, err.Error())
	default:
		InternalError(w, err.Error())
	}
}
