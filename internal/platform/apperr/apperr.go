// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

/*
Package apperr defines the centralized error handling framework for the console.

It provides two error families that bridge the gap between the remote MES API,
local validation, and the console shell's HTTP responses.

Architecture:

  - APIError: A normalized upstream failure carrying the remote status code
    and the server-provided message.
  - AppError: A local error type containing machine-readable ErrorCode and
    user-friendly messages, plus per-field validation details.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the store layer should be one of these two types to
ensure consistent surfaces in the shell.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Upstream Errors

// APIError is the normalized form of any non-2xx answer from the MES API.
//
// Message is taken from the parsed JSON body's "message" field when present,
// or a generic fallback otherwise. StatusCode is the upstream HTTP status.
// Code carries the body's optional "error" discriminator.
type APIError struct {
	// Message is the human-readable description, safe to surface in forms.
	Message string `json:"message"`
	// StatusCode is the upstream HTTP status code.
	StatusCode int `json:"statusCode"`
	// Code is the optional machine-readable discriminator from the body.
	Code string `json:"error,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// APIStatus extracts the upstream status code from err's chain.
// It returns 0 when err does not carry an [*APIError].
func APIStatus(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// APIMessage extracts the upstream message from err's chain, or fallback
// when err is a transport failure with no normalized message.
func APIMessage(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// # Local Errors

// AppError is the canonical error type for the console's own surfaces.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "VALIDATION_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
