// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package groq

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for the failure categories surfaced to users.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("API key not configured")

	// ErrBusy indicates a stream is already in flight on this client.
	ErrBusy = errors.New("a request is already in progress")

	// ErrAuthFailed indicates the API rejected the bearer token (HTTP 401).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made (HTTP 429).
	ErrRateLimited = errors.New("rate limited")

	// ErrRequestFailed covers any other status and transport failures.
	ErrRequestFailed = errors.New("request failed")

	// ErrNoBody indicates a success status without a response body.
	ErrNoBody = errors.New("response has no body")
)

// APIError is a non-success HTTP response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%v [%s] (HTTP %d): %s", e.Unwrap(), e.Code, e.Status, msg)
	}
	return fmt.Sprintf("%v (HTTP %d): %s", e.Unwrap(), e.Status, msg)
}

// Unwrap maps the status to its failure category so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrRequestFailed
	}
}

// apiErrorResponse is the OpenAI-style error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newAPIError builds an APIError from a status and (possibly empty) body.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if len(apiErr.Message) > maxErrorBodyChars {
		apiErr.Message = strings.ToValidUTF8(apiErr.Message[:maxErrorBodyChars], "") + "..."
	}
	return apiErr
}
