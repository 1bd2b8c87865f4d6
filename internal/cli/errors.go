// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/groq"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration problem
	ExitConfigError = 3
	// ExitAuthError indicates a missing or rejected API key
	ExitAuthError = 4
	// ExitNetworkError indicates the API could not be reached or failed
	ExitNetworkError = 5
	// ExitNotFoundError indicates a conversation was not found
	ExitNotFoundError = 7
	// ExitInterrupted indicates the user pressed Ctrl+C
	ExitInterrupted = 130
)

// errCancelled is returned by ask when the user interrupts the stream.
var errCancelled = errors.New("cancelled")

// GetExitCode maps err to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, errCancelled) {
		return ExitInterrupted
	}

	var validationErr *config.ValidationError
	var apiErr *groq.APIError
	var ttyErr *TTYRequiredError
	switch {
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, groq.ErrNotConfigured), errors.Is(err, groq.ErrAuthFailed):
		return ExitAuthError
	case errors.Is(err, groq.ErrRequestFailed), errors.Is(err, groq.ErrRateLimited), errors.As(err, &apiErr):
		return ExitNetworkError
	case errors.Is(err, storage.ErrConversationNotFound), errors.Is(err, session.ErrChatNotFound):
		return ExitNotFoundError
	case errors.As(err, &ttyErr), errors.Is(err, storage.ErrUnknownBackend):
		return ExitUsageError
	}
	return ExitGeneralError
}
