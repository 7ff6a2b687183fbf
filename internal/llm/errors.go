package llm

import "errors"

var (
	// ErrBackendUnavailable indicates the generation backend is unreachable.
	ErrBackendUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates a single call exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrEmptyResponse indicates the backend answered without any candidate text.
	ErrEmptyResponse = errors.New("llm returned no choices")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrUnknownProvider indicates the configured provider has no implementation.
	ErrUnknownProvider = errors.New("unknown llm provider")
)
