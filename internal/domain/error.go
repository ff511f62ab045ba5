package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrSessionLocked    = errors.New("session is locked by another turn")
	ErrStoreUnavailable = errors.New("session store unavailable")

	ErrInvalidExecContext = errors.New("invalid database execution context")

	// Generative service failures. All of them are recovered by the template fallback.
	ErrLLMDisabled  = errors.New("llm disabled")
	ErrLLMEmpty     = errors.New("llm returned empty response")
	ErrLLMMalformed = errors.New("llm returned malformed response")
	ErrLLMTimeout   = errors.New("llm call timed out")

	ErrCallbackDelivery = errors.New("report delivery failed")
)
