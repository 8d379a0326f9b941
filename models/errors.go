package models

import "fmt"

// InputError marks malformed or missing client input. Handlers map it
// to a 400 response.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// NewInputError builds an InputError with a plain message.
func NewInputError(msg string) *InputError {
	return &InputError{Msg: msg}
}

// ProviderError marks a failure of an external provider (LLM, TTS,
// STT, embeddings). Call sites degrade it to a fallback result where
// one exists; where the provider call is the whole operation it maps
// to a 502.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StorageError marks an unreachable or failing persistence layer.
// It is surfaced as a 503 rather than silently dropping history.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
