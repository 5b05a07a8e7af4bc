// Package llm wraps the remote inference capability behind a minimal
// interface. The coordinator never talks to this package directly; role
// agents do, and surface failures to the coordinator as typed role
// failures.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when the model reply cannot be used as JSON.
var ErrInvalidJSON = errors.New("llm: invalid json from model")

// PermanentError marks an error that will not resolve with retries, such as
// an authentication failure or an unsupported model. Retry policy, where it
// exists at all, lives in the client; the coordinator never retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// Client generates a JSON document from a prompt. Implementations must be
// safe for concurrent use; the dispatcher invokes every role in parallel.
type Client interface {
	// GenerateJSON sends the prompt and returns the model's raw JSON
	// reply. The reply is not schema-checked here; callers validate.
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)

	// Name identifies the backing model for logging.
	Name() string

	Close() error
}
