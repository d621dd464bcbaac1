package wizard

import (
	"context"
	"errors"
)

// ErrDraftNotFound is returned by Persister.Load when the store has no draft
// for the session. The controller treats it as "start fresh", not a failure.
var ErrDraftNotFound = errors.New("no saved draft")

// ErrUnauthorized is returned by a Persister when the principal is not
// authenticated. It propagates to the caller for session-level handling; the
// wizard has no error state for it.
var ErrUnauthorized = errors.New("unauthorized")

// ServerResult is the preference store's answer to a save or submit.
type ServerResult struct {
	// FieldErrors holds the store's field-name-keyed validation errors when
	// it rejected the draft. Empty on success.
	FieldErrors map[string]string
}

// Rejected reports whether the store refused the draft with field errors.
func (r *ServerResult) Rejected() bool {
	return r != nil && len(r.FieldErrors) > 0
}

// Persister is the draft persistence boundary the controller drives. Save is
// an idempotent full-snapshot upsert with last-write-wins semantics; Submit
// uses the same transport but signals terminal intent. Transport failures
// return an error; store-side validation failures return a ServerResult with
// field errors and a nil error.
type Persister interface {
	Load(ctx context.Context) (map[string]Value, error)
	Save(ctx context.Context, fields map[string]Value) (*ServerResult, error)
	Submit(ctx context.Context, fields map[string]Value) (*ServerResult, error)
}
