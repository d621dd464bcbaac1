package wizard

import "errors"

// Programmer errors: these indicate a schema/implementation bug, never a
// user-data problem, and abort the operation that raised them.
var (
	// ErrUnknownField is returned when a field name is not in the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrTypeMismatch is returned when a value's kind does not match the
	// field's declared kind, or a set operation targets a non-set field.
	ErrTypeMismatch = errors.New("field type mismatch")
)

// Recoverable action rejections.
var (
	// ErrAlreadySubmitting is returned when a submit is attempted while a
	// previous submit is still in flight.
	ErrAlreadySubmitting = errors.New("submit already in flight")

	// ErrCannotSubmit is returned when submit is attempted off the last step
	// or while blocking validation errors remain. No network call is issued.
	ErrCannotSubmit = errors.New("session is not submittable")

	// ErrClosed is returned when an action is applied to a closed controller.
	ErrClosed = errors.New("wizard session closed")
)
