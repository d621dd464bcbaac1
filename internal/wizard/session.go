package wizard

// SubmissionState is the session-level persistence state.
type SubmissionState int

const (
	// StateIdle: nothing changed since the last successful save, nothing in flight.
	StateIdle SubmissionState = iota
	// StateDirty: unsaved edits exist.
	StateDirty
	// StateSaving: a draft save is in flight.
	StateSaving
	// StateSubmitting: the terminal submit is in flight.
	StateSubmitting
	// StateSaved: the last save or submit completed successfully.
	StateSaved
	// StateFailed: the last save or submit failed; the snapshot is retained
	// and the operation can be retried without data loss.
	StateFailed
)

// String returns the lowercase name of the state.
func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	case StateSubmitting:
		return "submitting"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is the immutable view of a wizard session handed to the
// presentation layer after every action. Maps and slices are fresh copies;
// values are immutable by construction.
type Snapshot struct {
	Fields      map[string]Value
	StepIndex   int
	TotalSteps  int
	IsFirst     bool
	IsLast      bool
	DirtyFields []string
	FieldErrors map[string]string
	State       SubmissionState
	CanSubmit   bool
	Submitted   bool
	// LastFailure carries the transient failure message backing the retry
	// banner. Empty unless State is StateFailed.
	LastFailure string
}

// Error returns the error message for a field, or "" if the field passes.
func (s Snapshot) Error(name string) string {
	return s.FieldErrors[name]
}

// Value returns the field's current value, which may be nil.
func (s Snapshot) Value(name string) Value {
	return s.Fields[name]
}
