package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
)

// Action is one user interaction applied to the wizard session.
type Action interface{ isAction() }

// SetField replaces a field's value.
type SetField struct {
	Name  string
	Value Value
}

// ToggleField flips membership of Code in a string_set field.
type ToggleField struct {
	Name string
	Code string
}

// NextStep advances to the next step, autosaving if configured.
type NextStep struct{}

// PrevStep moves back one step.
type PrevStep struct{}

// JumpStep moves to an arbitrary step, clamped into range.
type JumpStep struct{ Index int }

// SaveDraft persists the current snapshot as a draft.
type SaveDraft struct{}

// Submit persists the snapshot with terminal intent. Only permitted on the
// last step with no blocking errors.
type Submit struct{}

func (SetField) isAction()    {}
func (ToggleField) isAction() {}
func (NextStep) isAction()    {}
func (PrevStep) isAction()    {}
func (JumpStep) isAction()    {}
func (SaveDraft) isAction()   {}
func (Submit) isAction()      {}

// Options configures a Controller.
type Options struct {
	// AutosaveOnAdvance issues a draft save whenever NextStep leaves a step
	// with unsaved edits.
	AutosaveOnAdvance bool
	// RequestTimeout bounds each persistence call. Zero means 15s.
	RequestTimeout time.Duration
	// OnUpdate, if set, is called with a fresh snapshot whenever an
	// asynchronous persistence outcome changes session state. It runs on the
	// persistence goroutine; implementations must hand off to their own loop.
	OnUpdate func(Snapshot)
}

const defaultRequestTimeout = 15 * time.Second

// Controller is the wizard façade. Every user interaction goes through
// Apply, which mutates the field store and sequencer synchronously,
// recomputes validation, and triggers persistence when required. It is the
// only component with asynchronous operations: saves run in the background
// while the user keeps editing, guarded by a monotonic sequence number so a
// stale response can never overwrite the outcome of a newer request.
type Controller struct {
	mu sync.Mutex

	schema  *schema.Schema
	store   *FieldStore
	seq     *StepSequencer
	engine  *Engine
	persist Persister

	autosave bool
	timeout  time.Duration
	onUpdate func(Snapshot)

	// serverErrors holds store-returned field errors. An entry is cleared
	// the moment the user edits that field locally.
	serverErrors map[string]string

	state       SubmissionState
	lastFailure string
	submitted   bool

	saveSeq    uint64 // latest issued save sequence
	submitting bool
	closed     bool
}

// NewController creates a controller over a fresh session.
func NewController(s *schema.Schema, p Persister, opts Options) *Controller {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Controller{
		schema:       s,
		store:        NewFieldStore(s),
		seq:          NewStepSequencer(s.NumSteps()),
		engine:       NewEngine(s),
		persist:      p,
		autosave:     opts.AutosaveOnAdvance,
		timeout:      timeout,
		onUpdate:     opts.OnUpdate,
		serverErrors: make(map[string]string),
	}
}

// Hydrate loads a previously persisted draft into the session. A missing
// draft starts the session fresh; an unauthorized load propagates to the
// caller for session-level handling.
func (c *Controller) Hydrate(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fields, err := c.persist.Load(cctx)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			logger.Debug("No saved draft, starting fresh")
			return nil
		}
		return fmt.Errorf("loading draft: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Hydrate(fields); err != nil {
		return fmt.Errorf("hydrating draft: %w", err)
	}
	logger.Debug("Hydrated %d fields from saved draft", len(fields))
	return nil
}

// Apply processes one action and returns the resulting snapshot. Store and
// sequencer mutations happen synchronously; SaveDraft, Submit, and
// autosaving NextStep additionally start a background persistence call whose
// outcome arrives through Options.OnUpdate.
func (c *Controller) Apply(action Action) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{}, ErrClosed
	}

	switch a := action.(type) {
	case SetField:
		if err := c.store.Set(a.Name, a.Value); err != nil {
			return c.snapshotLocked(), err
		}
		// A local edit invalidates any stale server error for the field.
		delete(c.serverErrors, a.Name)
		c.markDirtyLocked()

	case ToggleField:
		if err := c.store.Toggle(a.Name, a.Code); err != nil {
			return c.snapshotLocked(), err
		}
		delete(c.serverErrors, a.Name)
		c.markDirtyLocked()

	case NextStep:
		errs := c.mergedErrorsLocked()
		if c.engine.BlockingOnStep(errs, c.seq.Current()) {
			// Stay put; the snapshot carries the inline errors.
			return c.snapshotLocked(), nil
		}
		wasLast := c.seq.IsLast()
		c.seq.Next()
		if c.autosave && !wasLast && c.store.IsDirty() {
			c.issueSaveLocked(false)
		}

	case PrevStep:
		c.seq.Prev()

	case JumpStep:
		c.seq.JumpTo(a.Index)

	case SaveDraft:
		c.issueSaveLocked(false)

	case Submit:
		if c.submitting {
			return c.snapshotLocked(), ErrAlreadySubmitting
		}
		if !c.seq.IsLast() {
			return c.snapshotLocked(), fmt.Errorf("%w: not on final step", ErrCannotSubmit)
		}
		if c.engine.Blocking(c.mergedErrorsLocked()) {
			return c.snapshotLocked(), fmt.Errorf("%w: blocking validation errors remain", ErrCannotSubmit)
		}
		c.submitting = true
		c.issueSaveLocked(true)

	default:
		return c.snapshotLocked(), fmt.Errorf("unsupported action %T", action)
	}

	return c.snapshotLocked(), nil
}

// Snapshot returns the current immutable session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close discards the session. In-flight saves keep running so their data
// still lands in the store, but their responses no longer affect state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// markDirtyLocked moves the session to Dirty after a local edit, unless a
// persistence call is in flight.
func (c *Controller) markDirtyLocked() {
	if c.state != StateSaving && c.state != StateSubmitting {
		c.state = StateDirty
	}
}

// issueSaveLocked starts a background save (or submit) of the current
// snapshot. The sequence number identifies the request; only the response to
// the latest issued request may change state.
func (c *Controller) issueSaveLocked(submit bool) {
	c.saveSeq++
	seq := c.saveSeq
	snap := c.store.Snapshot()

	if submit {
		c.state = StateSubmitting
	} else {
		c.state = StateSaving
	}
	c.lastFailure = ""

	logger.Debug("Issuing %s seq=%d (%d fields)", saveKind(submit), seq, len(snap))

	go func() {
		// Detached from the caller: navigating away must not cancel an
		// in-flight save, only stop the session from reacting to it.
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		var (
			res *ServerResult
			err error
		)
		if submit {
			res, err = c.persist.Submit(ctx, snap)
		} else {
			res, err = c.persist.Save(ctx, snap)
		}
		c.completeSave(seq, snap, res, err, submit)
	}()
}

// completeSave folds a persistence outcome back into session state.
func (c *Controller) completeSave(seq uint64, saved map[string]Value, res *ServerResult, err error, submit bool) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}
	if submit {
		c.submitting = false
	}
	if seq != c.saveSeq {
		// A newer save was issued while this one was in flight; its response
		// is authoritative, this one is discarded.
		logger.Debug("Discarding stale %s response seq=%d (latest=%d)", saveKind(submit), seq, c.saveSeq)
		c.mu.Unlock()
		return
	}

	switch {
	case err != nil:
		logger.Warn("%s seq=%d failed: %v", saveKind(submit), seq, err)
		c.state = StateFailed
		c.lastFailure = err.Error()

	case res.Rejected():
		logger.Debug("%s seq=%d rejected with %d field errors", saveKind(submit), seq, len(res.FieldErrors))
		c.serverErrors = make(map[string]string, len(res.FieldErrors))
		for name, msg := range res.FieldErrors {
			if c.schema.Has(name) {
				c.serverErrors[name] = msg
			}
		}
		if submit {
			c.state = StateFailed
			c.lastFailure = "the preference store rejected the submission"
		} else {
			c.state = StateDirty
		}

	default:
		logger.Debug("%s seq=%d succeeded", saveKind(submit), seq)
		c.store.ClearDirty(saved)
		if submit {
			c.submitted = true
		}
		if c.store.IsDirty() {
			c.state = StateDirty
		} else {
			c.state = StateSaved
		}
	}

	snap := c.snapshotLocked()
	onUpdate := c.onUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snap)
	}
}

// mergedErrorsLocked recomputes client validation and overlays server errors.
func (c *Controller) mergedErrorsLocked() map[string]string {
	client := c.engine.Validate(c.store.Snapshot())
	return c.engine.MergeServerErrors(client, c.serverErrors)
}

func (c *Controller) snapshotLocked() Snapshot {
	fields := c.store.Snapshot()
	errs := c.engine.MergeServerErrors(c.engine.Validate(fields), c.serverErrors)
	return Snapshot{
		Fields:      fields,
		StepIndex:   c.seq.Current(),
		TotalSteps:  c.seq.Total(),
		IsFirst:     c.seq.IsFirst(),
		IsLast:      c.seq.IsLast(),
		DirtyFields: c.store.DirtyFields(),
		FieldErrors: errs,
		State:       c.state,
		CanSubmit:   c.seq.IsLast() && !c.engine.Blocking(errs),
		Submitted:   c.submitted,
		LastFailure: c.lastFailure,
	}
}

func saveKind(submit bool) string {
	if submit {
		return "submit"
	}
	return "save"
}
