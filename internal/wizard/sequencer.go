package wizard

// StepSequencer owns the ordered wizard steps and the current position.
// Transitions clamp into [0, total-1] rather than overflow; the sequencer
// never gates movement on validity, which is controller policy.
type StepSequencer struct {
	current int
	total   int
}

// NewStepSequencer creates a sequencer over total steps, positioned at the
// first step. A non-positive total collapses to a single step.
func NewStepSequencer(total int) *StepSequencer {
	if total < 1 {
		total = 1
	}
	return &StepSequencer{total: total}
}

// Current returns the current step index.
func (s *StepSequencer) Current() int { return s.current }

// Total returns the number of steps.
func (s *StepSequencer) Total() int { return s.total }

// Next advances one step, clamped at the last step.
func (s *StepSequencer) Next() {
	if s.current < s.total-1 {
		s.current++
	}
}

// Prev moves back one step, clamped at the first step.
func (s *StepSequencer) Prev() {
	if s.current > 0 {
		s.current--
	}
}

// JumpTo moves to step n, clamped into range.
func (s *StepSequencer) JumpTo(n int) {
	switch {
	case n < 0:
		s.current = 0
	case n > s.total-1:
		s.current = s.total - 1
	default:
		s.current = n
	}
}

// IsFirst reports whether the current step is the first.
func (s *StepSequencer) IsFirst() bool { return s.current == 0 }

// IsLast reports whether the current step is the last.
func (s *StepSequencer) IsLast() bool { return s.current == s.total-1 }
