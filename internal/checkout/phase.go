package checkout

import (
	"errors"
	"fmt"
)

// Phase is where a session stands in the checkout flow.
type Phase string

const (
	PhaseBrowsing   Phase = "browsing"
	PhaseCheckout   Phase = "checkout"
	PhaseSubmitting Phase = "submitting"
	PhaseConfirmed  Phase = "confirmed"
	PhaseFailed     Phase = "failed"
)

type Event string

const (
	EventBeginCheckout Event = "begin_checkout"
	EventSubmit        Event = "submit"
	EventSucceeded     Event = "succeeded"
	EventFailed        Event = "failed"
	EventRetry         Event = "retry"
	EventCancel        Event = "cancel"
	EventStartOver     Event = "start_over"
)

var (
	ErrIllegalTransition  = errors.New("illegal checkout transition")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
)

var transitions = map[Phase]map[Event]Phase{
	PhaseBrowsing: {
		EventBeginCheckout: PhaseCheckout,
	},
	PhaseCheckout: {
		EventSubmit: PhaseSubmitting,
		EventCancel: PhaseBrowsing,
	},
	PhaseSubmitting: {
		EventSucceeded: PhaseConfirmed,
		EventFailed:    PhaseFailed,
	},
	PhaseFailed: {
		EventRetry:  PhaseCheckout,
		EventSubmit: PhaseSubmitting,
		EventCancel: PhaseBrowsing,
	},
	PhaseConfirmed: {
		EventStartOver: PhaseBrowsing,
	},
}

// Next applies e to p. Submitting while a submission is outstanding yields
// ErrSubmissionInFlight so callers can refuse duplicate orders.
func (p Phase) Next(e Event) (Phase, error) {
	if p == PhaseSubmitting && e == EventSubmit {
		return p, ErrSubmissionInFlight
	}
	if next, ok := transitions[p][e]; ok {
		return next, nil
	}
	return p, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, e, p)
}
