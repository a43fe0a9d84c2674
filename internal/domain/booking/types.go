package booking

// State is the booking lifecycle state.
//
// requested is the inbound request before the guarded insert commits; a
// booking is only ever persisted in pending or later.
type State string

const (
	StateRequested       State = "requested"
	StatePending         State = "pending"
	StateAwaitingPayment State = "awaiting_payment"
	StateConfirmed       State = "confirmed"
	StateRejected        State = "rejected"
	StateCancelled       State = "cancelled"
	StateExpired         State = "expired"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateRequested, StatePending, StateAwaitingPayment,
		StateConfirmed, StateRejected, StateCancelled, StateExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the state can never change again.
func (s State) IsTerminal() bool {
	switch s {
	case StateConfirmed, StateRejected, StateCancelled, StateExpired:
		return true
	default:
		return false
	}
}

// OccupiesDates reports whether a booking in this state blocks its date
// range for other renters. Confirmed is terminal but still occupies.
func (s State) OccupiesDates() bool {
	switch s {
	case StatePending, StateAwaitingPayment, StateConfirmed:
		return true
	default:
		return false
	}
}

// OccupyingStates lists the states counted by the overlap predicate, in the
// order the store queries expect.
func OccupyingStates() []State {
	return []State{StatePending, StateAwaitingPayment, StateConfirmed}
}

var legalTransitions = map[State][]State{
	StateRequested:       {StatePending, StateRejected},
	StatePending:         {StateAwaitingPayment, StateRejected, StateCancelled, StateExpired},
	StateAwaitingPayment: {StateConfirmed, StateCancelled},
}

// CanTransition reports whether from -> to is a legal edge. Re-applying the
// current state is not an edge; callers treat it as an idempotent no-op.
func CanTransition(from, to State) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
