package checkout

// State is a phase of the checkout flow.
type State string

const (
	StateCollectingInfo       State = "collecting_info"
	StateValidatingInput      State = "validating_input"
	StateCreatingSession      State = "creating_session"
	StatePlacingCodOrder      State = "placing_cod_order"
	StateRedirectingToPayment State = "redirecting_to_payment"
	StateCompleted            State = "completed"
	StateFailed               State = "failed"
)

var transitions = map[State][]State{
	StateCollectingInfo:       {StateValidatingInput},
	StateValidatingInput:      {StateCreatingSession, StateFailed},
	StateCreatingSession:      {StatePlacingCodOrder, StateRedirectingToPayment, StateFailed},
	StatePlacingCodOrder:      {StateCompleted, StateFailed},
	StateRedirectingToPayment: {StateCompleted, StateFailed},
}

// CanTransition reports whether moving from one state to another is allowed.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state ends the flow.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

func (s State) String() string {
	return string(s)
}
