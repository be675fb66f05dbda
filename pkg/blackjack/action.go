package blackjack

// Action is the discriminated result of one input-collection cycle. CANCEL
// and TIMEOUT are produced by the collector rather than the player pressing
// a game button, but flow through the same channel so the session state
// machine has a single input vocabulary.
type Action string

const (
	ActionHit         Action = "HIT"
	ActionStand       Action = "STAND"
	ActionDoubleDown  Action = "DOUBLEDOWN"
	ActionSplit       Action = "SPLIT"
	ActionInsurance   Action = "INSURANCE"
	ActionNoInsurance Action = "NO_INSURANCE"
	ActionCancel      Action = "CANCEL"
	ActionTimeout     Action = "TIMEOUT"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// In reports whether the action is a member of the given legal set
func (a Action) In(legal []Action) bool {
	for _, l := range legal {
		if a == l {
			return true
		}
	}
	return false
}
