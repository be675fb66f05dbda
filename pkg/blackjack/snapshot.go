package blackjack

import (
	"github.com/fadedpez/dealerbot/pkg/entities"
)

// HandView is one player hand as reported to the caller
type HandView struct {
	Cards   []*entities.Card
	Value   Value
	Doubled bool
	Active  bool
}

// Snapshot is the session state handed to the presentation layer after
// every advance. Until the session settles the dealer's hole card is
// withheld: DealerCards carries only the up-card.
type Snapshot struct {
	ID       string
	PlayerID string
	Phase    Phase
	Bet      int64

	DealerCards []*entities.Card
	DealerValue Value

	Hands      []HandView
	ActiveSlot int

	LegalActions   []Action
	InsuranceTaken bool

	// Outcome is set once Phase is SETTLED
	Outcome Outcome
}

// Snapshot reports the current state of the session
func (s *Session) Snapshot() *Snapshot {
	revealed := s.phase == PhaseSettled || s.phase == PhaseDealerTurn

	dealerCards := s.dealer.Cards
	if !revealed && len(dealerCards) > 0 {
		dealerCards = dealerCards[:1]
	}

	hands := make([]HandView, len(s.hands))
	for i, h := range s.hands {
		hands[i] = HandView{
			Cards:   h.Cards,
			Value:   h.Value(),
			Doubled: h.Doubled,
			Active:  s.phase == PhasePlayerTurn && i == s.slot,
		}
	}

	return &Snapshot{
		ID:             s.ID,
		PlayerID:       s.PlayerID,
		Phase:          s.phase,
		Bet:            s.opts.Bet,
		DealerCards:    dealerCards,
		DealerValue:    Evaluate(dealerCards),
		Hands:          hands,
		ActiveSlot:     s.slot,
		LegalActions:   s.LegalActions(),
		InsuranceTaken: s.insuranceTaken,
		Outcome:        s.outcome,
	}
}
