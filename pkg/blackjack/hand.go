package blackjack

import (
	"github.com/fadedpez/dealerbot/pkg/entities"
)

// Value is the evaluated worth of a set of cards
type Value struct {
	Total       int
	IsSoft      bool // an ace is currently counted as 11
	IsBust      bool
	IsBlackjack bool // exactly two cards totalling 21
}

// Evaluate computes the best total for a set of cards. Non-ace values are
// summed first, then each ace is provisionally counted as 11 and demoted to
// 1 while the total exceeds 21. The function is pure: it never mutates the
// cards, so split hands sharing a seed card re-evaluate independently.
func Evaluate(cards []*entities.Card) Value {
	total := 0
	aces := 0

	for _, card := range cards {
		if card.IsAce() {
			aces++
		} else {
			total += card.BaseValue()
		}
	}

	// Count every ace as 11, then demote one at a time until the hand is
	// no longer bust or no ace remains countable as 11.
	total += aces * 11
	soft := aces
	for total > 21 && soft > 0 {
		total -= 10
		soft--
	}

	return Value{
		Total:       total,
		IsSoft:      soft > 0,
		IsBust:      total > 21,
		IsBlackjack: len(cards) == 2 && total == 21,
	}
}

// Hand represents one playable hand: the primary hand, the dealer's hand,
// or either half of a split pair.
type Hand struct {
	Cards   []*entities.Card
	Doubled bool // bet multiplier 2, set by a double down
	stood   bool
}

// NewHand creates a new empty hand
func NewHand(cards ...*entities.Card) *Hand {
	return &Hand{Cards: cards}
}

// Add appends a card to the hand
func (h *Hand) Add(card *entities.Card) {
	h.Cards = append(h.Cards, card)
}

// Value evaluates the hand's current cards
func (h *Hand) Value() Value {
	return Evaluate(h.Cards)
}

// Done reports whether the hand can take no further action
func (h *Hand) Done() bool {
	return h.stood || h.Value().IsBust
}

// Stand marks the hand as finished
func (h *Hand) Stand() {
	h.stood = true
}
