package blackjack

import (
	"github.com/fadedpez/dealerbot/pkg/entities"
)

// DealerStandTotal is the fixed house rule: the dealer hits below 17 and
// stands at 17 or higher, regardless of softness.
const DealerStandTotal = 17

// CanDoubleDown reports whether a hand is eligible for double down: exactly
// two cards totalling 9, 10 or 11.
func CanDoubleDown(h *Hand) bool {
	if len(h.Cards) != 2 {
		return false
	}
	total := Evaluate(h.Cards).Total
	return total >= 9 && total <= 11
}

// CanSplit reports whether a hand is eligible for split: exactly two cards
// sharing a rank.
func CanSplit(h *Hand) bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// OffersInsurance reports whether the dealer's up-card triggers the
// insurance offer.
func OffersInsurance(dealer *Hand) bool {
	return len(dealer.Cards) > 0 && dealer.Cards[0].Rank == entities.Ace
}

// DealerShouldHit reports whether the dealer must draw another card
func DealerShouldHit(dealer *Hand) bool {
	return Evaluate(dealer.Cards).Total < DealerStandTotal
}
