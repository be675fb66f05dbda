package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fadedpez/dealerbot/pkg/entities"
)

func TestCanDoubleDown(t *testing.T) {
	tests := []struct {
		name  string
		cards []*entities.Card
		want  bool
	}{
		{"total nine", []*entities.Card{card(entities.Four), card(entities.Five)}, true},
		{"total ten", []*entities.Card{card(entities.Six), card(entities.Four)}, true},
		{"total eleven", []*entities.Card{card(entities.Six), card(entities.Five)}, true},
		{"total eight", []*entities.Card{card(entities.Three), card(entities.Five)}, false},
		{"total twelve", []*entities.Card{card(entities.Ten), card(entities.Two)}, false},
		{"soft nineteen", []*entities.Card{card(entities.Ace), card(entities.Eight)}, false},
		{"three cards totalling ten", []*entities.Card{card(entities.Two), card(entities.Three), card(entities.Five)}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanDoubleDown(NewHand(tc.cards...)))
		})
	}
}

func TestCanSplit(t *testing.T) {
	assert.True(t, CanSplit(NewHand(
		entities.NewCard(entities.Spades, entities.Eight),
		entities.NewCard(entities.Hearts, entities.Eight),
	)))
	assert.False(t, CanSplit(NewHand(card(entities.Eight), card(entities.Nine))))
	assert.False(t, CanSplit(NewHand(
		// Equal value but different rank does not qualify
		card(entities.King), card(entities.Queen),
	)))
	assert.False(t, CanSplit(NewHand(card(entities.Eight), card(entities.Eight), card(entities.Eight))))
}

func TestOffersInsurance(t *testing.T) {
	assert.True(t, OffersInsurance(NewHand(card(entities.Ace), card(entities.Five))))
	// Ace in the hole does not trigger the offer
	assert.False(t, OffersInsurance(NewHand(card(entities.Five), card(entities.Ace))))
	assert.False(t, OffersInsurance(NewHand(card(entities.King), card(entities.Ace))))
}

func TestDealerShouldHit(t *testing.T) {
	tests := []struct {
		name  string
		cards []*entities.Card
		want  bool
	}{
		{"sixteen", []*entities.Card{card(entities.Ten), card(entities.Six)}, true},
		{"hard seventeen", []*entities.Card{card(entities.Ten), card(entities.Seven)}, false},
		{"soft seventeen stands", []*entities.Card{card(entities.Ace), card(entities.Six)}, false},
		{"soft sixteen hits", []*entities.Card{card(entities.Ace), card(entities.Five)}, true},
		{"twenty one", []*entities.Card{card(entities.Ten), card(entities.Ten), card(entities.Ace)}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DealerShouldHit(NewHand(tc.cards...)))
		})
	}
}
