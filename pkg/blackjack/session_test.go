package blackjack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/dealerbot/pkg/entities"
)

// stackedDeck builds a deck that yields the given cards in draw order.
// The deal consumes player, player, dealer, dealer, then play order.
func stackedDeck(cards ...*entities.Card) *entities.Deck {
	reversed := make([]*entities.Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	return &entities.Deck{Cards: reversed}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = testLogger()
	return opts
}

func startSession(t *testing.T, opts Options, cards ...*entities.Card) *Session {
	t.Helper()
	s, err := newSession("player1", opts, stackedDeck(cards...))
	require.NoError(t, err)
	return s
}

func TestNewValidatesOptions(t *testing.T) {
	opts := testOptions()
	opts.Bet = -5

	s, err := New("player1", opts)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDealImmediateBlackjack(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ace), card(entities.King), // player natural
		card(entities.Nine), card(entities.Five), // dealer 14
	)

	assert.True(t, s.Settled())
	assert.Equal(t, OutcomeBlackjack, s.Outcome())
	assert.Empty(t, s.LegalActions())
	// Dealer never draws against a settled natural
	assert.Len(t, s.Snapshot().DealerCards, 2)
}

func TestDealDoubleNaturalTies(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ace), card(entities.King),
		card(entities.Ace), card(entities.Queen),
	)

	assert.True(t, s.Settled())
	assert.Equal(t, OutcomeTie, s.Outcome())
}

func TestHitThenStand(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Two), // player 12
		card(entities.Ten), card(entities.Seven), // dealer 17, stands pat
		card(entities.Five), // hit card
	)

	require.Equal(t, PhasePlayerTurn, s.Phase())

	snap, err := s.Advance(ActionHit)
	require.NoError(t, err)
	assert.Equal(t, 17, snap.Hands[0].Value.Total)
	assert.Equal(t, PhasePlayerTurn, snap.Phase)

	snap, err = s.Advance(ActionStand)
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, OutcomeTie, snap.Outcome)
}

func TestHitBustEndsTurnWithoutStand(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Six), // player 16
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.King), // bust card
	)

	snap, err := s.Advance(ActionHit)
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, OutcomeLose, snap.Outcome)
	// Every player hand busted, so the dealer keeps the dealt two cards
	assert.Len(t, snap.DealerCards, 2)
}

func TestDoubleDown(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Six), card(entities.Five), // player 11
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.Nine), // double card, 20
	)

	require.Contains(t, s.LegalActions(), ActionDoubleDown)

	snap, err := s.Advance(ActionDoubleDown)
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.True(t, snap.Hands[0].Doubled)
	assert.Len(t, snap.Hands[0].Cards, 3)
	assert.Equal(t, OutcomeDoubleWin, snap.Outcome)
}

func TestDoubleDownNotOfferedOutsideNineToEleven(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Six), // player 16
		card(entities.Nine), card(entities.Seven),
	)

	assert.NotContains(t, s.LegalActions(), ActionDoubleDown)

	_, err := s.Advance(ActionDoubleDown)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, PhasePlayerTurn, s.Phase())
}

func TestSplitPlaysTwoIndependentHands(t *testing.T) {
	s := startSession(t, testOptions(),
		entities.NewCard(entities.Spades, entities.Eight),
		entities.NewCard(entities.Hearts, entities.Eight),
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.Three),  // first hand draw, 11
		card(entities.Two),    // second hand draw, 10
		card(entities.Seven),  // first hand hit, 18
		card(entities.Nine),   // second hand hit, 19
	)

	require.Contains(t, s.LegalActions(), ActionSplit)

	snap, err := s.Advance(ActionSplit)
	require.NoError(t, err)
	require.Len(t, snap.Hands, 2)
	assert.Equal(t, 11, snap.Hands[0].Value.Total)
	assert.Equal(t, 10, snap.Hands[1].Value.Total)
	assert.True(t, snap.Hands[0].Active)
	// Further splits are withdrawn
	assert.NotContains(t, snap.LegalActions, ActionSplit)

	// First hand: hit to 18 and stand
	_, err = s.Advance(ActionHit)
	require.NoError(t, err)
	snap, err = s.Advance(ActionStand)
	require.NoError(t, err)
	assert.True(t, snap.Hands[1].Active)

	// Second hand: hit to 19 and stand
	_, err = s.Advance(ActionHit)
	require.NoError(t, err)
	snap, err = s.Advance(ActionStand)
	require.NoError(t, err)

	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, Outcome("SPLIT WIN-WIN"), snap.Outcome)
	assert.True(t, ValidOutcome(snap.Outcome))
}

func TestSplitWithdrawnAfterFirstAction(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Eight), entities.NewCard(entities.Hearts, entities.Eight),
		card(entities.Ten), card(entities.Seven),
		card(entities.Two), // hit card
	)

	require.Contains(t, s.LegalActions(), ActionSplit)

	_, err := s.Advance(ActionHit)
	require.NoError(t, err)
	assert.NotContains(t, s.LegalActions(), ActionSplit)
}

func TestInsuranceOfferedOnDealerAce(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Six), // player 16
		card(entities.Ace), card(entities.Five), // dealer ace up, no natural
	)

	require.Equal(t, PhaseInsuranceOffer, s.Phase())
	assert.ElementsMatch(t, []Action{ActionInsurance, ActionNoInsurance}, s.LegalActions())

	// Game actions are rejected during the offer
	_, err := s.Advance(ActionHit)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestInsuranceDeclinedContinuesNormally(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Six),
		card(entities.Ace), card(entities.Five),
	)

	snap, err := s.Advance(ActionNoInsurance)
	require.NoError(t, err)
	assert.Equal(t, PhasePlayerTurn, snap.Phase)
	assert.False(t, snap.InsuranceTaken)
	assert.Contains(t, snap.LegalActions, ActionHit)
}

func TestInsuranceTakenAgainstDealerNatural(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Six),
		card(entities.Ace), card(entities.King), // dealer natural
	)

	require.Equal(t, PhaseInsuranceOffer, s.Phase())

	snap, err := s.Advance(ActionInsurance)
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, OutcomeInsurancePayout, snap.Outcome)
}

func TestInsuranceForfeitedRestrictsPlay(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Five), card(entities.Six), // player 11, would qualify for double
		card(entities.Ace), card(entities.Five), // dealer 16, draws to 17
		card(entities.Nine),  // player hit, 20
		card(entities.Ace),   // dealer draw, 17
	)

	snap, err := s.Advance(ActionInsurance)
	require.NoError(t, err)
	assert.Equal(t, PhasePlayerTurn, snap.Phase)
	assert.ElementsMatch(t, []Action{ActionHit, ActionStand}, snap.LegalActions)

	_, err = s.Advance(ActionHit)
	require.NoError(t, err)
	snap, err = s.Advance(ActionStand)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInsuranceWin, snap.Outcome)
}

func TestInsuranceNotOfferedWhenDisabled(t *testing.T) {
	opts := testOptions()
	opts.Insurance = false

	s := startSession(t, opts,
		card(entities.Ten), card(entities.Six),
		card(entities.Ace), card(entities.Five),
	)

	assert.Equal(t, PhasePlayerTurn, s.Phase())
}

func TestDealerDrawsToSeventeen(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Nine), // player 19
		card(entities.Nine), card(entities.Five), // dealer 14
		card(entities.Two), // dealer draw, 16
		card(entities.Four), // dealer draw, 20
	)

	snap, err := s.Advance(ActionStand)
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, 20, snap.DealerValue.Total)
	assert.GreaterOrEqual(t, snap.DealerValue.Total, DealerStandTotal)
	assert.Equal(t, OutcomeLose, snap.Outcome)
}

func TestHoleCardHiddenUntilSettled(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Two),
		card(entities.Nine), card(entities.Seven), // dealer 16
		card(entities.Two), // dealer draw, 18
	)

	snap := s.Snapshot()
	require.Len(t, snap.DealerCards, 1)
	assert.Equal(t, 9, snap.DealerValue.Total)

	snap, err := s.Advance(ActionStand)
	require.NoError(t, err)
	assert.Len(t, snap.DealerCards, 3)
}

func TestTimeoutSettlesWithCurrentHands(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Two),
		card(entities.Nine), card(entities.Five), // dealer 14
	)

	snap, err := s.Advance(ActionTimeout)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, snap.Outcome)
	// The dealer never played: hands reflect the moment of interruption
	assert.Len(t, snap.DealerCards, 2)
	assert.Equal(t, 12, snap.Hands[0].Value.Total)
}

func TestCancelFromInsuranceOffer(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Six),
		card(entities.Ace), card(entities.Five),
	)

	require.Equal(t, PhaseInsuranceOffer, s.Phase())

	snap, err := s.Advance(ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancel, snap.Outcome)
}

func TestAdvanceAfterSettled(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ace), card(entities.King),
		card(entities.Nine), card(entities.Five),
	)

	require.True(t, s.Settled())

	_, err := s.Advance(ActionHit)
	assert.ErrorIs(t, err, ErrSessionSettled)
}

// scriptedCollector replays a fixed action sequence
type scriptedCollector struct {
	actions []Action
}

func (c *scriptedCollector) AwaitAction(_ context.Context, _ string, _ []Action) (Action, error) {
	if len(c.actions) == 0 {
		return ActionTimeout, nil
	}
	next := c.actions[0]
	c.actions = c.actions[1:]
	return next, nil
}

func TestRunDrivesSessionToSettlement(t *testing.T) {
	s := startSession(t, testOptions(),
		card(entities.Ten), card(entities.Two), // player 12
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.Eight), // hit, 20
	)

	collector := &scriptedCollector{actions: []Action{
		ActionSplit, // illegal here, discarded
		ActionHit,
		ActionStand,
	}}

	snap, err := s.Run(context.Background(), collector)
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, OutcomeWin, snap.Outcome)
}
