package blackjack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fadedpez/dealerbot/pkg/entities"
)

var (
	// ErrInvalidConfig signals malformed options at session start. It is
	// surfaced before any card is drawn.
	ErrInvalidConfig = errors.New("invalid session configuration")

	// ErrIllegalAction signals an action outside the currently legal set.
	// Callers recover by discarding the action and awaiting the next one.
	ErrIllegalAction = errors.New("action not legal in current phase")

	// ErrSessionSettled signals an advance on a terminal session
	ErrSessionSettled = errors.New("session already settled")
)

// Phase is the session's position in the turn state machine
type Phase string

const (
	PhaseDealing        Phase = "DEALING"
	PhaseInsuranceOffer Phase = "INSURANCE_OFFER"
	PhasePlayerTurn     Phase = "PLAYER_TURN"
	PhaseDealerTurn     Phase = "DEALER_TURN"
	PhaseSettled        Phase = "SETTLED"
)

// Options configures one session. Defaults are resolved exactly once at
// session creation; branches read the resolved fields, never re-derive.
type Options struct {
	DoubleDown bool
	Insurance  bool
	Split      bool

	// Bet is echoed back in snapshots; the engine applies no payouts.
	Bet int64

	// Timeout is the per-cycle action collection window
	Timeout time.Duration

	Logger *log.Logger
}

// DefaultOptions enables every optional action with the standard timeout
func DefaultOptions() Options {
	return Options{
		DoubleDown: true,
		Insurance:  true,
		Split:      true,
		Timeout:    DefaultActionTimeout,
	}
}

func (o *Options) validate() error {
	if o.Bet < 0 {
		return fmt.Errorf("%w: negative bet %d", ErrInvalidConfig, o.Bet)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, o.Timeout)
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultActionTimeout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Session is one player's in-progress game. It is single-threaded by
// contract: the caller never advances the same session concurrently, so no
// internal locking is performed.
type Session struct {
	ID       string
	PlayerID string

	opts   Options
	deck   *entities.Deck
	dealer *Hand
	hands  []*Hand
	slot   int
	phase  Phase

	split          bool
	insuranceTaken bool
	outcome        Outcome

	logger *log.Logger
}

// New starts a session with a freshly shuffled deck and resolves the
// initial deal. The returned session may already be settled if the deal
// produced a natural.
func New(playerID string, opts Options) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	deck := entities.NewDeck()
	deck.Shuffle()
	return newSession(playerID, opts, deck)
}

// newSession runs the deal against a caller-supplied deck. Tests stack the
// deck to force specific hands.
func newSession(playerID string, opts Options, deck *entities.Deck) (*Session, error) {
	s := &Session{
		ID:       uuid.New().String(),
		PlayerID: playerID,
		opts:     opts,
		deck:     deck,
		dealer:   NewHand(),
		hands:    []*Hand{NewHand()},
		phase:    PhaseDealing,
		logger:   opts.Logger.WithPrefix("session"),
	}

	for i := 0; i < 2; i++ {
		if err := s.drawTo(s.hands[0]); err != nil {
			return nil, err
		}
	}
	for i := 0; i < 2; i++ {
		if err := s.drawTo(s.dealer); err != nil {
			return nil, err
		}
	}

	playerNatural := s.hands[0].Value().IsBlackjack
	dealerNatural := s.dealer.Value().IsBlackjack
	switch {
	case playerNatural && dealerNatural:
		s.settle(OutcomeTie)
	case playerNatural:
		s.settle(OutcomeBlackjack)
	case s.opts.Insurance && OffersInsurance(s.dealer):
		s.phase = PhaseInsuranceOffer
	default:
		s.phase = PhasePlayerTurn
	}

	s.logger.Info("session started",
		"session_id", s.ID,
		"player_id", playerID,
		"phase", s.phase,
	)
	return s, nil
}

func (s *Session) drawTo(h *Hand) error {
	card, err := s.deck.Draw()
	if err != nil {
		return err
	}
	h.Add(card)
	return nil
}

func (s *Session) settle(outcome Outcome) {
	s.phase = PhaseSettled
	s.outcome = outcome
	s.logger.Info("session settled", "session_id", s.ID, "outcome", outcome)
}

// Phase returns the current phase
func (s *Session) Phase() Phase {
	return s.phase
}

// Settled reports whether the session reached its terminal phase
func (s *Session) Settled() bool {
	return s.phase == PhaseSettled
}

// Outcome returns the terminal outcome, empty until settled
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// Timeout returns the per-cycle action collection window
func (s *Session) Timeout() time.Duration {
	return s.opts.Timeout
}

// LegalActions returns the action set for the current phase. Insurance
// taken without a dealer natural restricts the rest of the hand to hit and
// stand so the final code stays within the insurance outcome family.
func (s *Session) LegalActions() []Action {
	switch s.phase {
	case PhaseInsuranceOffer:
		return []Action{ActionInsurance, ActionNoInsurance}
	case PhasePlayerTurn:
		legal := []Action{ActionHit, ActionStand}
		if s.insuranceTaken {
			return legal
		}
		active := s.hands[s.slot]
		if s.opts.DoubleDown && CanDoubleDown(active) {
			legal = append(legal, ActionDoubleDown)
		}
		if s.opts.Split && !s.split && CanSplit(active) {
			legal = append(legal, ActionSplit)
		}
		return legal
	default:
		return nil
	}
}

// Advance applies one action to the session and returns the resulting
// snapshot. Cancel and timeout settle immediately from any phase. An
// action outside the legal set returns ErrIllegalAction and leaves the
// session untouched.
func (s *Session) Advance(action Action) (*Snapshot, error) {
	if s.phase == PhaseSettled {
		return nil, ErrSessionSettled
	}

	switch action {
	case ActionCancel:
		s.settle(OutcomeCancel)
		return s.Snapshot(), nil
	case ActionTimeout:
		s.settle(OutcomeTimeout)
		return s.Snapshot(), nil
	}

	if !action.In(s.LegalActions()) {
		return nil, fmt.Errorf("%w: %s in %s", ErrIllegalAction, action, s.phase)
	}

	var err error
	switch s.phase {
	case PhaseInsuranceOffer:
		err = s.advanceInsurance(action)
	case PhasePlayerTurn:
		err = s.advancePlayerTurn(action)
	}
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

func (s *Session) advanceInsurance(action Action) error {
	if action == ActionInsurance {
		s.insuranceTaken = true
		if s.dealer.Value().IsBlackjack {
			s.settle(OutcomeInsurancePayout)
			return nil
		}
	}
	s.phase = PhasePlayerTurn
	return nil
}

func (s *Session) advancePlayerTurn(action Action) error {
	active := s.hands[s.slot]

	switch action {
	case ActionHit:
		if err := s.drawTo(active); err != nil {
			return err
		}
		if active.Value().IsBust {
			return s.endSlot()
		}
	case ActionStand:
		active.Stand()
		return s.endSlot()
	case ActionDoubleDown:
		if err := s.drawTo(active); err != nil {
			return err
		}
		active.Doubled = true
		active.Stand()
		return s.endSlot()
	case ActionSplit:
		return s.splitHand()
	}
	return nil
}

// splitHand seeds two independent hands from the starting pair, each
// drawing one card immediately. Play continues on the first hand with
// further splits excluded.
func (s *Session) splitHand() error {
	pair := s.hands[0].Cards
	first := NewHand(pair[0])
	second := NewHand(pair[1])
	if err := s.drawTo(first); err != nil {
		return err
	}
	if err := s.drawTo(second); err != nil {
		return err
	}
	s.hands = []*Hand{first, second}
	s.split = true
	s.slot = 0
	return nil
}

// endSlot finishes the active hand's turn, moving to the next split hand
// or the dealer.
func (s *Session) endSlot() error {
	if s.slot+1 < len(s.hands) {
		s.slot++
		return nil
	}
	return s.playDealer()
}

// playDealer runs the dealer turn and settles. The dealer draws only if at
// least one player hand survived.
func (s *Session) playDealer() error {
	s.phase = PhaseDealerTurn

	anyAlive := false
	for _, h := range s.hands {
		if !h.Value().IsBust {
			anyAlive = true
			break
		}
	}
	if anyAlive {
		for DealerShouldHit(s.dealer) {
			if err := s.drawTo(s.dealer); err != nil {
				return err
			}
		}
	}

	s.settle(Resolve(s.dealer, s.hands, s.insuranceTaken))
	return nil
}

// Run drives the session to completion against a collector. Illegal
// actions from the collector are discarded and the cycle repeats. The
// returned snapshot is always settled.
func (s *Session) Run(ctx context.Context, collector ActionCollector) (*Snapshot, error) {
	for !s.Settled() {
		action, err := collector.AwaitAction(ctx, s.PlayerID, s.LegalActions())
		if err != nil {
			return nil, err
		}
		if _, err := s.Advance(action); err != nil {
			if errors.Is(err, ErrIllegalAction) {
				continue
			}
			return nil, err
		}
	}
	return s.Snapshot(), nil
}
