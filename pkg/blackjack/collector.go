package blackjack

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// ErrCollectorBusy signals a second AwaitAction while one is outstanding.
// A session collects at most one action at a time.
var ErrCollectorBusy = errors.New("action collection already in progress")

// DefaultActionTimeout is how long a collection cycle waits for a
// qualifying action before yielding TIMEOUT.
const DefaultActionTimeout = 30 * time.Second

// ActionCollector suspends until the acting player supplies an action from
// the legal set, the timeout elapses, or the context is cancelled.
type ActionCollector interface {
	AwaitAction(ctx context.Context, playerID string, legal []Action) (Action, error)
}

// Input is one raw action event from the chat surface, attributed to the
// user who produced it.
type Input struct {
	PlayerID string
	Action   Action
}

// InputCollector is a channel-fed ActionCollector. The chat surface pushes
// every candidate event through Submit; AwaitAction filters them against
// the acting player and the legal set. Ignored input does not restart the
// timeout timer.
type InputCollector struct {
	inputs     chan Input
	clock      quartz.Clock
	timeout    time.Duration
	logger     *log.Logger
	collecting atomic.Bool
}

// NewInputCollector creates a collector with the given timeout. A nil
// clock falls back to the real clock; tests pass a quartz mock.
func NewInputCollector(timeout time.Duration, clock quartz.Clock, logger *log.Logger) *InputCollector {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &InputCollector{
		inputs:  make(chan Input, 8),
		clock:   clock,
		timeout: timeout,
		logger:  logger.WithPrefix("collector"),
	}
}

// Submit offers one event to the collector without blocking. Events that
// arrive while no collection cycle is outstanding, or while the buffer is
// full, are dropped.
func (c *InputCollector) Submit(playerID string, action Action) {
	if !c.collecting.Load() {
		return
	}
	select {
	case c.inputs <- Input{PlayerID: playerID, Action: action}:
	default:
		c.logger.Warn("input buffer full, dropping event", "player_id", playerID, "action", action)
	}
}

// AwaitAction blocks until a qualifying action arrives from playerID. A
// cancel request from the player qualifies in every phase. Expiry of the
// timeout yields ActionTimeout and cancellation of ctx yields ActionCancel;
// neither is an error. The timer covers the whole cycle: filtered input
// does not restart it.
func (c *InputCollector) AwaitAction(ctx context.Context, playerID string, legal []Action) (Action, error) {
	if !c.collecting.CompareAndSwap(false, true) {
		return "", ErrCollectorBusy
	}
	defer c.collecting.Store(false)

	// Drop events left over from a previous cycle so a stale press cannot
	// satisfy this one.
	for {
		select {
		case <-c.inputs:
		default:
			goto collect
		}
	}

collect:
	timer := c.clock.NewTimer(c.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ActionCancel, nil
		case <-timer.C:
			c.logger.Info("action collection timed out", "player_id", playerID)
			return ActionTimeout, nil
		case input := <-c.inputs:
			if input.PlayerID != playerID {
				c.logger.Debug("ignoring input from non-owner", "player_id", input.PlayerID)
				continue
			}
			if input.Action == ActionCancel {
				return ActionCancel, nil
			}
			if !input.Action.In(legal) {
				c.logger.Debug("ignoring illegal action", "action", input.Action)
				continue
			}
			return input.Action, nil
		}
	}
}
