package sessions

import (
	"fmt"
	"sync"

	"github.com/fadedpez/dealerbot/internal/types"
	"github.com/fadedpez/dealerbot/pkg/blackjack"
)

// Entry is one player's live game: the session itself plus the collector
// its interaction events feed and the channel it renders into.
type Entry struct {
	Session   *blackjack.Session
	Collector *blackjack.InputCollector
	ChannelID string
	MessageID string
}

// Registry tracks the active session per player. The engine assumes it is
// never driven twice concurrently for one player; the registry is what
// enforces that, keeping the engine itself stateless between invocations.
type Registry struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Acquire claims the player's slot. It fails with SESSION_ACTIVE when the
// player already has a live game.
func (r *Registry) Acquire(playerID string, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[playerID]; exists {
		return types.NewGameError(types.ErrSessionActive, fmt.Sprintf("player %s already has an active game", playerID))
	}

	r.entries[playerID] = entry
	return nil
}

// Get returns the player's active entry
func (r *Registry) Get(playerID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[playerID]
	if !exists {
		return nil, types.NewGameError(types.ErrSessionNotFound, fmt.Sprintf("player %s has no active game", playerID))
	}
	return entry, nil
}

// Bind records the message a player's game renders into. The entry is
// published before the game message exists, so the ID is written under the
// registry lock where FindByMessage reads it.
func (r *Registry) Bind(playerID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[playerID]
	if !exists {
		return types.NewGameError(types.ErrSessionNotFound, fmt.Sprintf("player %s has no active game", playerID))
	}
	entry.MessageID = messageID
	return nil
}

// FindByMessage returns the entry rendering into the given message. Button
// presses carry a message ID, not the game owner's ID, so this is how an
// interaction finds the collector to feed.
func (r *Registry) FindByMessage(messageID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if entry.MessageID == messageID {
			return entry, nil
		}
	}
	return nil, types.NewGameError(types.ErrSessionNotFound, fmt.Sprintf("no active game for message %s", messageID))
}

// Release frees the player's slot. Releasing an unclaimed slot is a no-op
// so settle and cancel paths need not coordinate.
func (r *Registry) Release(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, playerID)
}

// Active returns the number of live sessions
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
