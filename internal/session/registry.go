package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tron/internal/game"
)

// Registry tracks active sessions keyed by participant connection key.
// Each key maps to at most one live session at any instant. All three
// operations serialize through one mutex; in particular Retire removes
// every participant's mapping in the same critical section, so no stale
// entry ever survives a teardown.
type Registry struct {
	mu    sync.Mutex
	byKey map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]*Session),
	}
}

// Create materializes a session for a matched pair and publishes the
// mapping from each player's connection key to it. A key already mapped to
// a live session means the matchmaking invariants were broken upstream;
// that is an internal-consistency fault reported to the caller, never a
// partial insert.
func (r *Registry) Create(players []game.Player, board game.Board) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		if existing, ok := r.byKey[p.ConnectionKey]; ok {
			return nil, fmt.Errorf("registry: connection %s already in session %s", p.ConnectionKey, existing.ID)
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		Players:   append([]game.Player(nil), players...),
		Board:     board,
		State:     StatePlaying,
		CreatedAt: time.Now().UTC(),
	}

	for _, p := range s.Players {
		r.byKey[p.ConnectionKey] = s
	}
	return s, nil
}

// Get returns the live session for a connection key, if any.
func (r *Registry) Get(connectionKey string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byKey[connectionKey]
	return s, ok
}

// Retire ends the session the key belongs to and unmaps every
// participant. It is idempotent: whichever of peer finish, self forfeit or
// transport disconnect gets here first wins, and later callers observe an
// absent session and take no further action.
func (r *Registry) Retire(connectionKey string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byKey[connectionKey]
	if !ok {
		return nil, false
	}

	s.State = StateFinished
	s.EndedAt = time.Now().UTC()
	for _, p := range s.Players {
		delete(r.byKey, p.ConnectionKey)
	}
	return s, true
}

// Active returns the number of live sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	for _, s := range r.byKey {
		seen[s.ID] = true
	}
	return len(seen)
}
