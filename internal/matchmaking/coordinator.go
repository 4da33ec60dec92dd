package matchmaking

import (
	"sync"

	"tron/internal/game"
)

// Lobby is a snapshot of a pre-session grouping of players waiting to be
// matched on board size. Join returns it by value: callers never hold a
// live handle into the coordinator's state.
type Lobby struct {
	Players []game.Player
	Board   game.Board
	IsReady bool
}

// Coordinator pairs join requests that share board dimensions. All
// mutation goes through a single mutex; pairing is resolved synchronously
// inside Join using only the lobbies open at that instant, so no join ever
// blocks waiting for another player.
type Coordinator struct {
	mu   sync.Mutex
	open []*Lobby
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Join adds the player to an open lobby with the same board, or opens a
// new lobby when none matches. The moment a lobby reaches two players it
// is marked ready and removed from the open set: it now belongs to the
// caller and can never be found by a later join.
//
// A lobby already containing the caller's connection key is skipped, so a
// client can never be paired with itself.
func (c *Coordinator) Join(player game.Player, board game.Board) Lobby {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, lobby := range c.open {
		if lobby.Board != board || lobby.contains(player.ConnectionKey) {
			continue
		}

		lobby.Players = append(lobby.Players, player)
		lobby.IsReady = true
		c.open = append(c.open[:i], c.open[i+1:]...)
		return lobby.snapshot()
	}

	lobby := &Lobby{
		Players: []game.Player{player},
		Board:   board,
	}
	c.open = append(c.open, lobby)
	return lobby.snapshot()
}

// Leave removes the player from whichever open lobby contains it, deleting
// the lobby if it becomes empty. It returns false when the key is in no
// open lobby; that is the expected path for a disconnect arriving after
// the player was already paired into a session.
func (c *Coordinator) Leave(connectionKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, lobby := range c.open {
		if !lobby.contains(connectionKey) {
			continue
		}

		for j, p := range lobby.Players {
			if p.ConnectionKey == connectionKey {
				lobby.Players = append(lobby.Players[:j], lobby.Players[j+1:]...)
				break
			}
		}
		lobby.IsReady = false

		if len(lobby.Players) == 0 {
			c.open = append(c.open[:i], c.open[i+1:]...)
		}
		return true
	}

	return false
}

// OpenLobbies returns the number of lobbies still waiting for a second
// player.
func (c *Coordinator) OpenLobbies() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.open)
}

func (l *Lobby) contains(connectionKey string) bool {
	for _, p := range l.Players {
		if p.ConnectionKey == connectionKey {
			return true
		}
	}
	return false
}

func (l *Lobby) snapshot() Lobby {
	return Lobby{
		Players: append([]game.Player(nil), l.Players...),
		Board:   l.Board,
		IsReady: l.IsReady,
	}
}
