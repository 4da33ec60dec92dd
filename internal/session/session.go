package session

import (
	"time"

	"tron/internal/game"
)

// State is the lifecycle state of a session.
type State int

const (
	StatePlaying State = iota
	StateFinished
)

// Session is the authoritative record of one matched two-player game. Its
// id doubles as the broadcast group name for the pair. Players are copied
// in at creation time and never shared with the lobby that produced them,
// so a mutation on one view can never leak into the other.
type Session struct {
	ID        string
	Players   []game.Player
	Board     game.Board
	State     State
	CreatedAt time.Time
	EndedAt   time.Time
}

// PlayerName resolves a participant's display name by connection key.
func (s *Session) PlayerName(connectionKey string) (string, bool) {
	for _, p := range s.Players {
		if p.ConnectionKey == connectionKey {
			return p.Name, true
		}
	}
	return "", false
}
