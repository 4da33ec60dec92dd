// Package protocol defines the message types and payload shapes shared by
// the server and all clients. Inbound types are requests a client may
// send; outbound types are events the server broadcasts to session
// members.
package protocol

import "tron/internal/game"

// Inbound request types.
const (
	TypeFindGame        = "find_game"
	TypeChangeDirection = "change_direction"
	TypeFinishGame      = "finish_game"
	TypeForfeitGame     = "forfeit_game"
)

// Outbound event types.
const (
	TypeGameStarted            = "game_started"
	TypePlayerDirectionChanged = "player_direction_changed"
	TypeGameFinished           = "game_finished"
)

// FindGame asks the matchmaker for an opponent on a board of the given
// dimensions.
type FindGame struct {
	PlayerName  string     `json:"playerName"`
	PlayerBoard game.Board `json:"playerBoard"`
}

// ChangeDirection announces the sender's new facing to its opponent.
type ChangeDirection struct {
	Direction game.Direction `json:"direction"`
}

// FinishGame reports the outcome a client's simulation reached. An empty
// winner name encodes a draw.
type FinishGame struct {
	WinnerName string `json:"winnerName"`
}

// ForfeitGame abandons an in-progress game.
type ForfeitGame struct {
	PlayerName string `json:"playerName"`
}

// SpawnedPlayer is one participant in a GameStarted event, in match order.
type SpawnedPlayer struct {
	Name     string        `json:"name"`
	Position game.Position `json:"position"`
}

// GameStarted tells both participants the match is on and where each
// player spawns.
type GameStarted struct {
	Players []SpawnedPlayer `json:"players"`
}

// PlayerDirectionChanged relays an opponent's turn.
type PlayerDirectionChanged struct {
	PlayerName string         `json:"playerName"`
	Direction  game.Direction `json:"direction"`
}

// GameFinished ends the match for everyone still in it. An empty winner
// name means a draw or an unresolved termination such as a forfeit or
// disconnect.
type GameFinished struct {
	WinnerName string `json:"winnerName"`
}
