package gateway

import (
	"encoding/json"
	"strings"

	"tron/internal/game"
	"tron/internal/logging"
	"tron/internal/network"
	"tron/internal/protocol"
)

// handleFindGame pairs the caller into a lobby and, when the lobby fills,
// materializes the session and starts the game for both participants.
func (h *GameHandler) handleFindGame(c Conn, payload json.RawMessage) {
	var req protocol.FindGame
	if err := json.Unmarshal(payload, &req); err != nil {
		h.reject(c, "malformed find_game payload")
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		h.reject(c, "player name is required")
		return
	}
	if !req.PlayerBoard.Valid() {
		h.reject(c, "board dimensions must be positive")
		return
	}

	player := game.Player{
		Name:          req.PlayerName,
		ConnectionKey: c.Key(),
	}
	lobby := h.coordinator.Join(player, req.PlayerBoard)
	if !lobby.IsReady {
		logging.L.Infow("waiting for opponent", "conn", c.Key(), "player", player.Name, "board", lobby.Board)
		return
	}

	sess, err := h.registry.Create(lobby.Players, lobby.Board)
	if err != nil {
		// Internal-consistency fault: fatal for this request only.
		logging.L.Errorw("session create failed", "conn", c.Key(), "err", err)
		h.reject(c, "could not start game")
		return
	}

	positions, err := game.SpawnPositions(len(sess.Players), sess.Board)
	if err != nil {
		logging.L.Errorw("spawn failed", "session", sess.ID, "err", err)
		h.registry.Retire(c.Key())
		h.reject(c, "could not start game")
		return
	}

	started := protocol.GameStarted{Players: make([]protocol.SpawnedPlayer, len(sess.Players))}
	names := make([]string, len(sess.Players))
	for i, p := range sess.Players {
		started.Players[i] = protocol.SpawnedPlayer{Name: p.Name, Position: positions[i]}
		names[i] = p.Name

		member, ok := h.conns[p.ConnectionKey]
		if !ok {
			// Cannot happen while disconnects are serialized behind us;
			// treat like any other internal-consistency fault.
			logging.L.Errorw("matched player has no live connection", "session", sess.ID, "conn", p.ConnectionKey)
			continue
		}
		h.addToGroup(sess.ID, member)
	}

	msg, err := network.NewMessage(protocol.TypeGameStarted, started)
	if err != nil {
		logging.L.Errorw("encode game_started", "session", sess.ID, "err", err)
		return
	}
	h.broadcast(sess.ID, "", msg)
	h.feed.GameStarted(sess.ID, names, sess.Board)
	logging.L.Infow("game started", "session", sess.ID, "players", names, "board", sess.Board)
}

// handleChangeDirection relays a turn to the caller's opponent. A caller
// with no live session is not an error: the game may have ended while the
// message was in flight.
func (h *GameHandler) handleChangeDirection(c Conn, payload json.RawMessage) {
	var req protocol.ChangeDirection
	if err := json.Unmarshal(payload, &req); err != nil {
		h.reject(c, "malformed change_direction payload")
		return
	}
	if !req.Direction.Defined() {
		h.reject(c, "unknown direction")
		return
	}

	sess, ok := h.registry.Get(c.Key())
	if !ok {
		return
	}
	name, ok := sess.PlayerName(c.Key())
	if !ok {
		logging.L.Errorw("caller not among session players", "session", sess.ID, "conn", c.Key())
		return
	}

	msg, err := network.NewMessage(protocol.TypePlayerDirectionChanged, protocol.PlayerDirectionChanged{
		PlayerName: name,
		Direction:  req.Direction,
	})
	if err != nil {
		logging.L.Errorw("encode player_direction_changed", "session", sess.ID, "err", err)
		return
	}
	h.broadcast(sess.ID, c.Key(), msg)
}

// handleFinishGame retires the caller's session with the outcome its
// simulation reached. An empty winner name encodes a draw.
func (h *GameHandler) handleFinishGame(c Conn, payload json.RawMessage) {
	var req protocol.FinishGame
	if err := json.Unmarshal(payload, &req); err != nil {
		h.reject(c, "malformed finish_game payload")
		return
	}
	h.endGame(c, req.WinnerName)
}

// handleForfeitGame abandons the caller's game; the remaining participant
// sees an unresolved termination.
func (h *GameHandler) handleForfeitGame(c Conn, payload json.RawMessage) {
	var req protocol.ForfeitGame
	if err := json.Unmarshal(payload, &req); err != nil {
		h.reject(c, "malformed forfeit_game payload")
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		h.reject(c, "player name is required")
		return
	}
	h.endGame(c, "")
}

// endGame retires the caller's session, tells the rest of the group, and
// dissolves the group. Retire is idempotent, so whichever of finish,
// forfeit or disconnect arrives second finds no session and does nothing.
func (h *GameHandler) endGame(c Conn, winnerName string) {
	sess, ok := h.registry.Retire(c.Key())
	if !ok {
		return
	}

	msg, err := network.NewMessage(protocol.TypeGameFinished, protocol.GameFinished{WinnerName: winnerName})
	if err != nil {
		logging.L.Errorw("encode game_finished", "session", sess.ID, "err", err)
	} else {
		h.broadcast(sess.ID, c.Key(), msg)
	}

	h.dropGroup(sess.ID)
	h.feed.GameFinished(sess.ID, winnerName)
	logging.L.Infow("game finished", "session", sess.ID, "winner", winnerName)
}
