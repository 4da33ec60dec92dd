// Package client implements the player side of the wire protocol: dialing
// the server with fixed-interval retry, translating broadcast envelopes
// into engine events, and reporting the local simulation's traffic back.
package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tron/internal/engine"
	"tron/internal/game"
	"tron/internal/logging"
	"tron/internal/network"
	"tron/internal/protocol"
)

// DefaultRetryInterval matches the original client's reconnect cadence.
const DefaultRetryInterval = 5 * time.Second

// Comm is one live connection to the game server. Its ChangeDirection and
// FinishGame methods make it the engine's Reporter.
type Comm struct {
	conn *websocket.Conn

	// Writes come from both the engine goroutine (reports) and the UI
	// goroutine (find/forfeit), so they are serialized here.
	writeMu sync.Mutex
}

// Dial connects to the server, retrying at a fixed interval until it
// succeeds or attempts are exhausted. maxAttempts <= 0 retries forever.
func Dial(serverAddr string, retryInterval time.Duration, maxAttempts int) (*Comm, error) {
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	u := url.URL{Scheme: "ws", Host: serverAddr, Path: "/ws"}

	for attempt := 1; ; attempt++ {
		conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
		if err == nil {
			logging.L.Infow("connected", "server", u.String())
			return &Comm{conn: conn}, nil
		}

		if maxAttempts > 0 && attempt >= maxAttempts {
			return nil, fmt.Errorf("connect to %s: %w", u.String(), err)
		}
		logging.L.Warnw("connect failed, retrying", "server", u.String(), "err", err)
		time.Sleep(retryInterval)
	}
}

// Pump reads broadcast envelopes and feeds them to the engine until the
// connection drops. It returns the read error that ended it.
func (c *Comm) Pump(e *engine.Engine) error {
	for {
		var msg network.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return err
		}

		switch msg.Type {
		case protocol.TypeGameStarted:
			var started protocol.GameStarted
			if err := json.Unmarshal(msg.Payload, &started); err != nil {
				logging.L.Warnw("bad game_started payload", "err", err)
				continue
			}
			e.Deliver(engine.StartedEvent{Players: started.Players})

		case protocol.TypePlayerDirectionChanged:
			var turn protocol.PlayerDirectionChanged
			if err := json.Unmarshal(msg.Payload, &turn); err != nil {
				logging.L.Warnw("bad player_direction_changed payload", "err", err)
				continue
			}
			e.Deliver(engine.TurnEvent{PlayerName: turn.PlayerName, Direction: turn.Direction})

		case protocol.TypeGameFinished:
			var finished protocol.GameFinished
			if err := json.Unmarshal(msg.Payload, &finished); err != nil {
				logging.L.Warnw("bad game_finished payload", "err", err)
				continue
			}
			e.Deliver(engine.FinishedEvent{WinnerName: finished.WinnerName})

		case network.TypeError:
			var rejection network.ErrorMessage
			_ = json.Unmarshal(msg.Payload, &rejection)
			logging.L.Warnw("request rejected by server", "reason", rejection.Message)

		default:
			logging.L.Debugw("ignoring unknown message", "type", msg.Type)
		}
	}
}

// FindGame asks the matchmaker for an opponent.
func (c *Comm) FindGame(playerName string, board game.Board) error {
	return c.write(protocol.TypeFindGame, protocol.FindGame{
		PlayerName:  playerName,
		PlayerBoard: board,
	})
}

// ForfeitGame abandons the current game.
func (c *Comm) ForfeitGame(playerName string) error {
	return c.write(protocol.TypeForfeitGame, protocol.ForfeitGame{PlayerName: playerName})
}

// ChangeDirection implements engine.Reporter.
func (c *Comm) ChangeDirection(d game.Direction) {
	if err := c.write(protocol.TypeChangeDirection, protocol.ChangeDirection{Direction: d}); err != nil {
		logging.L.Warnw("relay turn", "err", err)
	}
}

// FinishGame implements engine.Reporter.
func (c *Comm) FinishGame(winnerName string) {
	if err := c.write(protocol.TypeFinishGame, protocol.FinishGame{WinnerName: winnerName}); err != nil {
		logging.L.Warnw("report finish", "err", err)
	}
}

func (c *Comm) write(msgType string, payload any) error {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(msg)
}

// Close tears the connection down.
func (c *Comm) Close() {
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}
