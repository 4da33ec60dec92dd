// Package events publishes session lifecycle records for external
// consumers (analytics, spectator tooling). Publishing is fire-and-forget:
// a slow or absent broker never blocks or fails gameplay.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"tron/internal/game"
	"tron/internal/logging"
)

const (
	subjectStarted  = "tron.games.started"
	subjectFinished = "tron.games.finished"
)

// Feed receives session lifecycle notifications from the gateway.
type Feed interface {
	GameStarted(sessionID string, players []string, board game.Board)
	GameFinished(sessionID string, winnerName string)
	Close()
}

// StartedRecord is the payload published on tron.games.started.
type StartedRecord struct {
	SessionID string     `json:"sessionId"`
	Players   []string   `json:"players"`
	Board     game.Board `json:"board"`
	At        time.Time  `json:"at"`
}

// FinishedRecord is the payload published on tron.games.finished. An empty
// winner name means a draw or an unresolved termination.
type FinishedRecord struct {
	SessionID  string    `json:"sessionId"`
	WinnerName string    `json:"winnerName"`
	At         time.Time `json:"at"`
}

// NATSFeed publishes lifecycle records to a NATS broker.
type NATSFeed struct {
	nc *nats.Conn
}

// NewNATSFeed connects to the broker at url.
func NewNATSFeed(url string) (*NATSFeed, error) {
	nc, err := nats.Connect(url,
		nats.Name("tron-server"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSFeed{nc: nc}, nil
}

func (f *NATSFeed) GameStarted(sessionID string, players []string, board game.Board) {
	f.publish(subjectStarted, StartedRecord{
		SessionID: sessionID,
		Players:   players,
		Board:     board,
		At:        time.Now().UTC(),
	})
}

func (f *NATSFeed) GameFinished(sessionID string, winnerName string) {
	f.publish(subjectFinished, FinishedRecord{
		SessionID:  sessionID,
		WinnerName: winnerName,
		At:         time.Now().UTC(),
	})
}

func (f *NATSFeed) publish(subject string, record any) {
	data, err := json.Marshal(record)
	if err != nil {
		logging.L.Errorw("marshal feed record", "subject", subject, "err", err)
		return
	}
	if err := f.nc.Publish(subject, data); err != nil {
		logging.L.Warnw("publish feed record", "subject", subject, "err", err)
	}
}

func (f *NATSFeed) Close() {
	f.nc.Drain()
}

// NopFeed is used when no broker is configured.
type NopFeed struct{}

func (NopFeed) GameStarted(string, []string, game.Board) {}
func (NopFeed) GameFinished(string, string)              {}
func (NopFeed) Close()                                   {}
