// Package gateway is the boundary between the network layer and the game
// services. It validates inbound requests, drives the matchmaking
// coordinator and the session registry, and broadcasts game events to
// session groups.
package gateway

import (
	"encoding/json"
	"fmt"

	"tron/internal/events"
	"tron/internal/logging"
	"tron/internal/matchmaking"
	"tron/internal/network"
	"tron/internal/protocol"
	"tron/internal/session"
)

// Conn is the slice of a network client the gateway needs. *network.Client
// satisfies it; tests substitute fakes.
type Conn interface {
	Key() string
	Send() chan<- network.Message
}

// commandFunc handles one inbound request type.
type commandFunc func(h *GameHandler, c Conn, payload json.RawMessage)

// GameHandler implements network.EventHandler. All its callbacks run on
// the hub goroutine, so the conns and groups maps need no lock; the
// coordinator and registry carry their own mutexes because they are shared
// components in their own right.
type GameHandler struct {
	coordinator *matchmaking.Coordinator
	registry    *session.Registry
	feed        events.Feed

	// conns resolves a connection key to its live connection, so the
	// gateway can add a matched opponent to a broadcast group.
	conns map[string]Conn

	// groups holds broadcast group membership, keyed by session id.
	groups map[string]map[string]Conn

	router map[string]commandFunc
}

func NewGameHandler(coordinator *matchmaking.Coordinator, registry *session.Registry, feed events.Feed) *GameHandler {
	h := &GameHandler{
		coordinator: coordinator,
		registry:    registry,
		feed:        feed,
		conns:       make(map[string]Conn),
		groups:      make(map[string]map[string]Conn),
	}
	h.router = map[string]commandFunc{
		protocol.TypeFindGame:        (*GameHandler).handleFindGame,
		protocol.TypeChangeDirection: (*GameHandler).handleChangeDirection,
		protocol.TypeFinishGame:      (*GameHandler).handleFinishGame,
		protocol.TypeForfeitGame:     (*GameHandler).handleForfeitGame,
	}
	return h
}

// --- network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) {
	h.Connect(c)
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	h.Disconnect(c)
}

func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	h.Handle(c, msg)
}

// Connect registers the connection under its key.
func (h *GameHandler) Connect(c Conn) {
	h.conns[c.Key()] = c
	logging.L.Infow("client connected", "conn", c.Key(), "total", len(h.conns))
}

// Disconnect cleans up whatever the connection was part of. A player still
// alone in an open lobby only has the lobby torn down; a player already
// paired has its session retired exactly as a forfeit would. The lobby
// check runs first so a pre-pairing disconnect can never fabricate a
// finish event for an opponent that never existed.
func (h *GameHandler) Disconnect(c Conn) {
	key := c.Key()
	delete(h.conns, key)

	if h.coordinator.Leave(key) {
		logging.L.Infow("client left open lobby", "conn", key)
		return
	}

	h.endGame(c, "")
	logging.L.Infow("client disconnected", "conn", key, "total", len(h.conns))
}

// Handle routes an inbound envelope to its command handler. An unknown
// type is a validation fault for the caller only.
func (h *GameHandler) Handle(c Conn, msg network.Message) {
	cmd, ok := h.router[msg.Type]
	if !ok {
		h.reject(c, fmt.Sprintf("unknown request type %q", msg.Type))
		return
	}
	cmd(h, c, msg.Payload)
}

// --- group bookkeeping and sends ---

func (h *GameHandler) addToGroup(group string, c Conn) {
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]Conn)
		h.groups[group] = members
	}
	members[c.Key()] = c
}

// dropGroup removes every member and the group itself.
func (h *GameHandler) dropGroup(group string) {
	delete(h.groups, group)
}

// broadcast sends msg to every group member except the connection key in
// exclude, when non-empty. Sends are fire-and-forget: a client whose
// outbound buffer is full simply misses the message rather than stalling
// the hub.
func (h *GameHandler) broadcast(group, exclude string, msg network.Message) {
	for key, member := range h.groups[group] {
		if key == exclude {
			continue
		}
		h.send(member, msg)
	}
}

func (h *GameHandler) send(c Conn, msg network.Message) {
	select {
	case c.Send() <- msg:
	default:
		logging.L.Warnw("send buffer full, dropping message", "conn", c.Key(), "type", msg.Type)
	}
}

// reject answers a validation fault. The connection stays open and no
// state has been touched.
func (h *GameHandler) reject(c Conn, reason string) {
	logging.L.Debugw("request rejected", "conn", c.Key(), "reason", reason)
	h.send(c, network.NewErrorMessage(reason))
}
