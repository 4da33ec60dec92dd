package network

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tron/internal/logging"
)

// Server upgrades HTTP requests to websocket connections and feeds them
// into a Hub.
type Server struct {
	hub *Hub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin may connect; the game has no credentialed surface.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewServer wires the game logic handler into a fresh hub.
func NewServer(handler EventHandler) *Server {
	return &Server{
		hub: NewHub(handler),
	}
}

// WSHandler is the HTTP entry point for client connections.
func (s *Server) WSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	client := &Client{
		conn: conn,
		hub:  s.hub,
		key:  uuid.NewString(),
		send: make(chan Message, 256),
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// Listen starts the hub and serves websocket connections on /ws using the
// provided mux so the composition root can hang health and other endpoints
// off the same listener.
func (s *Server) Listen(address string, mux *http.ServeMux) error {
	go s.hub.Run()

	mux.HandleFunc("/ws", s.WSHandler)

	logging.L.Infof("websocket server listening on ws://%s/ws", address)
	return http.ListenAndServe(address, mux)
}
