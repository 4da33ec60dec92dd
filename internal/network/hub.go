package network

// clientMessage pairs an inbound envelope with the client that sent it.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub owns the set of live clients and serializes every connect,
// disconnect and inbound message onto one goroutine before handing them to
// the EventHandler. The handler therefore never needs its own locking for
// per-connection state.
type Hub struct {
	// Registered clients. Touched only by the hub goroutine.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage

	handler EventHandler
}

func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Closing send stops the client's writeLoop.
				close(client.send)
				h.handler.OnDisconnect(client)
			}

		case cm := <-h.incoming:
			h.handler.OnMessage(cm.client, cm.msg)
		}
	}
}
