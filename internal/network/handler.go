package network

// EventHandler connects the network layer to the game logic. All three
// callbacks run on the hub goroutine, one at a time, so implementations
// see a serialized view of connect, disconnect and message events.
type EventHandler interface {
	// OnConnect is called once a client's connection is registered.
	OnConnect(c *Client)

	// OnDisconnect is called exactly once when a client goes away, whether
	// it closed cleanly or the transport dropped.
	OnDisconnect(c *Client)

	// OnMessage is called for every inbound envelope from a client.
	OnMessage(c *Client, msg Message)
}
