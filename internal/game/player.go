package game

// Player identifies one participant. ConnectionKey is the stable identity
// of a live connection: it is unique per connection and a reconnecting
// client gets a fresh one, so no player identity survives a reconnect.
type Player struct {
	Name          string
	ConnectionKey string
}
