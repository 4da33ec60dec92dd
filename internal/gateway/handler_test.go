package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tron/internal/events"
	"tron/internal/game"
	"tron/internal/matchmaking"
	"tron/internal/network"
	"tron/internal/protocol"
	"tron/internal/session"
)

var testBoard = game.Board{Rows: 25, Cols: 25}

// fakeConn stands in for a live websocket client.
type fakeConn struct {
	key string
	ch  chan network.Message
}

func newFakeConn(key string) *fakeConn {
	return &fakeConn{key: key, ch: make(chan network.Message, 16)}
}

func (f *fakeConn) Key() string                  { return f.key }
func (f *fakeConn) Send() chan<- network.Message { return f.ch }

// received drains and returns everything sent to the conn so far.
func (f *fakeConn) received() []network.Message {
	var msgs []network.Message
	for {
		select {
		case msg := <-f.ch:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func newHandler() *GameHandler {
	return NewGameHandler(matchmaking.NewCoordinator(), session.NewRegistry(), events.NopFeed{})
}

func request(t *testing.T, msgType string, payload any) network.Message {
	t.Helper()
	msg, err := network.NewMessage(msgType, payload)
	require.NoError(t, err)
	return msg
}

func findGame(t *testing.T, h *GameHandler, c Conn, name string) {
	t.Helper()
	h.Handle(c, request(t, protocol.TypeFindGame, protocol.FindGame{
		PlayerName:  name,
		PlayerBoard: testBoard,
	}))
}

// startGame connects both conns and pairs them into a running session.
func startGame(t *testing.T, h *GameHandler, a, b *fakeConn) {
	t.Helper()
	h.Connect(a)
	h.Connect(b)
	findGame(t, h, a, "alice")
	findGame(t, h, b, "bob")
}

func decode[T any](t *testing.T, msg network.Message) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(msg.Payload, &out))
	return out
}

func TestFindGameBroadcastsStartToBothPlayers(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")

	startGame(t, h, a, b)

	for _, c := range []*fakeConn{a, b} {
		msgs := c.received()
		require.Len(t, msgs, 1, "conn %s", c.key)
		require.Equal(t, protocol.TypeGameStarted, msgs[0].Type)

		started := decode[protocol.GameStarted](t, msgs[0])
		require.Len(t, started.Players, 2)
		assert.Equal(t, "alice", started.Players[0].Name)
		assert.Equal(t, game.Position{Row: 24, Col: 12, Direction: game.DirUp}, started.Players[0].Position)
		assert.Equal(t, "bob", started.Players[1].Name)
		assert.Equal(t, game.Position{Row: 0, Col: 12, Direction: game.DirDown}, started.Players[1].Position)
	}
}

func TestFindGameFirstPlayerWaitsSilently(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	h.Connect(a)

	findGame(t, h, a, "alice")

	assert.Empty(t, a.received())
}

func TestFindGameValidation(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	h.Connect(a)

	cases := []protocol.FindGame{
		{PlayerName: "", PlayerBoard: testBoard},
		{PlayerName: "   ", PlayerBoard: testBoard},
		{PlayerName: "alice", PlayerBoard: game.Board{Rows: 0, Cols: 25}},
		{PlayerName: "alice", PlayerBoard: game.Board{Rows: 25, Cols: -1}},
	}
	for _, req := range cases {
		h.Handle(a, request(t, protocol.TypeFindGame, req))

		msgs := a.received()
		require.Len(t, msgs, 1)
		assert.Equal(t, network.TypeError, msgs[0].Type)
	}

	// None of the rejected requests may have opened a lobby.
	assert.Equal(t, 0, h.coordinator.OpenLobbies())
}

func TestUnknownRequestTypeIsRejected(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	h.Connect(a)

	h.Handle(a, network.Message{Type: "launch_missiles"})

	msgs := a.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, network.TypeError, msgs[0].Type)
}

func TestChangeDirectionRelaysToOpponentOnly(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	startGame(t, h, a, b)
	a.received()
	b.received()

	h.Handle(a, request(t, protocol.TypeChangeDirection, protocol.ChangeDirection{Direction: game.DirLeft}))

	assert.Empty(t, a.received(), "sender must not get its own turn echoed")

	msgs := b.received()
	require.Len(t, msgs, 1)
	require.Equal(t, protocol.TypePlayerDirectionChanged, msgs[0].Type)
	changed := decode[protocol.PlayerDirectionChanged](t, msgs[0])
	assert.Equal(t, "alice", changed.PlayerName)
	assert.Equal(t, game.DirLeft, changed.Direction)
}

func TestChangeDirectionWithoutSessionIsIgnored(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	h.Connect(a)

	h.Handle(a, request(t, protocol.TypeChangeDirection, protocol.ChangeDirection{Direction: game.DirUp}))

	assert.Empty(t, a.received())
}

func TestChangeDirectionRejectsUnknownDirection(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	h.Connect(a)

	h.Handle(a, request(t, protocol.TypeChangeDirection, protocol.ChangeDirection{Direction: game.Direction(42)}))

	msgs := a.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, network.TypeError, msgs[0].Type)
}

func TestFinishGameNotifiesOpponentAndRetires(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	startGame(t, h, a, b)
	a.received()
	b.received()

	h.Handle(a, request(t, protocol.TypeFinishGame, protocol.FinishGame{WinnerName: "alice"}))

	assert.Empty(t, a.received())
	msgs := b.received()
	require.Len(t, msgs, 1)
	require.Equal(t, protocol.TypeGameFinished, msgs[0].Type)
	assert.Equal(t, "alice", decode[protocol.GameFinished](t, msgs[0]).WinnerName)

	// Second finish finds no session and is a no-op.
	h.Handle(b, request(t, protocol.TypeFinishGame, protocol.FinishGame{WinnerName: "bob"}))
	assert.Empty(t, a.received())
	assert.Empty(t, b.received())
	assert.Equal(t, 0, h.registry.Active())
}

func TestForfeitBroadcastsEmptyWinner(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	startGame(t, h, a, b)
	a.received()
	b.received()

	h.Handle(a, request(t, protocol.TypeForfeitGame, protocol.ForfeitGame{PlayerName: "alice"}))

	msgs := b.received()
	require.Len(t, msgs, 1)
	require.Equal(t, protocol.TypeGameFinished, msgs[0].Type)
	assert.Equal(t, "", decode[protocol.GameFinished](t, msgs[0]).WinnerName)
}

func TestDisconnectBeforePairingOnlyCleansLobby(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	h.Connect(a)
	h.Connect(b)

	findGame(t, h, a, "alice")
	h.Disconnect(a)

	assert.Equal(t, 0, h.coordinator.OpenLobbies())
	assert.Empty(t, a.received())
	assert.Empty(t, b.received(), "nobody may see a finish event for a game that never existed")

	// The remaining player can still be paired afterwards.
	findGame(t, h, b, "bob")
	c := newFakeConn("conn-c")
	h.Connect(c)
	findGame(t, h, c, "carol")
	msgs := b.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, protocol.TypeGameStarted, msgs[0].Type)
}

func TestDisconnectAfterPairingForfeitsToPeer(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	startGame(t, h, a, b)
	a.received()
	b.received()

	h.Disconnect(a)

	msgs := b.received()
	require.Len(t, msgs, 1)
	require.Equal(t, protocol.TypeGameFinished, msgs[0].Type)
	assert.Equal(t, "", decode[protocol.GameFinished](t, msgs[0]).WinnerName)

	// The peer's own disconnect afterwards finds nothing left to retire.
	h.Disconnect(b)
	assert.Empty(t, b.received())
	assert.Equal(t, 0, h.registry.Active())
}

func TestDoubleJoinDoesNotSelfPair(t *testing.T) {
	h := newHandler()
	a := newFakeConn("conn-a")
	h.Connect(a)

	findGame(t, h, a, "alice")
	findGame(t, h, a, "alice")

	assert.Empty(t, a.received())
	assert.Equal(t, 2, h.coordinator.OpenLobbies())
}
