package matchmaking

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tron/internal/game"
)

var testBoard = game.Board{Rows: 25, Cols: 25}

func player(n int) game.Player {
	return game.Player{
		Name:          fmt.Sprintf("player-%d", n),
		ConnectionKey: fmt.Sprintf("conn-%d", n),
	}
}

func TestJoinOpensLobbyForFirstPlayer(t *testing.T) {
	c := NewCoordinator()

	lobby := c.Join(player(1), testBoard)

	assert.False(t, lobby.IsReady)
	require.Len(t, lobby.Players, 1)
	assert.Equal(t, "player-1", lobby.Players[0].Name)
	assert.Equal(t, 1, c.OpenLobbies())
}

func TestJoinPairsSameBoardInArrivalOrder(t *testing.T) {
	c := NewCoordinator()

	c.Join(player(1), testBoard)
	lobby := c.Join(player(2), testBoard)

	require.True(t, lobby.IsReady)
	require.Len(t, lobby.Players, 2)
	assert.Equal(t, "player-1", lobby.Players[0].Name)
	assert.Equal(t, "player-2", lobby.Players[1].Name)

	// The ready lobby left the open set; a third join starts fresh.
	assert.Equal(t, 0, c.OpenLobbies())
	third := c.Join(player(3), testBoard)
	assert.False(t, third.IsReady)
}

func TestJoinNeverPairsDifferentBoards(t *testing.T) {
	c := NewCoordinator()

	c.Join(player(1), game.Board{Rows: 25, Cols: 25})
	lobby := c.Join(player(2), game.Board{Rows: 10, Cols: 10})

	assert.False(t, lobby.IsReady)
	assert.Equal(t, 2, c.OpenLobbies())
}

func TestJoinNeverPairsPlayerWithItself(t *testing.T) {
	c := NewCoordinator()

	first := c.Join(player(1), testBoard)
	second := c.Join(player(1), testBoard)

	assert.False(t, first.IsReady)
	assert.False(t, second.IsReady)
	assert.Equal(t, 2, c.OpenLobbies())
}

func TestLeaveRemovesSoleOccupantAndLobby(t *testing.T) {
	c := NewCoordinator()

	c.Join(player(1), testBoard)
	assert.True(t, c.Leave("conn-1"))
	assert.Equal(t, 0, c.OpenLobbies())
}

func TestLeaveUnknownKeyIsNoOp(t *testing.T) {
	c := NewCoordinator()

	assert.False(t, c.Leave("conn-404"))

	// A player that was already paired is no longer in any open lobby.
	c.Join(player(1), testBoard)
	c.Join(player(2), testBoard)
	assert.False(t, c.Leave("conn-1"))
}

func TestJoinSnapshotIsDetached(t *testing.T) {
	c := NewCoordinator()

	lobby := c.Join(player(1), testBoard)
	lobby.Players[0].Name = "mutated"

	second := c.Join(player(2), testBoard)
	assert.Equal(t, "player-1", second.Players[0].Name)
}

func TestConcurrentJoinsPairExactlyPairwise(t *testing.T) {
	c := NewCoordinator()

	const joiners = 100
	ready := make(chan Lobby, joiners)
	var wg sync.WaitGroup

	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			lobby := c.Join(player(n), testBoard)
			if lobby.IsReady {
				ready <- lobby
			}
		}(i)
	}
	wg.Wait()
	close(ready)

	seen := make(map[string]bool)
	pairs := 0
	for lobby := range ready {
		pairs++
		require.Len(t, lobby.Players, 2)
		for _, p := range lobby.Players {
			assert.False(t, seen[p.ConnectionKey], "player %s paired twice", p.ConnectionKey)
			seen[p.ConnectionKey] = true
		}
		assert.NotEqual(t, lobby.Players[0].ConnectionKey, lobby.Players[1].ConnectionKey)
	}

	assert.Equal(t, joiners/2, pairs)
	assert.Equal(t, 0, c.OpenLobbies())
}
