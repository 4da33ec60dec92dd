package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tron/internal/game"
)

func playerWithTrail(name string, cells ...game.Position) *Player {
	p := newPlayer(name)
	p.init(cells[0])
	p.trail = Trail{parts: cells}
	return p
}

func TestBoardDetectorFiresOnlyOutsideBounds(t *testing.T) {
	board := game.Board{Rows: 10, Cols: 10}

	inside := playerWithTrail("a", game.Position{Row: 9, Col: 9})
	assert.False(t, detectBoardCollision(inside, nil, board))

	below := playerWithTrail("a", game.Position{Row: 9, Col: 5}, game.Position{Row: 10, Col: 5})
	assert.True(t, detectBoardCollision(below, nil, board))

	left := playerWithTrail("a", game.Position{Row: 5, Col: 0}, game.Position{Row: 5, Col: -1})
	assert.True(t, detectBoardCollision(left, nil, board))
}

func TestTrailDetectorIgnoresOwnHead(t *testing.T) {
	board := game.Board{Rows: 10, Cols: 10}

	// A freshly moved player overlaps nothing but its own head; that is
	// not a collision.
	p := playerWithTrail("a", game.Position{Row: 5, Col: 5}, game.Position{Row: 5, Col: 6})
	assert.False(t, detectTrailCollision(p, []*Player{p}, board))
}

func TestTrailDetectorFindsOwnEarlierCell(t *testing.T) {
	board := game.Board{Rows: 10, Cols: 10}

	p := playerWithTrail("a",
		game.Position{Row: 5, Col: 5},
		game.Position{Row: 5, Col: 6},
		game.Position{Row: 6, Col: 6},
		game.Position{Row: 6, Col: 5},
		game.Position{Row: 5, Col: 5}, // back onto the first cell
	)
	assert.True(t, detectTrailCollision(p, []*Player{p}, board))
}

func TestTrailDetectorIncludesOpponentHead(t *testing.T) {
	board := game.Board{Rows: 10, Cols: 10}

	a := playerWithTrail("a", game.Position{Row: 5, Col: 4}, game.Position{Row: 5, Col: 5})
	b := playerWithTrail("b", game.Position{Row: 5, Col: 6}, game.Position{Row: 5, Col: 5})
	all := []*Player{a, b}

	// Both heads share (5,5): each collides with the other's head.
	assert.True(t, detectTrailCollision(a, all, board))
	assert.True(t, detectTrailCollision(b, all, board))
}

func TestDetectorOrderBoardFirst(t *testing.T) {
	board := game.Board{Rows: 10, Cols: 10}

	// Out of bounds and on an opponent cell at once: the board detector
	// is consulted first.
	a := playerWithTrail("a", game.Position{Row: 9, Col: 5}, game.Position{Row: 10, Col: 5})
	b := playerWithTrail("b", game.Position{Row: 10, Col: 5})

	kind := detect(defaultDetectors(), a, []*Player{a, b}, board)
	assert.Equal(t, CollisionBoard, kind)
}
