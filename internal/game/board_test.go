package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardInside(t *testing.T) {
	board := Board{Rows: 10, Cols: 10}

	assert.True(t, board.Inside(Position{Row: 0, Col: 0}))
	assert.True(t, board.Inside(Position{Row: 9, Col: 9}))
	assert.False(t, board.Inside(Position{Row: 10, Col: 5}))
	assert.False(t, board.Inside(Position{Row: 5, Col: 10}))
	assert.False(t, board.Inside(Position{Row: -1, Col: 0}))
	assert.False(t, board.Inside(Position{Row: 0, Col: -1}))
}

func TestBoardValid(t *testing.T) {
	assert.True(t, Board{Rows: 1, Cols: 1}.Valid())
	assert.False(t, Board{Rows: 0, Cols: 25}.Valid())
	assert.False(t, Board{Rows: 25, Cols: -1}.Valid())
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, DirRight, DirLeft.Opposite())
	assert.Equal(t, DirLeft, DirRight.Opposite())
	assert.Equal(t, DirDown, DirUp.Opposite())
	assert.Equal(t, DirUp, DirDown.Opposite())
	assert.Equal(t, DirNone, DirNone.Opposite())
}

func TestDirectionStep(t *testing.T) {
	row, col := DirUp.Step(5, 5)
	assert.Equal(t, [2]int{4, 5}, [2]int{row, col})

	row, col = DirDown.Step(5, 5)
	assert.Equal(t, [2]int{6, 5}, [2]int{row, col})

	row, col = DirLeft.Step(5, 5)
	assert.Equal(t, [2]int{5, 4}, [2]int{row, col})

	row, col = DirRight.Step(5, 5)
	assert.Equal(t, [2]int{5, 6}, [2]int{row, col})

	row, col = DirNone.Step(5, 5)
	assert.Equal(t, [2]int{5, 5}, [2]int{row, col})
}
