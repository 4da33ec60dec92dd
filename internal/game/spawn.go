package game

import "fmt"

// SpawnPositions returns the deterministic starting positions for a match,
// in the same order as the players handed to session creation. Player 1
// starts on the bottom edge facing up, player 2 on the top edge facing
// down, both on the center column (integer division).
//
// Only two-player matches are supported; any other count is a
// configuration fault, never silently defaulted.
func SpawnPositions(playerCount int, board Board) ([]Position, error) {
	if playerCount != 2 {
		return nil, fmt.Errorf("spawn: unsupported player count %d", playerCount)
	}

	center := board.Cols / 2

	return []Position{
		{Row: board.Rows - 1, Col: center, Direction: DirUp},
		{Row: 0, Col: center, Direction: DirDown},
	}, nil
}
