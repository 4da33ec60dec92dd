package game

// Board holds the grid dimensions of a game. It is a value type and is
// never mutated after creation; every session keeps the board it was
// created with for its whole lifetime.
type Board struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Valid reports whether the board has at least one cell in each dimension.
func (b Board) Valid() bool {
	return b.Rows > 0 && b.Cols > 0
}

// Inside reports whether the position lies within [0,rows) x [0,cols).
func (b Board) Inside(p Position) bool {
	return p.Row >= 0 && p.Row < b.Rows && p.Col >= 0 && p.Col < b.Cols
}

// Position is a single cell on a board, plus the facing a player had when
// entering it.
type Position struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction Direction `json:"direction"`
}

// Cell is a bare board coordinate without a facing.
type Cell struct {
	Row int
	Col int
}

// CellOf strips the facing from a position.
func CellOf(p Position) Cell {
	return Cell{Row: p.Row, Col: p.Col}
}
