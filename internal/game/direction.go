package game

// Direction is the facing of a player on the grid. The integer values are
// part of the wire protocol, so the order must not change.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirUp
	DirRight
	DirDown
)

// Defined reports whether d is one of the protocol's direction values.
// Inbound direction payloads are rejected when this is false.
func (d Direction) Defined() bool {
	return d >= DirNone && d <= DirDown
}

// Opposite returns the reverse facing. DirNone has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	}
	return DirNone
}

// Step returns the cell reached by moving one cell from (row, col) in
// direction d. DirNone stays in place.
func (d Direction) Step(row, col int) (int, int) {
	switch d {
	case DirLeft:
		col--
	case DirUp:
		row--
	case DirRight:
		col++
	case DirDown:
		row++
	}
	return row, col
}

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	}
	return "invalid"
}
