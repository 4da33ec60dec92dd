package engine

import "tron/internal/game"

// Outcome is a player's terminal result within one game.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWinner
	OutcomeLoser
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWinner:
		return "winner"
	case OutcomeLoser:
		return "loser"
	case OutcomeDraw:
		return "draw"
	}
	return "none"
}

// Trail is the ordered history of cells a player has occupied. It is
// append-only during play except for undo, which removes the colliding
// move so the rendered head stays on the last valid cell.
type Trail struct {
	parts []game.Position
}

func (t *Trail) Len() int {
	return len(t.parts)
}

// Head returns the player's current cell: the last entry.
func (t *Trail) Head() game.Position {
	return t.parts[len(t.parts)-1]
}

func (t *Trail) push(p game.Position) {
	t.parts = append(t.parts, p)
}

func (t *Trail) pop() {
	t.parts = t.parts[:len(t.parts)-1]
}

// hits reports whether cell equals any of the first n entries.
func (t *Trail) hits(cell game.Cell, n int) bool {
	for i := 0; i < n && i < len(t.parts); i++ {
		if game.CellOf(t.parts[i]) == cell {
			return true
		}
	}
	return false
}

// Parts returns a copy of the trail for rendering.
func (t *Trail) Parts() []game.Position {
	return append([]game.Position(nil), t.parts...)
}

// Player is the simulation-side state of one participant.
type Player struct {
	Name string

	direction game.Direction
	// canChangeDirection gates turns to one per tick: it drops on an
	// accepted turn and is raised again by the next move, so reversal spam
	// between two ticks cannot queue up multiple turns.
	canChangeDirection bool
	isPlaying          bool
	trail              Trail
	outcome            Outcome
}

func newPlayer(name string) *Player {
	return &Player{Name: name}
}

// init places the player on its spawn cell, facing its spawn direction,
// and puts it in play.
func (p *Player) init(spawn game.Position) {
	p.outcome = OutcomeNone
	p.direction = game.DirNone
	p.canChangeDirection = true
	p.trail = Trail{parts: []game.Position{spawn}}
	p.setDirection(spawn.Direction)
	// The spawn facing is not the player's turn for the first tick.
	p.canChangeDirection = true
	p.isPlaying = true
}

// setDirection applies a turn if it is legal right now: at most one turn
// per tick, never a 180° reversal, and never a no-op. It reports whether
// the turn was accepted.
func (p *Player) setDirection(d game.Direction) bool {
	if !p.canChangeDirection || p.direction == d {
		return false
	}
	if d == game.DirNone || d == p.direction.Opposite() {
		return false
	}

	p.direction = d
	p.canChangeDirection = false
	return true
}

// move advances the head one cell along the current facing and re-arms
// the turn gate.
func (p *Player) move() {
	if !p.isPlaying {
		return
	}

	head := p.trail.Head()
	row, col := p.direction.Step(head.Row, head.Col)
	p.trail.push(game.Position{Row: row, Col: col, Direction: p.direction})
	p.canChangeDirection = true
}

// undoMove pops the entry the current tick appended.
func (p *Player) undoMove() {
	p.trail.pop()
}

func (p *Player) setOutcome(o Outcome) {
	p.isPlaying = false
	p.outcome = o
}

// Outcome returns the player's terminal result, OutcomeNone while still
// playing.
func (p *Player) Outcome() Outcome {
	return p.outcome
}

// Playing reports whether the player is still moving.
func (p *Player) Playing() bool {
	return p.isPlaying
}
