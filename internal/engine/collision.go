package engine

import "tron/internal/game"

// CollisionKind names the hazard a detector looks for.
type CollisionKind int

const (
	CollisionNone CollisionKind = iota
	CollisionBoard
	CollisionTrail
)

// Detector is one pure predicate over the post-move state. Detectors run
// in order and the first match wins, so adding a hazard type means
// appending a detector, not touching the others.
type Detector struct {
	Kind   CollisionKind
	Detect func(p *Player, all []*Player, board game.Board) bool
}

// defaultDetectors returns the detector chain: board bounds first, then
// trails.
func defaultDetectors() []Detector {
	return []Detector{
		{Kind: CollisionBoard, Detect: detectBoardCollision},
		{Kind: CollisionTrail, Detect: detectTrailCollision},
	}
}

// detectBoardCollision fires when the head has left the board.
func detectBoardCollision(p *Player, _ []*Player, board game.Board) bool {
	return !board.Inside(p.trail.Head())
}

// detectTrailCollision fires when the head overlaps any trail cell of any
// player, excluding only the player's own just-added head: moving is not
// a self-collision, but running into any earlier own cell, or any cell of
// an opponent including its current head, is.
func detectTrailCollision(p *Player, all []*Player, _ game.Board) bool {
	head := game.CellOf(p.trail.Head())

	if p.trail.hits(head, p.trail.Len()-1) {
		return true
	}
	for _, other := range all {
		if other == p {
			continue
		}
		if other.trail.hits(head, other.trail.Len()) {
			return true
		}
	}
	return false
}

// detect returns the first matching hazard for the player.
func detect(detectors []Detector, p *Player, all []*Player, board game.Board) CollisionKind {
	for _, d := range detectors {
		if d.Detect(p, all, board) {
			return d.Kind
		}
	}
	return CollisionNone
}
