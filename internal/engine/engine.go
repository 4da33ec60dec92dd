// Package engine is the per-client simulation. Every connected client
// runs its own instance, replaying the broadcast events; on its own fixed
// tick it advances trails, detects collisions and decides the outcome,
// then reports the result back through its Reporter exactly once.
package engine

import (
	"context"
	"time"

	"tron/internal/game"
	"tron/internal/logging"
	"tron/internal/protocol"
)

// State is the engine's lifecycle.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateFinished
)

// DefaultTick matches the original game speed.
const DefaultTick = 500 * time.Millisecond

// Reporter carries the engine's outbound traffic: the terminal outcome it
// computed, and the local player's accepted turns.
type Reporter interface {
	FinishGame(winnerName string)
	ChangeDirection(d game.Direction)
}

// Event is an inbound broadcast event, delivered over a queue and applied
// between ticks by the engine's own goroutine.
type Event interface{ isEvent() }

// StartedEvent begins a game with the spawned players in match order.
type StartedEvent struct {
	Players []protocol.SpawnedPlayer
}

// TurnEvent applies a (usually remote) player's direction change.
type TurnEvent struct {
	PlayerName string
	Direction  game.Direction
}

// FinishedEvent ends the game with the server-relayed outcome; the engine
// stops ticking without reporting anything back.
type FinishedEvent struct {
	WinnerName string
}

func (StartedEvent) isEvent()  {}
func (TurnEvent) isEvent()     {}
func (FinishedEvent) isEvent() {}

// PlayerView is a render snapshot of one player.
type PlayerView struct {
	Name    string
	Local   bool
	Trail   []game.Position
	Outcome Outcome
}

// Frame is a render snapshot of the whole simulation, emitted after every
// state change.
type Frame struct {
	State   State
	Board   game.Board
	Players []PlayerView
}

// Config assembles an engine.
type Config struct {
	LocalName string
	Board     game.Board
	Tick      time.Duration
	Reporter  Reporter

	// OnFrame, when set, receives a snapshot after every tick and state
	// change, on the engine goroutine.
	OnFrame func(Frame)
}

// Engine runs the simulation on a single goroutine: one timer-driven step
// at a time, with inbound events and local turns buffered on channels and
// drained between ticks. Nothing here needs a lock.
type Engine struct {
	localName string
	board     game.Board
	tick      time.Duration
	reporter  Reporter
	onFrame   func(Frame)
	detectors []Detector

	players  []*Player
	state    State
	reported bool

	events chan Event
	turns  chan game.Direction
}

func New(cfg Config) *Engine {
	tick := cfg.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Engine{
		localName: cfg.LocalName,
		board:     cfg.Board,
		tick:      tick,
		reporter:  cfg.Reporter,
		onFrame:   cfg.OnFrame,
		detectors: defaultDetectors(),
		state:     StateIdle,
		events:    make(chan Event, 64),
		turns:     make(chan game.Direction, 8),
	}
}

// Deliver queues a broadcast event for the engine goroutine. It never
// blocks; an engine that has stopped draining just misses late events.
func (e *Engine) Deliver(ev Event) {
	select {
	case e.events <- ev:
	default:
		logging.L.Warnw("engine event queue full, dropping", "event", ev)
	}
}

// Turn queues a local direction change.
func (e *Engine) Turn(d game.Direction) {
	select {
	case e.turns <- d:
	default:
	}
}

// Run drives the simulation until ctx is cancelled. Ticks only advance
// the world while a game is playing.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.events:
			e.handleEvent(ev)
		case d := <-e.turns:
			e.applyLocalTurn(d)
		case <-ticker.C:
			if e.state == StatePlaying {
				e.step()
			}
		}
	}
}

// State returns the engine lifecycle state. Only meaningful from the
// engine goroutine (or in tests driving the engine synchronously).
func (e *Engine) State() State {
	return e.state
}

// Players exposes the simulated players, in match order.
func (e *Engine) Players() []*Player {
	return e.players
}

func (e *Engine) handleEvent(ev Event) {
	switch ev := ev.(type) {
	case StartedEvent:
		if e.state != StateIdle {
			return
		}
		e.players = e.players[:0]
		for _, sp := range ev.Players {
			p := newPlayer(sp.Name)
			p.init(sp.Position)
			e.players = append(e.players, p)
		}
		e.state = StatePlaying
		e.emitFrame()

	case TurnEvent:
		if e.state != StatePlaying {
			return
		}
		if p := e.findPlayer(ev.PlayerName); p != nil {
			p.setDirection(ev.Direction)
		}

	case FinishedEvent:
		if e.state != StatePlaying {
			return
		}
		// The server already decided; freeze without reporting back.
		e.reported = true
		e.state = StateFinished
		for _, p := range e.players {
			switch {
			case ev.WinnerName == "":
				p.setOutcome(OutcomeDraw)
			case p.Name == ev.WinnerName:
				p.setOutcome(OutcomeWinner)
			default:
				p.setOutcome(OutcomeLoser)
			}
		}
		e.emitFrame()
	}
}

// applyLocalTurn applies a key press to the local player and relays it to
// the opponent only when accepted.
func (e *Engine) applyLocalTurn(d game.Direction) {
	if e.state != StatePlaying {
		return
	}
	p := e.findPlayer(e.localName)
	if p == nil || !p.setDirection(d) {
		return
	}
	if e.reporter != nil {
		e.reporter.ChangeDirection(d)
	}
}

// step advances every playing player one cell, then resolves collisions.
func (e *Engine) step() {
	var active []*Player
	for _, p := range e.players {
		if p.isPlaying {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return
	}

	for _, p := range active {
		p.move()
	}

	collided := make([]*Player, 0, len(active))
	for _, p := range active {
		if detect(e.detectors, p, e.players, e.board) != CollisionNone {
			collided = append(collided, p)
		}
	}

	switch {
	case len(collided) == 0:
		e.emitFrame()

	case len(collided) == len(active):
		// Everyone still moving collided in the same tick: a draw. The
		// colliding moves are undone so each head renders on its last
		// valid cell.
		for _, p := range collided {
			p.setOutcome(OutcomeDraw)
			p.undoMove()
		}
		e.finish("")

	case len(collided) == len(active)-1:
		for _, p := range collided {
			p.setOutcome(OutcomeLoser)
			p.undoMove()
		}
		winner := e.survivor(active)
		winner.setOutcome(OutcomeWinner)
		e.finish(winner.Name)

	default:
		// Unreachable with two players; with more this relation has no
		// defined policy, so colliders draw out and the rest keep going.
		logging.L.Errorw("unexpected collision cardinality",
			"collided", len(collided), "active", len(active))
		for _, p := range collided {
			p.setOutcome(OutcomeDraw)
			p.undoMove()
		}
		e.emitFrame()
	}
}

// finish freezes the simulation and reports the outcome, exactly once.
func (e *Engine) finish(winnerName string) {
	e.state = StateFinished
	e.emitFrame()

	if e.reported {
		return
	}
	e.reported = true
	if e.reporter != nil {
		e.reporter.FinishGame(winnerName)
	}
}

func (e *Engine) survivor(active []*Player) *Player {
	for _, p := range active {
		if p.isPlaying {
			return p
		}
	}
	// finish() callers only get here when exactly one player survived.
	return nil
}

func (e *Engine) findPlayer(name string) *Player {
	for _, p := range e.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (e *Engine) emitFrame() {
	if e.onFrame == nil {
		return
	}

	frame := Frame{
		State:   e.state,
		Board:   e.board,
		Players: make([]PlayerView, len(e.players)),
	}
	for i, p := range e.players {
		frame.Players[i] = PlayerView{
			Name:    p.Name,
			Local:   p.Name == e.localName,
			Trail:   p.trail.Parts(),
			Outcome: p.outcome,
		}
	}
	e.onFrame(frame)
}
