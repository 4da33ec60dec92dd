package main

import (
	"fmt"

	"github.com/nsf/termbox-go"

	"tron/internal/engine"
	"tron/internal/game"
)

// Each board cell spans two terminal columns so the grid renders roughly
// square.
const cellWidth = 2

type action int

const (
	actionNone action = iota
	actionQuit
	actionAgain
	actionRedraw
)

// input is one translated keyboard event. Either turn or action is set.
type input struct {
	turn   game.Direction
	action action
}

// pollKeys translates termbox events into inputs until the terminal dies.
func pollKeys(inputs chan<- input) {
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			switch {
			case ev.Key == termbox.KeyArrowLeft:
				inputs <- input{turn: game.DirLeft}
			case ev.Key == termbox.KeyArrowUp:
				inputs <- input{turn: game.DirUp}
			case ev.Key == termbox.KeyArrowRight:
				inputs <- input{turn: game.DirRight}
			case ev.Key == termbox.KeyArrowDown:
				inputs <- input{turn: game.DirDown}
			case ev.Key == termbox.KeyEnter:
				inputs <- input{action: actionAgain}
			case ev.Key == termbox.KeyEsc, ev.Ch == 'q':
				inputs <- input{action: actionQuit}
			}
		case termbox.EventResize:
			inputs <- input{action: actionRedraw}
		case termbox.EventError:
			inputs <- input{action: actionQuit}
			return
		}
	}
}

// drawWaiting renders the empty board while matchmaking is in flight.
func drawWaiting(board game.Board, status string) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	drawBorder(board)
	drawStatus(board, status)
	termbox.Flush()
}

// drawFrame renders a simulation snapshot.
func drawFrame(frame engine.Frame, status string) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	drawBorder(frame.Board)

	for _, pv := range frame.Players {
		color := trailColor(pv)
		for i, pos := range pv.Trail {
			head := i == len(pv.Trail)-1
			drawCell(pos.Row, pos.Col, color, head)
		}
	}

	drawStatus(frame.Board, status)
	termbox.Flush()
}

func trailColor(pv engine.PlayerView) termbox.Attribute {
	switch pv.Outcome {
	case engine.OutcomeWinner:
		return termbox.ColorGreen
	case engine.OutcomeLoser:
		return termbox.ColorRed
	case engine.OutcomeDraw:
		return termbox.ColorYellow
	}
	if pv.Local {
		return termbox.ColorCyan
	}
	return termbox.ColorMagenta
}

func drawCell(row, col int, color termbox.Attribute, head bool) {
	ch := '█'
	if head {
		ch = '▓'
	}
	x := 1 + col*cellWidth
	y := 1 + row
	for i := 0; i < cellWidth; i++ {
		termbox.SetCell(x+i, y, ch, color, termbox.ColorDefault)
	}
}

func drawBorder(board game.Board) {
	width := board.Cols * cellWidth
	height := board.Rows

	termbox.SetCell(0, 0, '┌', termbox.ColorWhite, termbox.ColorDefault)
	termbox.SetCell(width+1, 0, '┐', termbox.ColorWhite, termbox.ColorDefault)
	termbox.SetCell(0, height+1, '└', termbox.ColorWhite, termbox.ColorDefault)
	termbox.SetCell(width+1, height+1, '┘', termbox.ColorWhite, termbox.ColorDefault)
	for x := 1; x <= width; x++ {
		termbox.SetCell(x, 0, '─', termbox.ColorWhite, termbox.ColorDefault)
		termbox.SetCell(x, height+1, '─', termbox.ColorWhite, termbox.ColorDefault)
	}
	for y := 1; y <= height; y++ {
		termbox.SetCell(0, y, '│', termbox.ColorWhite, termbox.ColorDefault)
		termbox.SetCell(width+1, y, '│', termbox.ColorWhite, termbox.ColorDefault)
	}
}

func drawStatus(board game.Board, status string) {
	y := board.Rows + 2
	for i, ch := range status {
		termbox.SetCell(1+i, y, ch, termbox.ColorWhite, termbox.ColorDefault)
	}
}

// outcomeText names the local player's result for the status line.
func outcomeText(frame engine.Frame, localName string) string {
	for _, pv := range frame.Players {
		if pv.Name != localName {
			continue
		}
		switch pv.Outcome {
		case engine.OutcomeWinner:
			return "you win!"
		case engine.OutcomeLoser:
			return "you lose."
		case engine.OutcomeDraw:
			return "draw."
		}
	}
	return "game over."
}

// versusLine shows who is playing whom.
func versusLine(frame engine.Frame) string {
	if len(frame.Players) != 2 {
		return ""
	}
	return fmt.Sprintf("%s vs %s", frame.Players[0].Name, frame.Players[1].Name)
}
