// Command client is the playable terminal client: it matchmakes against
// the server, runs its own simulation of the game, and renders it with
// termbox. Arrow keys steer, Enter rematches, Esc or q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/nsf/termbox-go"

	"tron/internal/client"
	"tron/internal/engine"
	"tron/internal/game"
	"tron/internal/logging"
)

func main() {
	server := flag.String("server", "localhost:8080", "game server host:port")
	name := flag.String("name", "", "player name (random when empty)")
	rows := flag.Int("rows", 25, "board rows")
	cols := flag.Int("cols", 25, "board columns")
	logFile := flag.String("log", "tron-client.log", "log file path")
	flag.Parse()

	playerName := *name
	if playerName == "" {
		playerName = fmt.Sprintf("Player.%d", 1000+rand.Intn(9000))
	}
	board := game.Board{Rows: *rows, Cols: *cols}
	if !board.Valid() {
		fmt.Fprintln(os.Stderr, "board must have at least one row and column")
		os.Exit(1)
	}

	// The terminal belongs to termbox, so logs go to the file only.
	if err := logging.InitFileOnly(*logFile); err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := termbox.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "terminal:", err)
		os.Exit(1)
	}
	defer termbox.Close()

	inputs := make(chan input, 8)
	go pollKeys(inputs)

	for {
		again, err := playGame(*server, playerName, board, inputs)
		if err != nil {
			// Transport dropped mid-game; the next Dial retries until the
			// server is back.
			logging.L.Warnw("connection lost", "err", err)
		}
		if !again {
			return
		}
	}
}

// playGame runs a single match over a fresh connection and engine. It
// returns whether the player wants another game.
func playGame(server, playerName string, board game.Board, inputs <-chan input) (bool, error) {
	drawWaiting(board, fmt.Sprintf("connecting to %s ...", server))
	comm, err := client.Dial(server, client.DefaultRetryInterval, 0)
	if err != nil {
		return false, err
	}
	defer comm.Close()

	frames := make(chan engine.Frame, 16)
	eng := engine.New(engine.Config{
		LocalName: playerName,
		Board:     board,
		Reporter:  comm,
		OnFrame: func(f engine.Frame) {
			select {
			case frames <- f:
			default:
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	readErr := make(chan error, 1)
	go func() { readErr <- comm.Pump(eng) }()

	if err := comm.FindGame(playerName, board); err != nil {
		return false, err
	}

	var last engine.Frame
	state := engine.StateIdle
	drawWaiting(board, fmt.Sprintf("%s: searching for an opponent ...", playerName))

	for {
		select {
		case f := <-frames:
			last, state = f, f.State
			drawFrame(f, statusFor(f, playerName))

		case in := <-inputs:
			switch {
			case in.action == actionQuit:
				if state == engine.StatePlaying {
					comm.ForfeitGame(playerName)
				}
				return false, nil
			case in.action == actionAgain:
				if state == engine.StateFinished {
					return true, nil
				}
			case in.action == actionRedraw:
				if state == engine.StateIdle {
					drawWaiting(board, fmt.Sprintf("%s: searching for an opponent ...", playerName))
				} else {
					drawFrame(last, statusFor(last, playerName))
				}
			case in.turn != game.DirNone:
				eng.Turn(in.turn)
			}

		case err := <-readErr:
			return true, err
		}
	}
}

func statusFor(frame engine.Frame, playerName string) string {
	if frame.State == engine.StateFinished {
		return outcomeText(frame, playerName) + "  enter: rematch | esc: quit"
	}
	return versusLine(frame) + "  arrows: steer | esc: forfeit"
}
