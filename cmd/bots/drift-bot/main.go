// Command drift-bot is a headless load-test player: it matchmakes, runs
// the full simulation like a real client, and steers by turning sideways
// at random intervals until it wins, loses or crashes.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tron/internal/client"
	"tron/internal/engine"
	"tron/internal/game"
	"tron/internal/logging"
)

func main() {
	server := flag.String("server", "localhost:8080", "game server host:port")
	name := flag.String("name", "", "bot name (random when empty)")
	rows := flag.Int("rows", 25, "board rows")
	cols := flag.Int("cols", 25, "board columns")
	games := flag.Int("games", 1, "number of games to play before exiting")
	flag.Parse()

	botName := *name
	if botName == "" {
		botName = fmt.Sprintf("Bot.%d", 1000+rand.Intn(9000))
	}
	board := game.Board{Rows: *rows, Cols: *cols}

	if err := logging.Init(""); err != nil {
		panic(err)
	}
	defer logging.Sync()

	for i := 0; i < *games; i++ {
		if err := playOnce(*server, botName, board); err != nil {
			logging.L.Errorw("game aborted", "err", err)
			return
		}
	}
}

func playOnce(server, botName string, board game.Board) error {
	comm, err := client.Dial(server, client.DefaultRetryInterval, 0)
	if err != nil {
		return err
	}
	defer comm.Close()

	var (
		mu   sync.Mutex
		last engine.Frame
		done = make(chan engine.Frame, 1)
	)

	eng := engine.New(engine.Config{
		LocalName: botName,
		Board:     board,
		Reporter:  comm,
		OnFrame: func(f engine.Frame) {
			mu.Lock()
			last = f
			mu.Unlock()
			if f.State == engine.StateFinished {
				select {
				case done <- f:
				default:
				}
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	readErr := make(chan error, 1)
	go func() { readErr <- comm.Pump(eng) }()

	if err := comm.FindGame(botName, board); err != nil {
		return err
	}
	logging.L.Infow("searching", "bot", botName, "board", board)

	// Drift: every so often, turn perpendicular to the current heading.
	steer := time.NewTicker(2 * engine.DefaultTick)
	defer steer.Stop()

	for {
		select {
		case <-steer.C:
			if rand.Intn(2) == 0 {
				continue
			}
			mu.Lock()
			heading := localHeading(last, botName)
			mu.Unlock()
			if turn := sideways(heading); turn != game.DirNone {
				eng.Turn(turn)
			}

		case f := <-done:
			logging.L.Infow("game finished", "bot", botName, "result", result(f, botName))
			return nil

		case err := <-readErr:
			return err
		}
	}
}

// localHeading reads the bot's current facing out of a frame, or DirNone
// before the game starts.
func localHeading(f engine.Frame, botName string) game.Direction {
	for _, pv := range f.Players {
		if pv.Name == botName && len(pv.Trail) > 0 {
			return pv.Trail[len(pv.Trail)-1].Direction
		}
	}
	return game.DirNone
}

// sideways picks one of the two turns perpendicular to the heading.
func sideways(heading game.Direction) game.Direction {
	var options [2]game.Direction
	switch heading {
	case game.DirUp, game.DirDown:
		options = [2]game.Direction{game.DirLeft, game.DirRight}
	case game.DirLeft, game.DirRight:
		options = [2]game.Direction{game.DirUp, game.DirDown}
	default:
		return game.DirNone
	}
	return options[rand.Intn(2)]
}

func result(f engine.Frame, botName string) string {
	for _, pv := range f.Players {
		if pv.Name == botName {
			return pv.Outcome.String()
		}
	}
	return "unknown"
}
