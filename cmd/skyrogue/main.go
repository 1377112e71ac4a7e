// Package main is the entry point for the Skyrogue client.
package main

import (
	"os"

	"github.com/skyrogue/skyrogue/internal/app"
	"github.com/skyrogue/skyrogue/internal/engine/window"
	"github.com/skyrogue/skyrogue/internal/game"
)

func main() {
	os.Exit(app.Run(os.Args[1:], openWindow))
}

// openWindow adapts the SDL window to the game's Display.
func openWindow(spec game.WindowSpec) (game.Display, error) {
	w, err := window.Open(window.Config{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}
