//go:build !ebiten

package app

import (
	"errors"
	"log/slog"

	"mad-cpm/internal/core"
)

// ErrNoGUI is returned by the headless build's Game.
var ErrNoGUI = errors.New("the viewer requires building with the 'ebiten' tag")

// Game is a placeholder for builds without the ebiten tag.
type Game struct{}

// New returns a Game whose Update always fails.
func New(core.Sim, *Config, *slog.Logger) *Game { return &Game{} }

// Reset is a no-op placeholder.
func (g *Game) Reset(int64) {}

// Update reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrNoGUI }

// Draw is a no-op placeholder.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
