//go:build ebiten

package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"mad-cpm/internal/app"
	"mad-cpm/internal/core"
)

func newViewCmd() *cobra.Command {
	cfg := app.NewConfig()
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open an interactive window on a simulation",
		Long: `view shows the field in a window with a parameter panel.

Keys: Space pause, Enter resume, N single step, R reset, S reset with a new
seed, 1-7 add a cell of that kind, Shift+1-7 select the kind placed by a
click, X remove all cells, C toggle centroids, Q or Esc quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, _ := setupLogger(cmd)
			cfg.File, _ = cmd.Flags().GetString("config")
			sim, err := core.Build(cfg.Sim, cfg.Overrides())
			if err != nil {
				return err
			}
			game := app.New(sim, cfg, log)
			size := sim.Size()
			ebiten.SetWindowTitle("mad-cpm: " + sim.Name())
			ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)
			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return err
			}
			return nil
		},
	}
	cfg.Bind(cmd.Flags())
	return cmd
}
