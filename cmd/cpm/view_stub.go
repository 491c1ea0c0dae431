//go:build !ebiten

package main

import (
	"github.com/spf13/cobra"

	"mad-cpm/internal/app"
)

func newViewCmd() *cobra.Command {
	cfg := app.NewConfig()
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open an interactive window (requires -tags ebiten)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ErrNoGUI
		},
	}
	cfg.Bind(cmd.Flags())
	return cmd
}
