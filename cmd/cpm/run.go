package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"mad-cpm/internal/core"
	"mad-cpm/internal/render"
	"mad-cpm/internal/sims/potts"
)

type runOptions struct {
	steps   int
	seed    int64
	tps     int
	every   int
	show    bool
	width   int
	color   bool
	png     string
	scale   int
	verify  bool
	summary bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation headless and print per-kind statistics",
		Long: `run advances the model for --steps Monte Carlo steps (the config's
runtime when unset) and prints a summary of every cell kind. With --show the
final field is printed as text; with --png it is written as an image.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSim(ctx, cmd, opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.steps, "steps", -1, "Monte Carlo steps to run (-1 uses the config's runtime)")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (0 uses the config's seed)")
	f.IntVar(&opts.tps, "tps", 0, "throttle to this many steps per second (0 runs flat out)")
	f.IntVar(&opts.every, "every", 0, "print the summary every N steps (0 only at the end)")
	f.BoolVar(&opts.show, "show", false, "print the final field as text")
	f.IntVar(&opts.width, "width", 100, "maximum text width for --show")
	f.BoolVar(&opts.color, "color", true, "colour the text output")
	f.StringVar(&opts.png, "png", "", "write the final field to this PNG file")
	f.IntVar(&opts.scale, "scale", 2, "pixel scale for --png")
	f.BoolVar(&opts.verify, "verify", false, "recount all bookkeeping after the run")
	f.BoolVar(&opts.summary, "summary", true, "print the per-kind summary")
	return cmd
}

func runSim(ctx context.Context, cmd *cobra.Command, opts runOptions) error {
	log, runID := setupLogger(cmd)
	path, _ := cmd.Flags().GetString("config")
	overrides := map[string]string{"config": path}
	if opts.seed != 0 {
		overrides["seed"] = strconv.FormatInt(opts.seed, 10)
	}
	sim, err := core.Build("cpm", overrides)
	if err != nil {
		return err
	}
	world, ok := sim.(*potts.World)
	if !ok {
		return fmt.Errorf("sim %q does not expose a Potts model", sim.Name())
	}
	steps := opts.steps
	if steps < 0 {
		steps = world.Bundle().Runtime
	}
	out := cmd.OutOrStdout()
	au := aurora.NewAurora(opts.color)

	log.Info("run started", "steps", steps, "seed", world.Seed(), "cells", world.Model().Cells().Count())
	var pacer *core.Pacer
	if opts.tps > 0 {
		pacer = core.NewPacer(opts.tps)
	}
	interrupted := false
	for t := 0; t < steps; t++ {
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				interrupted = true
				break
			}
		} else if ctx.Err() != nil {
			interrupted = true
			break
		}
		world.Step()
		if opts.every > 0 && world.Time()%opts.every == 0 && opts.summary {
			printSummary(out, au, world)
		}
	}
	if interrupted {
		log.Warn("run interrupted", "t", world.Time())
	}
	log.Info("run finished", "t", world.Time())

	if opts.summary && (opts.every <= 0 || world.Time()%opts.every != 0) {
		printSummary(out, au, world)
	}
	if opts.show {
		renderText(out, au, world.Cells(), world.Size(), opts.width)
	}
	if opts.png != "" {
		if err := writePNG(opts.png, world, opts.scale); err != nil {
			return err
		}
		log.Info("wrote image", "path", opts.png)
	}
	if opts.verify {
		if err := world.Model().Verify(); err != nil {
			return fmt.Errorf("run %s: %w", runID, err)
		}
		fmt.Fprintln(out, au.Green("bookkeeping verified"))
	}
	return nil
}

func printSummary(w io.Writer, au aurora.Aurora, world *potts.World) {
	m := world.Model()
	fmt.Fprintf(w, "%s t=%d T=%g cells=%d background=%d\n",
		au.Bold(au.Cyan("step")), m.Time(), m.Temperature(), m.Cells().Count(), m.BackgroundCount())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "kind\tname\tcount\tvolume\t±\tperimeter\t±")
	for _, ks := range m.KindSummary() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\n",
			ks.Kind, world.Bundle().KindName(ks.Kind), ks.Count,
			ks.MeanVolume, ks.StdVolume, ks.MeanPerimeter, ks.StdPerimeter)
	}
	tw.Flush()
}

func writePNG(path string, world *potts.World, scale int) error {
	size := world.Size()
	img := render.Image(world.Cells(), size.W, size.H, scale, world.Palette())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding image: %w", err)
	}
	return f.Close()
}
