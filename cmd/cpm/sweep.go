package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"mad-cpm/internal/config"
	"mad-cpm/internal/sims/potts"
	"mad-cpm/pkg/cpm"
)

type sweepOptions struct {
	temperatures []float64
	lambdaAct    []float64
	maxAct       float64
	seeds        int
	steps        int
	workers      int
	kind         int
	top          int
	color        bool
}

type sweepPoint struct {
	temperature float64
	lambdaAct   float64
}

type sweepJob struct {
	point sweepPoint
	seed  int64
}

type sweepRun struct {
	point  sweepPoint
	seed   int64
	speed  float64
	volume float64
	alive  int
	err    error
}

type sweepRow struct {
	point    sweepPoint
	speed    float64
	speedStd float64
	volume   float64
	alive    float64
}

func newSweepCmd() *cobra.Command {
	opts := sweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Rank temperature and activity settings by cell motility",
		Long: `sweep runs every combination of --temperature and --lambda-act for
--seeds seeds in parallel and ranks the combinations by the mean centroid
speed (pixels per step) of cells of --kind.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSweep(ctx, cmd, opts)
		},
	}
	f := cmd.Flags()
	f.Float64SliceVar(&opts.temperatures, "temperature", []float64{10, 20, 40}, "temperatures to try")
	f.Float64SliceVar(&opts.lambdaAct, "lambda-act", []float64{0, 100, 200}, "activity weights to try for --kind")
	f.Float64Var(&opts.maxAct, "max-act", 80, "activity ceiling for --kind when the config sets none")
	f.IntVar(&opts.seeds, "seeds", 3, "seeds per combination")
	f.IntVar(&opts.steps, "steps", 200, "Monte Carlo steps per run")
	f.IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	f.IntVar(&opts.kind, "kind", 1, "kind whose motility is measured")
	f.IntVar(&opts.top, "top", 5, "rows to print (0 prints all)")
	f.BoolVar(&opts.color, "color", true, "colour the output")
	return cmd
}

func runSweep(ctx context.Context, cmd *cobra.Command, opts sweepOptions) error {
	log, _ := setupLogger(cmd)
	path, _ := cmd.Flags().GetString("config")
	base, err := config.Load(path)
	if err != nil {
		return err
	}
	if opts.kind < 1 || opts.kind >= base.Kinds() {
		return fmt.Errorf("%w: kind %d (valid kinds are 1..%d)", cpm.ErrLookup, opts.kind, base.Kinds()-1)
	}
	if !(opts.maxAct > 0) {
		return fmt.Errorf("%w: max-act must be positive", cpm.ErrConfiguration)
	}
	if opts.seeds < 1 || opts.workers < 1 {
		return fmt.Errorf("%w: seeds and workers must be positive", cpm.ErrConfiguration)
	}
	if _, err := base.Model(); err != nil {
		return err
	}

	var jobs []sweepJob
	for _, temp := range opts.temperatures {
		for _, la := range opts.lambdaAct {
			for s := 0; s < opts.seeds; s++ {
				jobs = append(jobs, sweepJob{point: sweepPoint{temp, la}, seed: base.Seed + int64(s)})
			}
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sweeping %d runs (%d workers, %d steps)\n", len(jobs), opts.workers, opts.steps)

	jobCh := make(chan sweepJob)
	results := make(chan sweepRun)
	var wg sync.WaitGroup
	for i := 0; i < opts.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results <- runScenario(ctx, log, base, job, opts)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case jobCh <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	byPoint := map[sweepPoint][]sweepRun{}
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			log.Warn("sweep run failed", "temperature", res.point.temperature, "lambda_act", res.point.lambdaAct, "seed", res.seed, "err", res.err)
			continue
		}
		byPoint[res.point] = append(byPoint[res.point], res)
	}
	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := aggregate(byPoint)
	printSweep(out, aurora.NewAurora(opts.color), rows, opts.top, time.Since(start))
	return nil
}

func runScenario(ctx context.Context, log *slog.Logger, base *config.Bundle, job sweepJob, opts sweepOptions) sweepRun {
	res := sweepRun{point: job.point, seed: job.seed}
	b := scenarioBundle(base, job, opts)
	world, err := potts.New(b, potts.WithLogger(log.With("temperature", job.point.temperature, "lambda_act", job.point.lambdaAct)))
	if err != nil {
		res.err = err
		return res
	}
	m := world.Model()
	tr := cpm.NewTracker(m)
	for t := 0; t < opts.steps; t++ {
		if ctx.Err() != nil {
			res.err = ctx.Err()
			return res
		}
		m.Step()
		tr.Sample()
	}
	res.speed = tr.MeanSpeed(opts.kind)
	for _, ks := range m.KindSummary() {
		if ks.Kind == opts.kind {
			res.volume = ks.MeanVolume
			res.alive = ks.Count
		}
	}
	return res
}

// scenarioBundle applies one job to a copy of base. A kind without an
// activity ceiling gets opts.maxAct so its lambda_act takes effect.
func scenarioBundle(base *config.Bundle, job sweepJob, opts sweepOptions) *config.Bundle {
	b := base.Clone()
	b.Temperature = job.point.temperature
	b.Seed = job.seed
	if b.LambdaAct == nil {
		b.LambdaAct = make([]float64, b.Kinds())
	}
	if b.MaxAct == nil {
		b.MaxAct = make([]float64, b.Kinds())
	}
	b.LambdaAct[opts.kind] = job.point.lambdaAct
	if b.MaxAct[opts.kind] <= 0 {
		b.MaxAct[opts.kind] = opts.maxAct
	}
	return b
}

func aggregate(byPoint map[sweepPoint][]sweepRun) []sweepRow {
	rows := make([]sweepRow, 0, len(byPoint))
	for p, runs := range byPoint {
		speeds := make([]float64, len(runs))
		volumes := make([]float64, len(runs))
		alive := make([]float64, len(runs))
		for i, r := range runs {
			speeds[i] = r.speed
			volumes[i] = r.volume
			alive[i] = float64(r.alive)
		}
		row := sweepRow{point: p, volume: stat.Mean(volumes, nil), alive: stat.Mean(alive, nil)}
		if len(speeds) > 1 {
			row.speed, row.speedStd = stat.MeanStdDev(speeds, nil)
		} else {
			row.speed = speeds[0]
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].speed != rows[j].speed {
			return rows[i].speed > rows[j].speed
		}
		if rows[i].point.temperature != rows[j].point.temperature {
			return rows[i].point.temperature < rows[j].point.temperature
		}
		return rows[i].point.lambdaAct < rows[j].point.lambdaAct
	})
	return rows
}

func printSweep(w io.Writer, au aurora.Aurora, rows []sweepRow, top int, elapsed time.Duration) {
	fmt.Fprintf(w, "\n%s (elapsed %s):\n", au.Bold("Results by speed"), elapsed.Round(time.Millisecond))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "rank\ttemperature\tlambda_act\tspeed\t±\tvolume\talive")
	for i, r := range rows {
		if top > 0 && i >= top {
			break
		}
		rank := fmt.Sprintf("%d", i+1)
		if i == 0 {
			rank = au.Green(rank).String()
		}
		fmt.Fprintf(tw, "%s\t%g\t%g\t%.4f\t%.4f\t%.1f\t%.1f\n",
			rank, r.point.temperature, r.point.lambdaAct, r.speed, r.speedStd, r.volume, r.alive)
	}
	tw.Flush()
}
