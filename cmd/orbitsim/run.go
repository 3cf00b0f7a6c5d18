package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/tui"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	// the progress view only exists once the program starts
	var send func(sim.Progress)
	progress := func(p sim.Progress) {
		if send != nil {
			send(p)
			return
		}
		logger.Info("progress", "step", p.Step, "of", p.Total, "t", p.Time.StringFixed(3), "elapsed", p.Elapsed.Round(time.Millisecond))
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), experiment.Options{
		Logger:    logger,
		Progress:  progress,
		NoMetrics: noMetrics,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var outcome *experiment.Outcome
	if noTUI {
		outcome, err = exp.Run(ctx)
	} else {
		title := fmt.Sprintf("%s · %s · %d digits", cfg.Name, exp.Scenario().Integrator, exp.Scenario().Precision.Digits())
		var res *sim.Result
		res, err = tui.Run(ctx, os.Stdout, title, exp.Steps(), func(ctx context.Context, p func(sim.Progress)) (*sim.Result, error) {
			send = p
			return exp.Simulator().Run(ctx, exp.SimConfig())
		})
		outcome = exp.Collect(res)
	}
	if err != nil {
		if outcome.Result != nil {
			logger.Warn("run stopped early", "steps", outcome.Result.StepsTaken, "t", outcome.Result.FinalTime.StringFixed(3))
		}
		return err
	}

	runID := ""
	if !noSave {
		st := storage.New(dataDir, storage.WithLogger(logger))
		if err := st.Init(); err != nil {
			return err
		}
		if runID, err = outcome.Save(st); err != nil {
			return err
		}
	}

	printSummary(outcome, runID)
	return nil
}

func printSummary(o *experiment.Outcome, runID string) {
	res := o.Result
	fmt.Println(viz.Title.Render("run complete"))
	if runID != "" {
		fmt.Println(viz.KeyValue("run id", runID))
	}
	fmt.Println(viz.KeyValue("integrator", res.Integrator))
	fmt.Println(viz.KeyValue("steps", res.StepsTaken))
	fmt.Println(viz.KeyValue("final time", res.FinalTime.String()))
	fmt.Println(viz.KeyValue("elapsed", res.Elapsed.Round(time.Millisecond)))

	if name, pts := o.Primary(); len(pts) > 0 {
		last := pts[len(pts)-1]
		fmt.Println(viz.KeyValue(name+" x", last.X.StringFixed(6)))
		fmt.Println(viz.KeyValue(name+" y", last.Y.StringFixed(6)))
		fmt.Println(viz.KeyValue(name+" z", last.Z.StringFixed(6)))
	}

	if len(res.Metrics) == 0 {
		return
	}
	fmt.Println(viz.Separator(40))
	for _, name := range slices.Sorted(maps.Keys(res.Metrics)) {
		fmt.Println(viz.KeyValue(name, fmt.Sprintf("%.6e", res.Metrics[name])))
	}
}
