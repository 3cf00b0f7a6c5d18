package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/trajectory"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/spf13/cobra"
)

func openStore() *storage.Store {
	return storage.New(dataDir, storage.WithLogger(logger))
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDIGITS\tDT\tDURATION\tINTEG\tSTEPS\tPARENT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Precision,
			run.Dt,
			run.Duration,
			run.Integrator,
			run.Steps,
			run.Parent,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(meta.ID))
	fmt.Println(viz.KeyValue("scenario", meta.Scenario))
	fmt.Println(viz.KeyValue("created", meta.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Println(viz.KeyValue("precision", meta.Precision))
	fmt.Println(viz.KeyValue("dt", meta.Dt))
	fmt.Println(viz.KeyValue("duration", meta.Duration))
	fmt.Println(viz.KeyValue("integrator", meta.Integrator))
	fmt.Println(viz.KeyValue("steps", meta.Steps))
	fmt.Println(viz.KeyValue("final time", meta.FinalTime))
	fmt.Println(viz.KeyValue("elapsed", meta.Elapsed))
	if meta.Parent != "" {
		fmt.Println(viz.KeyValue("parent", meta.Parent))
	}

	fmt.Println(viz.Separator(40))
	for _, b := range meta.Bodies {
		mark := " "
		if b.Tracked {
			mark = "*"
		}
		fmt.Printf("%s %d %-12s mu=%s\n", mark, b.ID, b.Name, b.Mu)
	}

	if len(meta.Metrics) > 0 {
		fmt.Println(viz.Separator(40))
		for _, name := range slices.Sorted(maps.Keys(meta.Metrics)) {
			fmt.Println(viz.KeyValue(name, fmt.Sprintf("%.6e", meta.Metrics[name])))
		}
	}

	if diff, err := st.LoadDifference(meta.ID); err == nil {
		dev, at := trajectory.MaxDeviation(diff)
		fmt.Println(viz.Separator(40))
		fmt.Println(viz.KeyValue("max deviation", fmt.Sprintf("%.6e at t=%g", dev, at)))
	}
	return nil
}

// trackedBody resolves --body against a run, defaulting to its first
// tracked body.
func trackedBody(meta *storage.RunMetadata, name string) (storage.BodyMetadata, error) {
	for _, b := range meta.Bodies {
		if name == "" && b.Tracked || name != "" && b.Name == name {
			return b, nil
		}
	}
	if name == "" {
		return storage.BodyMetadata{}, fmt.Errorf("run %s has no tracked body", meta.ID)
	}
	return storage.BodyMetadata{}, fmt.Errorf("run %s has no body %q", meta.ID, name)
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	paths, err := trackedPaths(st, meta)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(paths[0].Points))

	fmt.Println(viz.PlotPaths(paths, plotWidth, plotHeight).String())
	for _, p := range paths {
		fmt.Print(lipgloss.NewStyle().Foreground(viz.TermColor(p.Color)).Render("● "+p.Name), "  ")
	}
	fmt.Println()
	fmt.Println()

	// two tracked bodies are charted against each other, one against the origin
	var (
		values  []float64
		caption string
	)
	if len(paths) > 1 {
		_, values = viz.Separation(paths[0], paths[1])
		caption = fmt.Sprintf("distance %s to %s (m)", paths[0].Name, paths[1].Name)
	} else {
		_, values = viz.Radius(paths[0])
		caption = fmt.Sprintf("distance of %s from origin (m)", paths[0].Name)
	}
	fmt.Println(viz.Chart(values, plotWidth, plotHeight/2, caption))

	diff, err := st.LoadDifference(meta.ID)
	if errors.Is(err, storage.ErrRunNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.Chart(trajectory.Magnitudes(diff), plotWidth, plotHeight/2, fmt.Sprintf("deviation from %s (m)", meta.Parent)))
	return nil
}

// trackedPaths loads every tracked body of a run as a plot path.
func trackedPaths(st *storage.Store, meta *storage.RunMetadata) ([]viz.Path, error) {
	var paths []viz.Path
	for _, b := range meta.Bodies {
		if !b.Tracked {
			continue
		}
		pts, err := st.LoadTrajectory(meta.ID, b.Name)
		if err != nil {
			return nil, err
		}
		p := viz.PathFromTrajectory(b.Name, b.Color, pts)
		p.ID = b.ID
		paths = append(paths, p)
	}
	if len(paths) == 0 || len(paths[0].Points) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}
	return paths, nil
}

// analyzeRun estimates the period of the first tracked body about the
// second, or about the origin when only one body is tracked.
func analyzeRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	paths, err := trackedPaths(st, meta)
	if err != nil {
		return err
	}

	body, center := paths[0], "origin"
	n := len(body.Points)
	if len(paths) > 1 {
		center = paths[1].Name
		n = min(n, len(paths[1].Points))
	}
	times := body.Times[:n]
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = body.Points[i].X, body.Points[i].Y
		if len(paths) > 1 {
			xs[i] -= paths[1].Points[i].X
			ys[i] -= paths[1].Points[i].Y
		}
	}

	fmt.Printf("period analysis: %s\n", meta.ID)
	fmt.Printf("%s about %s, %d samples\n\n", body.Name, center, n)

	ps, _ := analysis.PowerSpectrum(xs)
	if len(ps) > 4 {
		fmt.Println(viz.Chart(ps[:len(ps)/4], 80, 15, "power spectrum (x)"))
		fmt.Println()
	}

	if period, ok := analysis.SweptPeriod(times, xs, ys); ok {
		fmt.Println(viz.KeyValue("swept angle", fmt.Sprintf("%.6f s", period)))
	}
	crossings := analysis.Crossings(times, xs, ys)
	if period, ok := analysis.CrossingPeriod(crossings); ok {
		fmt.Println(viz.KeyValue("x-axis passes", fmt.Sprintf("%.6f s (%d passes)", period, len(crossings))))
	} else {
		fmt.Println(viz.KeyValue("x-axis passes", fmt.Sprintf("%d, need 2", len(crossings))))
	}
	if period, ok := analysis.DominantPeriod(times, xs); ok {
		fmt.Println(viz.KeyValue("spectrum", fmt.Sprintf("%.3f s", period)))
	}
	return nil
}

func diffRuns(cmd *cobra.Command, args []string) error {
	st := openStore()
	parent, err := st.Load(args[0])
	if err != nil {
		return err
	}
	child, err := st.Load(args[1])
	if err != nil {
		return err
	}

	body, err := trackedBody(parent, bodyName)
	if err != nil {
		return err
	}
	a, err := st.LoadTrajectory(parent.ID, body.Name)
	if err != nil {
		return err
	}
	b, err := st.LoadTrajectory(child.ID, body.Name)
	if err != nil {
		return err
	}
	if align {
		a, b = trajectory.Align(a, b)
	}

	diff, err := trajectory.Diff(a, b)
	if err != nil {
		return fmt.Errorf("%s vs %s: %w (try --align)", parent.ID, child.ID, err)
	}
	path, err := st.SaveDifference(parent.ID, child.ID, diff)
	if err != nil {
		return err
	}

	dev, at := trajectory.MaxDeviation(diff)
	fmt.Println(viz.KeyValue("body", body.Name))
	fmt.Println(viz.KeyValue("samples", len(diff)))
	fmt.Println(viz.KeyValue("max deviation", fmt.Sprintf("%.6e at t=%g", dev, at)))
	fmt.Println(viz.KeyValue("written", path))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	var pts []trajectory.Point
	if difference {
		pts, err = st.LoadDifference(meta.ID)
	} else {
		var body storage.BodyMetadata
		if body, err = trackedBody(meta, bodyName); err != nil {
			return err
		}
		pts, err = st.LoadTrajectory(meta.ID, body.Name)
	}
	if err != nil {
		return err
	}
	return trajectory.WriteCSV(os.Stdout, pts)
}
