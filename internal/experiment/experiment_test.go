package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/storage"
)

// shortLEO is the leo preset cut to a few minutes at low precision.
func shortLEO() *config.Config {
	cfg := config.GetPreset("leo")
	cfg.Precision = 30
	cfg.Dt = "10"
	cfg.Duration = "600"
	cfg.SampleEvery = 6
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if got := strings.Join(r.ListIntegrators(), ","); got != "euler,symplectic-euler" {
		t.Errorf("ListIntegrators() = %s", got)
	}
	integ, err := r.GetIntegrator("symplectic-euler")
	if err != nil || integ.Name() != "symplectic-euler" {
		t.Errorf("GetIntegrator = %v, %v", integ, err)
	}
	if _, err := r.GetIntegrator("rk4"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestExperimentRun(t *testing.T) {
	exp, err := New(shortLEO(), NewRegistry(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if exp.Steps() != 60 {
		t.Errorf("expected 60 steps, got %d", exp.Steps())
	}

	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	name, pts := out.Primary()
	if name != "Station" {
		t.Errorf("expected Station to be tracked, got %q", name)
	}
	if len(pts) != 10 {
		t.Fatalf("expected 10 samples, got %d", len(pts))
	}
	if pts[0].Time.String() != "60" || pts[9].Time.String() != "600" {
		t.Errorf("sample times %s..%s, want 60..600", pts[0].Time, pts[9].Time)
	}

	for _, m := range []string{"energy_drift", "radius_band"} {
		v, ok := out.Result.Metrics[m]
		if !ok {
			t.Errorf("missing metric %s", m)
		}
		if v > 0.01 {
			t.Errorf("%s = %g, expected a near-circular orbit", m, v)
		}
	}
	if _, ok := out.Result.Metrics["total_energy_drift"]; ok {
		t.Error("one massive body should not report total energy drift")
	}

	if len(out.Paths) != 2 || len(out.Paths[1].Points) != 61 {
		t.Errorf("expected both bodies with 61 path points, got %d paths", len(out.Paths))
	}
}

func TestExperiment_NoMetrics(t *testing.T) {
	exp, err := New(shortLEO(), NewRegistry(), Options{NoMetrics: true})
	if err != nil {
		t.Fatal(err)
	}
	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Result.Metrics) != 0 {
		t.Errorf("expected no metrics, got %v", out.Result.Metrics)
	}
}

func TestExperiment_InvalidIntegrator(t *testing.T) {
	cfg := shortLEO()
	cfg.Integrator = "rk45"
	if _, err := New(cfg, NewRegistry(), Options{}); err == nil {
		t.Error("expected unknown integrator error")
	}
}

func TestExperiment_DuplicateNames(t *testing.T) {
	cfg := shortLEO()
	twin := cfg.Bodies[1]
	twin.ID = 2
	twin.Name = "station"
	twin.Position = []string{"-6778137", "0", "0"}
	cfg.Bodies = append(cfg.Bodies, twin)
	cfg.Track = []int{1, 2}

	if _, err := New(cfg, NewRegistry(), Options{}); !errors.Is(err, dynamo.ErrValidation) {
		t.Errorf("expected ErrValidation for bodies sharing a name, got %v", err)
	}
}

func TestOutcomeSave(t *testing.T) {
	exp, err := New(shortLEO(), NewRegistry(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	st := storage.New(t.TempDir())
	runID, err := out.Save(st)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	for _, name := range []string{"metadata.json", "station_trajectory.json", PathsFile, DistanceFile} {
		if _, err := os.Stat(filepath.Join(st.RunDir(runID), name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Steps != 60 || meta.Precision != 30 || meta.Dt != "10" || meta.Integrator != "symplectic-euler" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if len(meta.Bodies) != 2 || !meta.Bodies[1].Tracked || meta.Bodies[0].Tracked {
		t.Errorf("unexpected bodies %+v", meta.Bodies)
	}

	svg, err := os.ReadFile(filepath.Join(st.RunDir(runID), DistanceFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "Distance from Station to Earth over Time") {
		t.Error("distance plot has the wrong title")
	}
}
