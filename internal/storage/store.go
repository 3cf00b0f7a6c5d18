package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/trajectory"
)

const (
	metadataFile     = "metadata.json"
	differenceFile   = "difference_trajectory.json"
	trajectorySuffix = "_trajectory.json"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir:
//
//	<baseDir>/<name>_<timestamp>/metadata.json
//	<baseDir>/<name>_<timestamp>/<body>_trajectory.json
//	<baseDir>/<name>_<timestamp>/difference_trajectory.json
type Store struct {
	baseDir string
	logger  *log.Logger
	now     func() time.Time
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir, logger: log.New(io.Discard), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type BodyMetadata struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Mu        string  `json:"mu"`
	Color     string  `json:"color"`
	LineWidth float64 `json:"line_width"`
	Tracked   bool    `json:"tracked"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Precision  int                `json:"precision"`
	Dt         string             `json:"dt"`
	Duration   string             `json:"duration"`
	Integrator string             `json:"integrator"`
	Steps      int                `json:"steps"`
	FinalTime  string             `json:"final_time"`
	Elapsed    string             `json:"elapsed"`
	Bodies     []BodyMetadata     `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
	Parent     string             `json:"parent,omitempty"`
}

// TrajectoryFile is the file name used for a body's samples.
func TrajectoryFile(body string) string {
	return physics.NameKey(body) + trajectorySuffix
}

// Save creates a new run directory holding meta and one trajectory file per
// entry of tracks, keyed by body name. It returns the run ID.
func (s *Store) Save(meta RunMetadata, tracks map[string][]trajectory.Point) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = s.now()
	}
	runID, runDir, err := s.createRunDir(meta.Scenario, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(runDir, TrajectoryFile(name))
		if err := trajectory.WriteFile(path, tracks[name]); err != nil {
			return "", err
		}
		s.logger.Debug("trajectory saved", "run", runID, "body", name, "points", len(tracks[name]))
	}

	s.logger.Info("run saved", "run", runID, "dir", runDir)
	return runID, nil
}

func (s *Store) createRunDir(scenario string, ts time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	if scenario == "" {
		scenario = "run"
	}
	base := fmt.Sprintf("%s_%s", scenario, ts.Format("20060102T150405"))
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping directory", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID, body string) ([]trajectory.Point, error) {
	pts, err := trajectory.ReadFile(filepath.Join(s.baseDir, runID, TrajectoryFile(body)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s has no trajectory for %q", ErrRunNotFound, runID, body)
	}
	return pts, err
}

// SaveDifference stores diff next to the child run's own trajectories and
// records the parent in the child's metadata.
func (s *Store) SaveDifference(parentID, childID string, diff []trajectory.Point) (string, error) {
	meta, err := s.Load(childID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, childID, differenceFile)
	if err := trajectory.WriteFile(path, diff); err != nil {
		return "", err
	}
	meta.Parent = parentID
	if err := writeJSON(filepath.Join(s.baseDir, childID, metadataFile), meta); err != nil {
		return "", err
	}
	s.logger.Info("difference saved", "parent", parentID, "child", childID, "points", len(diff))
	return path, nil
}

func (s *Store) LoadDifference(childID string) ([]trajectory.Point, error) {
	pts, err := trajectory.ReadFile(filepath.Join(s.baseDir, childID, differenceFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s has no difference file", ErrRunNotFound, childID)
	}
	return pts, err
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
