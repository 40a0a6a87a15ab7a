package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/physim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var seriesHeader = []string{"time", "px", "py", "kinetic_energy", "contacts", "wall_hits"}

// Store keeps one directory per run under baseDir. A run holds its
// metadata and the per-step series; it is a log of what happened, not a
// state that can be resumed.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunInfo describes the run being saved.
type RunInfo struct {
	Scenario string
	Seed     int64
	Dt       float64
	Steps    int
	Bodies   int
	Walls    int
	Naive    bool
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	SimTime    float64            `json:"sim_time"`
	Bodies     int                `json:"bodies"`
	Walls      int                `json:"walls"`
	Naive      bool               `json:"naive"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Series is the per-step log of a run.
type Series struct {
	Times         []float64
	MomentumX     []float64
	MomentumY     []float64
	KineticEnergy []float64
	Contacts      []int
	WallHits      []int
}

func (s *Series) Len() int { return len(s.Times) }

func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(fmt.Sprintf("%s_%d_s%d", info.Scenario, now.Unix(), info.Seed))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   info.Scenario,
		Timestamp:  now,
		Seed:       info.Seed,
		Dt:         info.Dt,
		Steps:      info.Steps,
		StepsTaken: result.StepsTaken,
		Bodies:     info.Bodies,
		Walls:      info.Walls,
		Naive:      info.Naive,
		Metrics:    result.Metrics,
	}
	if n := len(result.Times); n > 0 {
		meta.SimTime = result.Times[n-1]
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// newRunDir creates a fresh directory for base, adding a counter when a run
// with the same id already exists.
func (s *Store) newRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeSeries(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(seriesHeader); err != nil {
		return err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Momentum[i].X, 'g', -1, 64),
			strconv.FormatFloat(result.Momentum[i].Y, 'g', -1, 64),
			strconv.FormatFloat(result.KineticEnergy[i], 'g', -1, 64),
			strconv.Itoa(result.Contacts[i]),
			strconv.Itoa(result.WallHits[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, newest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSeries reads the per-step log of a run. Rows that fail to parse are
// skipped.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	series := &Series{}
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(seriesHeader) {
			continue
		}

		var vals [4]float64
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[j], 64); err != nil {
				ok = false
				break
			}
		}
		contacts, err1 := strconv.Atoi(rec[4])
		walls, err2 := strconv.Atoi(rec[5])
		if !ok || err1 != nil || err2 != nil {
			continue
		}

		series.Times = append(series.Times, vals[0])
		series.MomentumX = append(series.MomentumX, vals[1])
		series.MomentumY = append(series.MomentumY, vals[2])
		series.KineticEnergy = append(series.KineticEnergy, vals[3])
		series.Contacts = append(series.Contacts, contacts)
		series.WallHits = append(series.WallHits, walls)
	}

	return series, nil
}

// Delete removes a run and everything logged for it.
func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
