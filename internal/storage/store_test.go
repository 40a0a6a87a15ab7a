package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

func sampleResult(t *testing.T) *dynamo.Result {
	t.Helper()
	bodies := []physics.Body{
		{Pos: physics.V(200, 300), Vel: physics.V(100, 0), Mass: 2, Radius: 20},
		{Pos: physics.V(400, 300), Vel: physics.V(-100, 0), Mass: 1, Radius: 10},
	}
	s, err := dynamo.New(bodies, nil, dynamo.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background(), 60)
	if err != nil {
		t.Fatal(err)
	}
	result.Metrics["contacts"] = 1
	return result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := sampleResult(t)
	info := RunInfo{Scenario: "collision", Seed: 42, Dt: 1.0 / 60, Steps: 60, Bodies: 2}
	runID, err := st.Save(info, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "collision" || meta.Seed != 42 || meta.Bodies != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.StepsTaken != 60 {
		t.Errorf("expected 60 steps taken, got %d", meta.StepsTaken)
	}
	if meta.Metrics["contacts"] != 1 {
		t.Errorf("expected contacts metric 1, got %f", meta.Metrics["contacts"])
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if series.Len() != 61 {
		t.Fatalf("expected 61 rows, got %d", series.Len())
	}
	for i := range result.Times {
		if series.MomentumX[i] != result.Momentum[i].X || series.KineticEnergy[i] != result.KineticEnergy[i] {
			t.Fatalf("row %d does not round-trip", i)
		}
		if series.Contacts[i] != result.Contacts[i] {
			t.Fatalf("row %d contacts %d, want %d", i, series.Contacts[i], result.Contacts[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	result := sampleResult(t)
	info := RunInfo{Scenario: "collision", Seed: 1}
	first, err := st.Save(info, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(info, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Errorf("run ids collide: %s", first)
	}

	if err := os.Mkdir(filepath.Join(st.Dir(), "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}

	if err := st.Delete(first); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := st.Delete("junk"); err == nil {
		t.Error("deleted a directory that is not a run")
	}
	if runs, _ := st.List(); len(runs) != 1 {
		t.Errorf("expected 1 run after delete, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunInfo{Scenario: "gas"}, sampleResult(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "series.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if _, err := st.LoadSeries("nope"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	result := sampleResult(t)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, RunInfo{Scenario: "collision", Seed: 3}, result); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Scenario != "collision" || got.Steps != 60 || len(got.Times) != 61 {
		t.Errorf("unexpected export %s/%d/%d", got.Scenario, got.Steps, len(got.Times))
	}
	if len(got.Final) != 2 || got.Final[1].Radius != 10 {
		t.Errorf("final bodies %+v", got.Final)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, RunInfo{Scenario: "block"}, sampleResult(t)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("export is empty")
	}
}
