package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

var cyan = color.RGBA{R: 0, G: 255, B: 220, A: 255}

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		Frames: []dynamo.Frame{
			{Index: 0, Time: 0, Direction: 1, Bodies: []dynamo.BodyState{
				{ID: 0, Position: dynamo.V(83, 400), Velocity: dynamo.V(0, -250), Radius: 20, Mass: 1, Color: cyan},
			}},
			{Index: 1, Time: 0.016, Direction: 1, Bodies: []dynamo.BodyState{
				{ID: 0, Position: dynamo.V(83, 396), Velocity: dynamo.V(0, -250), Radius: 20, Mass: 1, Color: cyan},
				{ID: 1, Position: dynamo.V(100, 100), Velocity: dynamo.V(0.5, 0), Radius: 25, Mass: 10, Color: color.RGBA{255, 255, 255, 255}},
			}},
		},
		FramesTaken: 1,
		Metrics:     map[string]float64{"energy_drift": 1.5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunInfo{Preset: "default", Gravity: 1000, Dt: 0.016}, sampleResult())
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
	if meta.Preset != "default" || meta.Gravity != 1000 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 1.5 {
		t.Errorf("expected energy_drift 1.5, got %f", meta.Metrics["energy_drift"])
	}
	if len(meta.Bodies) != 2 || meta.Bodies[0].Color != "#00ffdc" {
		t.Errorf("unexpected bodies: %+v", meta.Bodies)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if len(frames[0].Bodies) != 1 || len(frames[1].Bodies) != 2 {
		t.Errorf("unexpected body counts: %d, %d", len(frames[0].Bodies), len(frames[1].Bodies))
	}

	b := frames[1].Bodies[1]
	if b.Position != dynamo.V(100, 100) || b.Velocity != dynamo.V(0.5, 0) || b.Mass != 10 {
		t.Errorf("unexpected body: %+v", b)
	}
	if frames[0].Bodies[0].Color != cyan {
		t.Errorf("color not restored: %+v", frames[0].Bodies[0].Color)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunInfo{Preset: "pair"}, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunInfo{Preset: "default"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestSeries(t *testing.T) {
	frames := sampleResult().Frames

	ys, err := Series(frames, 0, "y")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(ys) != 2 || ys[1] != 396 {
		t.Errorf("unexpected series: %v", ys)
	}

	late, err := Series(frames, 1, "speed")
	if err != nil || len(late) != 1 || late[0] != 0.5 {
		t.Errorf("expected one speed sample, got %v %v", late, err)
	}

	if _, err := Series(frames, 5, "x"); !errors.Is(err, dynamo.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if _, err := Series(frames, 0, "mass"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{ID: "run_1", Preset: "default"}
	if err := ExportJSON(&buf, meta, sampleResult().Frames); err != nil {
		t.Fatalf("export: %v", err)
	}

	var decoded struct {
		Meta   RunMetadata `json:"meta"`
		Frames []struct {
			Bodies []struct {
				Position [2]float64 `json:"position"`
			} `json:"bodies"`
		} `json:"frames"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Meta.ID != "run_1" || len(decoded.Frames) != 2 {
		t.Errorf("unexpected export: %+v", decoded)
	}
	if decoded.Frames[1].Bodies[1].Position != [2]float64{100, 100} {
		t.Errorf("unexpected position: %v", decoded.Frames[1].Bodies[1].Position)
	}
}
