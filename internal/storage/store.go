package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// fields stored per body in states.csv
const bodyFields = 4

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BodyMetadata struct {
	ID     int     `json:"id"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color"`
}

type RunMetadata struct {
	ID        string         `json:"id"`
	Preset    string         `json:"preset"`
	Script    string         `json:"script,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Gravity   float64        `json:"gravity"`
	Timestep  int            `json:"timestep"`
	Dt        float64        `json:"dt"`
	Frames    int            `json:"frames"`
	Bodies    []BodyMetadata `json:"bodies"`
	Metrics   Metrics        `json:"metrics"`
}

// RunInfo describes a run about to be saved.
type RunInfo struct {
	Preset   string
	Script   string
	Gravity  float64
	Timestep int
	Dt       float64
}

// Save writes a run directory. Nothing is left behind when a write fails.
func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", info.Preset, time.Now().UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    info.Preset,
		Script:    info.Script,
		Timestamp: time.Now(),
		Gravity:   info.Gravity,
		Timestep:  info.Timestep,
		Dt:        info.Dt,
		Frames:    result.FramesTaken,
		Bodies:    make([]BodyMetadata, 0),
		Metrics:   result.Metrics,
	}

	// bodies are only ever appended, so the last frame knows all of them
	if n := len(result.Frames); n > 0 {
		for _, b := range result.Frames[n-1].Bodies {
			meta.Bodies = append(meta.Bodies, BodyMetadata{
				ID:     b.ID,
				Radius: b.Radius,
				Mass:   b.Mass,
				Color:  config.FormatColor(b.Color),
			})
		}
	}

	if err := writeStates(filepath.Join(runDir, "states.csv"), len(meta.Bodies), result.Frames); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("run %s states: %w", runID, err)
	}
	// metadata goes last and appears atomically, List only sees complete runs
	if err := writeMetadata(runDir, &meta); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("run %s metadata: %w", runID, err)
	}

	return runID, nil
}

func writeMetadata(runDir string, meta *RunMetadata) error {
	tmp, err := os.CreateTemp(runDir, "metadata-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(runDir, "metadata.json"))
}

func writeStates(path string, bodies int, frames []dynamo.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)

	header := []string{"frame", "time", "direction"}
	for i := 0; i < bodies; i++ {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Index),
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.Itoa(f.Direction),
		}
		for _, b := range f.Bodies {
			row = append(row,
				formatFloat(b.Position.X), formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X), formatFloat(b.Velocity.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads the recorded frames of a run. Body radius, mass and color
// come from the run metadata.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s states: %w", runID, err)
	}

	if len(records) < 2 {
		return []dynamo.Frame{}, nil
	}

	frames := make([]dynamo.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}

		idx, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		t, _ := strconv.ParseFloat(record[1], 64)
		dir, _ := strconv.Atoi(record[2])

		f := dynamo.Frame{Index: idx, Time: t, Dt: meta.Dt, Direction: dir}
		vals := record[3:]
		for i := 0; (i+1)*bodyFields <= len(vals); i++ {
			v, err := parseFloats(vals[i*bodyFields : (i+1)*bodyFields])
			if err != nil {
				return nil, fmt.Errorf("run %s frame %d: %w", runID, idx, err)
			}
			b := dynamo.BodyState{
				ID:       i,
				Position: dynamo.V(v[0], v[1]),
				Velocity: dynamo.V(v[2], v[3]),
			}
			if i < len(meta.Bodies) {
				b.Radius = meta.Bodies[i].Radius
				b.Mass = meta.Bodies[i].Mass
				b.Color, _ = config.ParseColor(meta.Bodies[i].Color)
			}
			f.Bodies = append(f.Bodies, b)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Series extracts one field of one body across frames. Frames recorded before
// the body existed are skipped.
func Series(frames []dynamo.Frame, body int, field string) ([]float64, error) {
	get, ok := fieldGetters[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q (want x, y, vx, vy, speed)", field)
	}
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if body < len(f.Bodies) {
			out = append(out, get(f.Bodies[body]))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("body %d: %w", body, dynamo.ErrNoData)
	}
	return out, nil
}

var fieldGetters = map[string]func(dynamo.BodyState) float64{
	"x":     func(b dynamo.BodyState) float64 { return b.Position.X },
	"y":     func(b dynamo.BodyState) float64 { return b.Position.Y },
	"vx":    func(b dynamo.BodyState) float64 { return b.Velocity.X },
	"vy":    func(b dynamo.BodyState) float64 { return b.Velocity.Y },
	"speed": func(b dynamo.BodyState) float64 { return b.Velocity.Magnitude() },
}
