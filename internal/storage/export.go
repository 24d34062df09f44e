package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// number is a coordinate that exports as null once it is no longer finite.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type exportBody struct {
	ID       int       `json:"id"`
	Position [2]number `json:"position"`
	Velocity [2]number `json:"velocity"`
}

type exportFrame struct {
	Frame     int          `json:"frame"`
	Time      float64      `json:"time"`
	Direction int          `json:"direction"`
	Bodies    []exportBody `json:"bodies"`
}

type exportRun struct {
	Meta   *RunMetadata  `json:"meta"`
	Frames []exportFrame `json:"frames"`
}

// ExportJSON writes run metadata and frames as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []dynamo.Frame) error {
	run := exportRun{Meta: meta, Frames: make([]exportFrame, len(frames))}
	for i, f := range frames {
		ef := exportFrame{Frame: f.Index, Time: f.Time, Direction: f.Direction, Bodies: make([]exportBody, len(f.Bodies))}
		for j, b := range f.Bodies {
			ef.Bodies[j] = exportBody{
				ID:       b.ID,
				Position: [2]number{number(b.Position.X), number(b.Position.Y)},
				Velocity: [2]number{number(b.Velocity.X), number(b.Velocity.Y)},
			}
		}
		run.Frames[i] = ef
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
