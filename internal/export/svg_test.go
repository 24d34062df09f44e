package export

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/viz"
)

var green = color.RGBA{R: 30, G: 255, B: 0, A: 255}

func TestTrajectoriesToSVG(t *testing.T) {
	frames := []dynamo.Frame{
		{Bodies: []dynamo.BodyState{{Position: dynamo.V(0, 0), Color: green, Radius: 5}}},
		{Bodies: []dynamo.BodyState{
			{Position: dynamo.V(10, 0), Color: green, Radius: 5},
			{Position: dynamo.V(5, 5), Color: color.RGBA{255, 255, 255, 255}, Radius: 5},
		}},
		{Bodies: []dynamo.BodyState{
			{Position: dynamo.V(10, 10), Color: green, Radius: 5},
			{Position: dynamo.V(6, 5), Color: color.RGBA{255, 255, 255, 255}, Radius: 5},
		}},
	}

	svg := TrajectoriesToSVG(frames, 200, 100)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if c := strings.Count(svg, "<path"); c != 2 {
		t.Errorf("expected 2 paths, got %d", c)
	}
	if !strings.Contains(svg, `stroke="#1eff00"`) || !strings.Contains(svg, `stroke="#ffffff"`) {
		t.Error("expected body colors as strokes")
	}
	if c := strings.Count(svg, " L"); c != 3 {
		t.Errorf("expected 3 line segments, got %d", c)
	}
}

func TestTrajectoriesToSVGBreaksOnNaN(t *testing.T) {
	nan := math.NaN()
	frames := []dynamo.Frame{
		{Bodies: []dynamo.BodyState{{Position: dynamo.V(0, 0), Color: green}}},
		{Bodies: []dynamo.BodyState{{Position: dynamo.V(nan, 0), Color: green}}},
		{Bodies: []dynamo.BodyState{{Position: dynamo.V(5, 5), Color: green}}},
	}

	svg := TrajectoriesToSVG(frames, 100, 100)
	if c := strings.Count(svg, "M"); c != 2 {
		t.Errorf("expected path to restart after NaN, got %d moves", c)
	}
	if strings.Contains(svg, "NaN") {
		t.Error("NaN leaked into svg")
	}
}

func TestTrajectoriesToSVGUnsetColor(t *testing.T) {
	frames := []dynamo.Frame{
		{Bodies: []dynamo.BodyState{{Position: dynamo.V(0, 0)}}},
		{Bodies: []dynamo.BodyState{{Position: dynamo.V(4, 3)}}},
	}

	svg := TrajectoriesToSVG(frames, 100, 100)
	if !strings.Contains(svg, `stroke="#ffffff"`) {
		t.Error("expected white stroke for a body without alpha")
	}
	if strings.Contains(svg, `"#000000"`) {
		t.Error("zero color leaked as black")
	}
}

func TestTrajectoriesToSVGEmpty(t *testing.T) {
	if TrajectoriesToSVG(nil, 100, 100) != "" {
		t.Error("expected empty output")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0, green)
	c.Set(3, 5, green)

	svg := CanvasToSVG(c, 10)
	if c := strings.Count(svg, "<circle"); c != 2 {
		t.Errorf("expected 2 dots, got %d", c)
	}
	if !strings.Contains(svg, `fill="#1eff00"`) {
		t.Error("expected dot color")
	}
	c.Set(7, 7, color.RGBA{})
	if svg = CanvasToSVG(c, 10); !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("expected white for a cell without alpha")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
}
