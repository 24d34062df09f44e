package viz

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

var red = color.RGBA{R: 255, A: 255}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0, red)
	c.Set(1, 3, red)
	if c.Grid[0][0] != 0x2800|0x1|0x80 {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if c.Colors[0][0] != red {
		t.Errorf("expected cell color to be recorded")
	}

	// out of bounds is ignored
	c.Set(-1, 0, red)
	c.Set(8, 0, red)
	c.Set(0, 8, red)
	if c.Dots() != 2 {
		t.Errorf("expected 2 dots, got %d", c.Dots())
	}

	c.Clear()
	if c.Dots() != 0 {
		t.Errorf("expected empty canvas after clear, got %d dots", c.Dots())
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len([]rune(lines[0])) != 3 {
		t.Errorf("expected 3 cells per line, got %d", len([]rune(lines[0])))
	}
}

func TestFillCircle(t *testing.T) {
	tests := []struct {
		name    string
		x, y, r float64
		min     int
		max     int
	}{
		{"tiny circle sets center", 5, 5, 0.1, 1, 1},
		{"radius two", 10, 10, 2, 9, 16},
		{"off canvas", -50, -50, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(20, 10)
			c.FillCircle(tt.x, tt.y, tt.r, red)
			if n := c.Dots(); n < tt.min || n > tt.max {
				t.Errorf("expected %d..%d dots, got %d", tt.min, tt.max, n)
			}
		})
	}
}

func TestFitViewport(t *testing.T) {
	c := NewCanvas(80, 24) // 160 x 96 dots
	v := FitViewport(c, 1600, 960)
	if !near(v.Scale, 0.1) {
		t.Errorf("expected scale 0.1, got %f", v.Scale)
	}

	x, y := v.Project(dynamo.V(800, 480))
	if !near(x, 80) || !near(y, 48) {
		t.Errorf("expected world center at canvas center, got (%f, %f)", x, y)
	}

	// wider world centers vertically
	v = FitViewport(c, 3200, 960)
	_, y = v.Project(dynamo.V(0, 480))
	if !near(y, 48) {
		t.Errorf("expected vertical centering, got y=%f", y)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSinkDrawCircle(t *testing.T) {
	c := NewCanvas(80, 24)
	s := NewSink(c, FitViewport(c, 1600, 960))

	s.DrawCircle(dynamo.V(800, 480), 20, red)
	if c.Dots() == 0 {
		t.Error("expected circle to be drawn")
	}

	c.Clear()
	nan := dynamo.V(0, 0).Normalized()
	s.DrawCircle(nan, 20, red)
	if c.Dots() != 0 {
		t.Error("expected non-finite center to be skipped")
	}
}
