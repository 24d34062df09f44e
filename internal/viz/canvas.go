package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel grid. Each cell remembers the color of the last
// dot drawn into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.RGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.RGBA, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight give the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cx] = col
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = color.RGBA{}
		}
	}
}

// FillCircle sets every dot within r of (cx, cy). Circles smaller than a dot
// still set their center.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.RGBA) {
	if cx+r < 0 || cy+r < 0 || cx-r > float64(c.SubWidth()) || cy-r > float64(c.SubHeight()) {
		return
	}
	if r < 0.5 {
		c.Set(int(cx), int(cy), col)
		return
	}
	x0, x1 := int(cx-r), int(cx+r)
	y0, y1 := int(cy-r), int(cy+r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				c.Set(x, y, col)
			}
		}
	}
}

// Dots counts set dots.
func (c *Canvas) Dots() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - blank; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each non-empty cell colored by lipgloss.
func (c *Canvas) Render() string {
	var b strings.Builder
	styles := make(map[color.RGBA]lipgloss.Style)
	for i, row := range c.Grid {
		for j, r := range row {
			if r == blank {
				b.WriteRune(r)
				continue
			}
			col := c.Colors[i][j]
			st, ok := styles[col]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(config.FormatColor(col)))
				styles[col] = st
			}
			b.WriteString(st.Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas dots.
type Viewport struct {
	Origin dynamo.Vec2
	Scale  float64
}

// FitViewport scales a world rectangle of w x h onto the canvas, keeping the
// aspect ratio and centering the shorter axis.
func FitViewport(c *Canvas, w, h float64) Viewport {
	sx := float64(c.SubWidth()) / w
	sy := float64(c.SubHeight()) / h
	scale := min(sx, sy)
	origin := dynamo.V(
		-(float64(c.SubWidth())/scale-w)/2,
		-(float64(c.SubHeight())/scale-h)/2,
	)
	return Viewport{Origin: origin, Scale: scale}
}

func (v Viewport) Project(p dynamo.Vec2) (float64, float64) {
	q := p.Sub(v.Origin).Scale(v.Scale)
	return q.X, q.Y
}

// Sink draws solver circles onto a canvas.
type Sink struct {
	Canvas *Canvas
	View   Viewport
}

func NewSink(c *Canvas, v Viewport) *Sink {
	return &Sink{Canvas: c, View: v}
}

func (s *Sink) DrawCircle(center dynamo.Vec2, radius float64, c color.RGBA) {
	if !center.IsFinite() {
		return
	}
	x, y := s.View.Project(center)
	s.Canvas.FillCircle(x, y, radius*s.View.Scale, c)
}
