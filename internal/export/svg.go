package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/viz"
)

const (
	background = "#0a0a0a"
	// drawn for colors with zero alpha, which would be invisible
	unsetColor = "#ffffff"
)

// CanvasToSVG converts a Braille canvas to SVG, one circle per dot in the
// color of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := unsetColor
			if c := canvas.Colors[row][col]; c.A != 0 {
				fill = config.FormatColor(c)
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type bounds struct {
	minX, maxX, minY, maxY float64
	ok                     bool
}

func (b *bounds) add(p dynamo.Vec2) {
	if !p.IsFinite() {
		return
	}
	if !b.ok {
		b.minX, b.maxX, b.minY, b.maxY, b.ok = p.X, p.X, p.Y, p.Y, true
		return
	}
	b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
	b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
}

// TrajectoriesToSVG draws the path of every body across frames in its own
// color, with a dot at its final position. Screen y grows downward like the
// simulation window, so no axis flip is applied. Non-finite positions break
// the path.
func TrajectoriesToSVG(frames []dynamo.Frame, width, height int) string {
	var b bounds
	n := 0
	for _, f := range frames {
		for _, body := range f.Bodies {
			b.add(body.Position)
		}
		n = max(n, len(f.Bodies))
	}
	if !b.ok || n == 0 {
		return ""
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX := b.minX - rangeX*0.1
	minY := b.minY - rangeY*0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p dynamo.Vec2) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width), (p.Y - minY) / rangeY * float64(height)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for id := 0; id < n; id++ {
		var path strings.Builder
		var last dynamo.BodyState
		pen := false
		seen := false
		for _, f := range frames {
			if id >= len(f.Bodies) {
				continue
			}
			body := f.Bodies[id]
			if !body.Position.IsFinite() {
				pen = false
				continue
			}
			x, y := project(body.Position)
			if pen {
				path.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			} else {
				path.WriteString(fmt.Sprintf(" M%.1f,%.1f", x, y))
				pen = true
			}
			last, seen = body, true
		}
		if !seen {
			continue
		}

		stroke := unsetColor
		if last.Color.A != 0 {
			stroke = config.FormatColor(last.Color)
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, stroke, strings.TrimSpace(path.String())))
		x, y := project(last.Position)
		r := math.Max(last.Radius/rangeX*float64(width), 2)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, stroke))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
