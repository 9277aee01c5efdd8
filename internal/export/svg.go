package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/san-kum/glsim/internal/grid"
	"github.com/san-kum/glsim/internal/physics"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

func rgb(r, g, b float32) string {
	clamp := func(v float32) int {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 255
		}
		return int(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

// SpheresSVG draws a front view of the box looking down -z, nearer
// spheres on top.
func SpheresSVG(w io.Writer, snap physics.Snapshot, size int) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, size, size, size, size))
	half := float64(size) / 2
	sb.WriteString(fmt.Sprintf(`<rect x="0.5" y="0.5" width="%d" height="%d" fill="none" stroke="#444466"/>
`, size-1, size-1))

	order := make([]int, snap.Count)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return snap.Positions[3*order[a]+2] < snap.Positions[3*order[b]+2]
	})

	for _, i := range order {
		x := half + float64(snap.Positions[3*i])*half
		y := half - float64(snap.Positions[3*i+1])*half
		r := float64(snap.Radii[i]) * half
		fill := rgb(snap.Colors[3*i], snap.Colors[3*i+1], snap.Colors[3*i+2])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, fill))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// GridSVG draws the circles of the grid demo at their current eased
// positions with the demo's position based colors.
func GridSVG(w io.Writer, anim *grid.Animator, size int) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, size, size, size, size))
	half := float64(size) / 2
	r := float64(anim.Scale()) * half

	clip := anim.ClipPositions()
	colors := anim.Colors()
	for k := 0; 2*k+1 < len(clip); k++ {
		x := half + float64(clip[2*k])*half
		y := half - float64(clip[2*k+1])*half
		fill := rgb(colors[4*k], colors[4*k+1], colors[4*k+2])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, fill))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// SeriesSVG plots values against times as a polyline.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		if times[i] < minX {
			minX = times[i]
		}
		if times[i] > maxX {
			maxX = times[i]
		}
		if values[i] < minY {
			minY = values[i]
		}
		if values[i] > maxY {
			maxY = values[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
