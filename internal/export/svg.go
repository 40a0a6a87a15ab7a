// Package export renders arena snapshots as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/physim/internal/physics"
)

// Scene is what SceneToSVG draws. Coordinates are arena units with y
// growing downward, the same orientation as the live view.
type Scene struct {
	Width, Height float64
	Bodies        []physics.Body
	Walls         []physics.Wall
	Trails        [][]physics.Vec2
}

// SceneToSVG draws walls as rectangles, bodies as circles and trails as
// polylines. scale maps one arena unit to scale SVG pixels.
func SceneToSVG(s Scene, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	width := s.Width * scale
	height := s.Height * scale

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if len(s.Walls) > 0 {
		sb.WriteString(`<g fill="#444444">` + "\n")
		for _, w := range s.Walls {
			lo, _ := w.Bounds()
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
				lo.X*scale, lo.Y*scale, w.Width()*scale, w.Height()*scale)
		}
		sb.WriteString("</g>\n")
	}

	for _, trail := range s.Trails {
		if len(trail) < 2 {
			continue
		}
		sb.WriteString(`<path fill="none" stroke="#ff00ff" stroke-width="1" stroke-opacity="0.6" d="M`)
		for i, p := range trail {
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", p.X*scale, p.Y*scale)
		}
		sb.WriteString(`"/>` + "\n")
	}

	if len(s.Bodies) > 0 {
		sb.WriteString(`<g fill="none" stroke="#00ffff" stroke-width="1">` + "\n")
		for _, b := range s.Bodies {
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
				b.Pos.X*scale, b.Pos.Y*scale, b.Radius*scale)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
