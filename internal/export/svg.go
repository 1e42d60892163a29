package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/nbodysim/internal/physics"
)

const (
	bodyColor    = "#00ff88"
	centralColor = "#ffcc00"
)

// BodiesToSVG draws the x-y projection of bodies on a size x size square,
// centred on the first body, with every finite body kept in frame. Dot area
// grows with mass.
func BodiesToSVG(bodies []physics.Body, size int) string {
	if size <= 0 {
		size = 800
	}

	var cx, cy float64
	if len(bodies) > 0 {
		cx, cy = bodies[0].Pos.X, bodies[0].Pos.Y
	}

	extent := 0.0
	maxMass := 0.0
	for i, b := range bodies {
		if !physics.Finite(b.Pos) {
			continue
		}
		extent = math.Max(extent, math.Max(math.Abs(b.Pos.X-cx), math.Abs(b.Pos.Y-cy)))
		if i > 0 {
			maxMass = math.Max(maxMass, b.Mass)
		}
	}
	if extent == 0 {
		extent = 1
	}
	extent *= 1.1

	half := float64(size) / 2
	ppu := half / extent

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, size, size, size, size, bodyColor)

	for i, b := range bodies {
		if i == 0 || !physics.Finite(b.Pos) {
			continue
		}
		r := 1.0
		if maxMass > 0 {
			r = 0.5 + math.Sqrt(b.Mass/maxMass)
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.2f"/>
`, half+(b.Pos.X-cx)*ppu, half-(b.Pos.Y-cy)*ppu, r)
	}
	sb.WriteString("</g>\n")

	if len(bodies) > 0 {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, half, half, centralColor)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
