// Package canvas defines the drawing surface the decorative simulations
// render onto. It mirrors the subset of the HTML 2D context they use.
package canvas

// Stop is one color stop of a linear gradient.
type Stop struct {
	Offset float64
	Color  string
}

// Paint is a solid color or, when Gradient is set, a horizontal linear
// gradient across the shape.
type Paint struct {
	Color    string
	Gradient []Stop
}

// Solid returns a single-color paint.
func Solid(color string) Paint {
	return Paint{Color: color}
}

// Canvas is a 2D path-based drawing surface. Angles are in radians and
// the y axis points down.
type Canvas interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cx, cy, x, y float64)
	BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64)
	Arc(x, y, r, start, end float64, anticlockwise bool)
	Rect(x, y, w, h float64)
	ClosePath()

	// SetLineDash sets the dash pattern for later strokes; no arguments
	// restores solid lines.
	SetLineDash(segments ...float64)
	Fill(p Paint)
	Stroke(p Paint, width float64)
}

// Rand is the random source the simulations draw from. *math/rand/v2.Rand
// satisfies it; a seeded source makes runs reproducible.
type Rand interface {
	Float64() float64
}
