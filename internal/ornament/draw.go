package ornament

import (
	"math"

	"github.com/ezzio11/portfolio/internal/canvas"
)

// Palette holds the colors of one metal finish.
type Palette struct {
	Chain string
	Tint  string
	Metal []canvas.Stop
}

var (
	Gold = Palette{
		Chain: "rgba(218,165,32,0.6)",
		Tint:  "rgba(255,215,0,0.1)",
		Metal: []canvas.Stop{
			{Offset: 0, Color: "#B8860B"},
			{Offset: 0.2, Color: "#FFD700"},
			{Offset: 0.5, Color: "#DAA520"},
			{Offset: 0.8, Color: "#FFFACD"},
			{Offset: 1, Color: "#8B4513"},
		},
	}
	Silver = Palette{
		Chain: "rgba(192,192,192,0.6)",
		Tint:  "rgba(200,200,200,0.1)",
		Metal: []canvas.Stop{
			{Offset: 0, Color: "#707070"},
			{Offset: 0.2, Color: "#E0E0E0"},
			{Offset: 0.5, Color: "#A0A0A0"},
			{Offset: 0.8, Color: "#D0D0D0"},
			{Offset: 1, Color: "#505050"},
		},
	}
)

// Palette returns the finish chosen for o at creation.
func (o *Ornament) Palette() Palette {
	if o.Silver {
		return Silver
	}
	return Gold
}

// Draw renders o: the chain from its anchor, then its shape at the bob.
func Draw(c canvas.Canvas, o *Ornament) {
	pal := o.Palette()

	c.Save()
	c.Translate(o.AnchorX, 0)
	c.Rotate(o.Angle)

	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(0, o.RopeLength)
	c.SetLineDash(3, 2)
	c.Stroke(canvas.Solid(pal.Chain), 1.5)
	c.SetLineDash()

	c.Translate(0, o.RopeLength)
	switch o.Kind {
	case Lantern:
		drawLantern(c, o.Size, pal)
	case Crescent:
		drawCrescent(c, o.Size, pal)
	case Star:
		drawStar(c, o.Size, pal)
	}
	c.Restore()
}

func metal(pal Palette) canvas.Paint {
	return canvas.Paint{Color: pal.Metal[2].Color, Gradient: pal.Metal}
}

// body fills a latticed outline with a faint tint and strokes its rim.
func body(c canvas.Canvas, pal Palette, path func()) {
	path()
	c.Fill(canvas.Solid(pal.Tint))
	path()
	c.Stroke(metal(pal), 2)
}

func drawLantern(c canvas.Canvas, size float64, pal Palette) {
	w := size
	h := size * 1.6

	if math.Mod(size, 2) > 1 {
		// onion dome
		c.BeginPath()
		c.MoveTo(-w/2, -h/3)
		c.QuadraticCurveTo(0, -h/2, w/2, -h/3)
		c.LineTo(w/2, -h/4)
		c.LineTo(-w/2, -h/4)
		c.Fill(metal(pal))

		c.BeginPath()
		c.MoveTo(0, h/2+h/4)
		c.LineTo(-w/4, h/2)
		c.LineTo(w/4, h/2)
		c.Fill(metal(pal))

		body(c, pal, func() {
			c.BeginPath()
			c.MoveTo(-w/2, -h/4)
			c.BezierCurveTo(-w, 0, -w/2, h/2, 0, h/2)
			c.BezierCurveTo(w/2, h/2, w, 0, w/2, -h/4)
			c.ClosePath()
		})
		return
	}

	// hexagon
	c.BeginPath()
	c.MoveTo(-w/2, -h/3)
	c.LineTo(w/2, -h/3)
	c.LineTo(0, -h/2)
	c.Fill(metal(pal))

	c.BeginPath()
	c.MoveTo(-w/3, h/3)
	c.LineTo(w/3, h/3)
	c.LineTo(0, h/2)
	c.Fill(metal(pal))

	body(c, pal, func() {
		c.BeginPath()
		c.Rect(-w/2, -h/3, w, h*0.66)
	})
}

// Crescent geometry: the shadow disc is offset up and right of the moon.
const (
	shadowDX     = 0.3
	shadowDY     = -0.2
	shadowRadius = 0.9
)

// CrescentArcs returns the angles where the moon (radius r, centered at
// the origin) and its shadow disc intersect: the moon arc runs clockwise
// from moonStart to moonEnd, the shadow arc anticlockwise from shadowStart
// to shadowEnd.
func CrescentArcs(r float64) (moonStart, moonEnd, shadowStart, shadowEnd float64) {
	cx, cy := shadowDX*r, shadowDY*r
	R := shadowRadius * r
	d := math.Hypot(cx, cy)
	phi := math.Atan2(cy, cx)
	alpha := math.Acos((d*d + r*r - R*R) / (2 * d * r))

	p1x, p1y := r*math.Cos(phi+alpha), r*math.Sin(phi+alpha)
	p2x, p2y := r*math.Cos(phi-alpha), r*math.Sin(phi-alpha)

	moonStart = phi + alpha
	moonEnd = phi - alpha + 2*math.Pi
	shadowStart = math.Atan2(p2y-cy, p2x-cx)
	shadowEnd = math.Atan2(p1y-cy, p1x-cx)
	return
}

func drawCrescent(c canvas.Canvas, r float64, pal Palette) {
	moonStart, moonEnd, shadowStart, shadowEnd := CrescentArcs(r)
	body(c, pal, func() {
		c.BeginPath()
		c.Arc(0, 0, r, moonStart, moonEnd, false)
		c.Arc(shadowDX*r, shadowDY*r, shadowRadius*r, shadowStart, shadowEnd, true)
		c.ClosePath()
	})
}

func drawStar(c canvas.Canvas, r float64, pal Palette) {
	const points = 5
	inner := r * 0.45

	body(c, pal, func() {
		c.BeginPath()
		for i := 0; i < points*2; i++ {
			radius := r
			if i%2 == 1 {
				radius = inner
			}
			a := math.Pi/points*float64(i) - math.Pi/2
			x, y := math.Cos(a)*radius, math.Sin(a)*radius
			if i == 0 {
				c.MoveTo(x, y)
			} else {
				c.LineTo(x, y)
			}
		}
		c.ClosePath()
	})
}
