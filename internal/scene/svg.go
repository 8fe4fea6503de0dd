// Package scene renders the decorative simulations to SVG.
package scene

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ezzio11/portfolio/internal/canvas"
)

// transform is a rotation followed by a translation; the simulations never
// scale or skew, so circles stay circles.
type transform struct {
	cos, sin float64
	tx, ty   float64
}

var identity = transform{cos: 1}

func (t transform) apply(x, y float64) (float64, float64) {
	return t.tx + t.cos*x - t.sin*y, t.ty + t.sin*x + t.cos*y
}

type state struct {
	tf   transform
	dash []float64
}

// SVG is a canvas.Canvas that accumulates SVG elements.
type SVG struct {
	width, height float64

	defs      strings.Builder
	body      strings.Builder
	gradients map[string]string

	path       strings.Builder
	hasCurrent bool

	cur   state
	stack []state
}

var _ canvas.Canvas = (*SVG)(nil)

// NewSVG returns an empty width x height drawing.
func NewSVG(width, height float64) *SVG {
	return &SVG{
		width:     width,
		height:    height,
		gradients: make(map[string]string),
		cur:       state{tf: identity},
	}
}

func (s *SVG) Save() {
	s.stack = append(s.stack, s.cur)
}

func (s *SVG) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *SVG) Translate(x, y float64) {
	s.cur.tf.tx, s.cur.tf.ty = s.cur.tf.apply(x, y)
}

func (s *SVG) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	t := s.cur.tf
	s.cur.tf.cos = t.cos*cos - t.sin*sin
	s.cur.tf.sin = t.sin*cos + t.cos*sin
}

func (s *SVG) BeginPath() {
	s.path.Reset()
	s.hasCurrent = false
}

func (s *SVG) MoveTo(x, y float64) {
	px, py := s.cur.tf.apply(x, y)
	fmt.Fprintf(&s.path, "M%s %s ", num(px), num(py))
	s.hasCurrent = true
}

func (s *SVG) LineTo(x, y float64) {
	if !s.hasCurrent {
		s.MoveTo(x, y)
		return
	}
	px, py := s.cur.tf.apply(x, y)
	fmt.Fprintf(&s.path, "L%s %s ", num(px), num(py))
}

func (s *SVG) QuadraticCurveTo(cx, cy, x, y float64) {
	if !s.hasCurrent {
		s.MoveTo(cx, cy)
	}
	c1x, c1y := s.cur.tf.apply(cx, cy)
	px, py := s.cur.tf.apply(x, y)
	fmt.Fprintf(&s.path, "Q%s %s %s %s ", num(c1x), num(c1y), num(px), num(py))
}

func (s *SVG) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !s.hasCurrent {
		s.MoveTo(c1x, c1y)
	}
	ax, ay := s.cur.tf.apply(c1x, c1y)
	bx, by := s.cur.tf.apply(c2x, c2y)
	px, py := s.cur.tf.apply(x, y)
	fmt.Fprintf(&s.path, "C%s %s %s %s %s %s ", num(ax), num(ay), num(bx), num(by), num(px), num(py))
}

// Arc follows the 2D context: a line joins the current point to the arc
// start, and sweeps of a full turn or more draw a whole circle.
func (s *SVG) Arc(x, y, r, start, end float64, anticlockwise bool) {
	point := func(a float64) (float64, float64) {
		return s.cur.tf.apply(x+r*math.Cos(a), y+r*math.Sin(a))
	}

	sx, sy := point(start)
	if s.hasCurrent {
		fmt.Fprintf(&s.path, "L%s %s ", num(sx), num(sy))
	} else {
		fmt.Fprintf(&s.path, "M%s %s ", num(sx), num(sy))
		s.hasCurrent = true
	}

	delta := ArcSweep(start, end, anticlockwise)
	sweep := 1
	if delta < 0 {
		sweep = 0
	}
	if math.Abs(delta) >= 2*math.Pi {
		// SVG cannot draw a closed arc in one command
		mx, my := point(start + delta/2)
		fmt.Fprintf(&s.path, "A%s %s 0 1 %d %s %s ", num(r), num(r), sweep, num(mx), num(my))
		fmt.Fprintf(&s.path, "A%s %s 0 1 %d %s %s ", num(r), num(r), sweep, num(sx), num(sy))
		return
	}

	large := 0
	if math.Abs(delta) > math.Pi {
		large = 1
	}
	ex, ey := point(start + delta)
	fmt.Fprintf(&s.path, "A%s %s 0 %d %d %s %s ", num(r), num(r), large, sweep, num(ex), num(ey))
}

// ArcSweep returns the signed angle an arc from start to end covers,
// normalized the way the HTML canvas does it.
func ArcSweep(start, end float64, anticlockwise bool) float64 {
	const tau = 2 * math.Pi
	if !anticlockwise {
		if end-start >= tau {
			return tau
		}
		d := math.Mod(end-start, tau)
		if d < 0 {
			d += tau
		}
		return d
	}
	if start-end >= tau {
		return -tau
	}
	d := math.Mod(start-end, tau)
	if d < 0 {
		d += tau
	}
	return -d
}

func (s *SVG) Rect(x, y, w, h float64) {
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.ClosePath()
}

func (s *SVG) ClosePath() {
	if s.hasCurrent {
		s.path.WriteString("Z ")
	}
}

func (s *SVG) SetLineDash(segments ...float64) {
	s.cur.dash = append([]float64(nil), segments...)
}

func (s *SVG) Fill(p canvas.Paint) {
	d := s.pathData()
	if d == "" {
		return
	}
	fmt.Fprintf(&s.body, `<path d="%s" fill="%s"/>`+"\n", d, s.paint(p))
}

func (s *SVG) Stroke(p canvas.Paint, width float64) {
	d := s.pathData()
	if d == "" {
		return
	}
	fmt.Fprintf(&s.body, `<path d="%s" fill="none" stroke="%s" stroke-width="%s"`, d, s.paint(p), num(width))
	if len(s.cur.dash) > 0 {
		parts := make([]string, len(s.cur.dash))
		for i, v := range s.cur.dash {
			parts[i] = num(v)
		}
		fmt.Fprintf(&s.body, ` stroke-dasharray="%s"`, strings.Join(parts, " "))
	}
	s.body.WriteString("/>\n")
}

// FillRect paints a rectangle in untransformed viewport coordinates.
func (s *SVG) FillRect(x, y, w, h float64, color string) {
	fmt.Fprintf(&s.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(x), num(y), num(w), num(h), attr(color))
}

func (s *SVG) pathData() string {
	return strings.TrimSpace(s.path.String())
}

func (s *SVG) paint(p canvas.Paint) string {
	if len(p.Gradient) == 0 {
		return attr(p.Color)
	}

	var key strings.Builder
	for _, st := range p.Gradient {
		fmt.Fprintf(&key, "%s@%s;", st.Color, num(st.Offset))
	}
	if id, ok := s.gradients[key.String()]; ok {
		return "url(#" + id + ")"
	}

	id := fmt.Sprintf("g%d", len(s.gradients))
	s.gradients[key.String()] = id
	fmt.Fprintf(&s.defs, `<linearGradient id="%s" x1="0" y1="0" x2="1" y2="0">`, id)
	for _, st := range p.Gradient {
		fmt.Fprintf(&s.defs, `<stop offset="%s" stop-color="%s"/>`, num(st.Offset), attr(st.Color))
	}
	s.defs.WriteString("</linearGradient>\n")
	return "url(#" + id + ")"
}

// WriteTo writes the complete SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(s.width), num(s.height), num(s.width), num(s.height))
	if s.defs.Len() > 0 {
		b.WriteString("<defs>\n")
		b.WriteString(s.defs.String())
		b.WriteString("</defs>\n")
	}
	b.WriteString(s.body.String())
	b.WriteString("</svg>\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func attr(v string) string {
	return attrEscaper.Replace(v)
}
