package ornament

import (
	"math"
	"testing"

	"github.com/ezzio11/portfolio/internal/canvas"
)

func TestPlace_RespectsBandsAndSpacing(t *testing.T) {
	for _, width := range []float64{375, 768, 1440, 2560} {
		anchors := Place(width, 14, seeded(uint64(width)))
		left, right := Bands(width)

		for i, x := range anchors {
			inLeft := x >= left[0] && x <= left[1]
			inRight := x >= right[0] && x <= right[1]
			if !inLeft && !inRight {
				t.Fatalf("width %v: anchor %v outside bands %v %v", width, x, left, right)
			}
			if x < EdgePadding || x > width-EdgePadding {
				t.Fatalf("width %v: anchor %v too close to an edge", width, x)
			}
			for _, y := range anchors[i+1:] {
				if math.Abs(x-y) < MinSpacing {
					t.Fatalf("width %v: anchors %v and %v closer than %v", width, x, y, MinSpacing)
				}
			}
		}
	}
}

func TestPlace_DropsSlotsThatDoNotFit(t *testing.T) {
	// two 30px bands hold at most one anchor each
	anchors := Place(375, 6, seeded(3))
	if len(anchors) > 2 {
		t.Fatalf("got %d anchors on a phone-width viewport, want at most 2", len(anchors))
	}
}

func TestPlace_Deterministic(t *testing.T) {
	a := Place(1440, 14, seeded(9))
	b := Place(1440, 14, seeded(9))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("anchor %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestOverlay_ResizeReinitializes(t *testing.T) {
	ov := NewOverlay(1440, 900, seeded(5))
	if n := len(ov.Ornaments); n == 0 || n > desktopCount {
		t.Fatalf("desktop overlay has %d ornaments", n)
	}

	p := Point{X: ov.Ornaments[0].Bob().X, Y: ov.Ornaments[0].Bob().Y}
	for i := 0; i < 30; i++ {
		ov.Tick(&p)
	}
	if ov.Ornaments[0].Angle == 0 {
		t.Fatal("pointer on the bob did not move it")
	}

	ov.Resize(400, 800)
	if n := len(ov.Ornaments); n > mobileCount {
		t.Fatalf("mobile overlay has %d ornaments", n)
	}
	for _, o := range ov.Ornaments {
		if o.Angle != 0 || o.AngularVelocity != 0 {
			t.Fatal("resize kept old physics state")
		}
	}
}

// recorder counts canvas calls.
type recorder struct {
	depth, maxDepth      int
	fills, strokes, arcs int
	dashes               [][]float64
}

func (r *recorder) Save() {
	r.depth++
	if r.depth > r.maxDepth {
		r.maxDepth = r.depth
	}
}
func (r *recorder) Restore() { r.depth-- }
func (r *recorder) Translate(x, y float64) {}
func (r *recorder) Rotate(float64) {}
func (r *recorder) BeginPath() {}
func (r *recorder) MoveTo(x, y float64) {}
func (r *recorder) LineTo(x, y float64) {}
func (r *recorder) QuadraticCurveTo(cx, cy, x, y float64) {}
func (r *recorder) BezierCurveTo(a, b, c, d, x, y float64) {}
func (r *recorder) Arc(x, y, rad, s, e float64, ccw bool) { r.arcs++ }
func (r *recorder) Rect(x, y, w, h float64) {}
func (r *recorder) ClosePath() {}
func (r *recorder) SetLineDash(segments ...float64) { r.dashes = append(r.dashes, segments) }
func (r *recorder) Fill(canvas.Paint) { r.fills++ }
func (r *recorder) Stroke(canvas.Paint, float64) { r.strokes++ }

func TestDraw_EveryKind(t *testing.T) {
	for _, tc := range []struct {
		kind Kind
		size float64
	}{
		{Lantern, 21.5}, // onion
		{Lantern, 20.5}, // hexagon
		{Crescent, 24},
		{Star, 24},
	} {
		o := fixture()
		o.Kind = tc.kind
		o.Size = tc.size

		r := &recorder{}
		Draw(r, o)

		if r.depth != 0 || r.maxDepth == 0 {
			t.Fatalf("%s: unbalanced save/restore (depth %d)", tc.kind, r.depth)
		}
		if r.fills == 0 || r.strokes < 2 {
			t.Fatalf("%s: fills=%d strokes=%d", tc.kind, r.fills, r.strokes)
		}
		if len(r.dashes) != 2 || len(r.dashes[1]) != 0 {
			t.Fatalf("%s: chain dash not reset: %v", tc.kind, r.dashes)
		}
		if tc.kind == Crescent && r.arcs != 4 {
			t.Fatalf("crescent: %d arcs, want 4", r.arcs)
		}
	}
}

func TestCrescentArcs_MeetOnTheMoon(t *testing.T) {
	const r = 20.0
	ms, me, ss, se := CrescentArcs(r)
	cx, cy, R := shadowDX*r, shadowDY*r, shadowRadius*r

	// the shadow arc starts where the moon arc ends and vice versa
	mex, mey := r*math.Cos(me), r*math.Sin(me)
	ssx, ssy := cx+R*math.Cos(ss), cy+R*math.Sin(ss)
	if math.Hypot(mex-ssx, mey-ssy) > 1e-9 {
		t.Fatalf("moon end (%v,%v) != shadow start (%v,%v)", mex, mey, ssx, ssy)
	}
	msx, msy := r*math.Cos(ms), r*math.Sin(ms)
	sex, sey := cx+R*math.Cos(se), cy+R*math.Sin(se)
	if math.Hypot(msx-sex, msy-sey) > 1e-9 {
		t.Fatalf("moon start (%v,%v) != shadow end (%v,%v)", msx, msy, sex, sey)
	}
}

func TestPalette(t *testing.T) {
	o := fixture()
	if o.Palette().Chain != Gold.Chain {
		t.Fatal("default palette should be gold")
	}
	o.Silver = true
	if o.Palette().Chain != Silver.Chain {
		t.Fatal("silver flag ignored")
	}
}
