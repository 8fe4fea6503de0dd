package ornament

import (
	"math"

	"github.com/ezzio11/portfolio/internal/canvas"
)

// Placement constants, in pixels.
const (
	EdgePadding = 45.0
	MinSpacing  = 50.0
	MaxAttempts = 50

	MobileBreakpoint = 768.0
	mobileCount      = 6
	desktopCount     = 14
)

// Bands returns the left and right anchor bands for a viewport width. The
// middle of the viewport is kept clear for content.
func Bands(width float64) (left, right [2]float64) {
	safeStart := math.Max(EdgePadding+10, width*0.2)
	safeEnd := math.Min(width-EdgePadding-10, width*0.8)
	return [2]float64{EdgePadding, safeStart}, [2]float64{safeEnd, width - EdgePadding}
}

// Place picks up to count anchor positions in the side bands, at least
// MinSpacing apart. Each slot gets MaxAttempts tries; slots that run out
// are dropped, so fewer than count anchors may come back. This is a
// good-enough heuristic, not a packing guarantee.
func Place(width float64, count int, rng canvas.Rand) []float64 {
	left, right := Bands(width)
	placed := make([]float64, 0, count)

	for i := 0; i < count; i++ {
		for attempt := 0; attempt < MaxAttempts; attempt++ {
			band := right
			if rng.Float64() < 0.5 {
				band = left
			}
			x := band[0] + rng.Float64()*(band[1]-band[0])

			if farFromAll(x, placed) {
				placed = append(placed, x)
				break
			}
		}
	}
	return placed
}

func farFromAll(x float64, others []float64) bool {
	for _, o := range others {
		if math.Abs(x-o) < MinSpacing {
			return false
		}
	}
	return true
}

// Overlay owns every ornament hanging across one viewport.
type Overlay struct {
	Width, Height float64
	Ornaments     []*Ornament

	rng canvas.Rand
}

// NewOverlay hangs ornaments across a width x height viewport.
func NewOverlay(width, height float64, rng canvas.Rand) *Overlay {
	ov := &Overlay{rng: rng}
	ov.Resize(width, height)
	return ov
}

// Resize discards every ornament and hangs a fresh set for the new size.
func (ov *Overlay) Resize(width, height float64) {
	ov.Width, ov.Height = width, height

	count := desktopCount
	if width < MobileBreakpoint {
		count = mobileCount
	}
	anchors := Place(width, count, ov.rng)
	ov.Ornaments = make([]*Ornament, 0, len(anchors))
	for _, x := range anchors {
		ov.Ornaments = append(ov.Ornaments, New(x, ov.rng))
	}
}

// Tick advances every ornament one step.
func (ov *Overlay) Tick(pointer *Point) {
	for _, o := range ov.Ornaments {
		o.Update(pointer, ov.rng)
	}
}

// Draw renders every ornament.
func (ov *Overlay) Draw(c canvas.Canvas) {
	for _, o := range ov.Ornaments {
		Draw(c, o)
	}
}
