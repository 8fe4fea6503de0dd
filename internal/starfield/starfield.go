// Package starfield twinkles a static field of stars.
package starfield

import (
	"fmt"
	"math"

	"github.com/ezzio11/portfolio/internal/canvas"
)

const (
	areaPerStar = 2000.0
	minStars    = 50
	maxStars    = 300

	twinkle    = 0.02
	minOpacity = 0.1
	maxOpacity = 1.0
)

// Star is one point of light.
type Star struct {
	X, Y    float64
	Size    float64
	Opacity float64
	// Speed is the drift rate the field was designed with; stars are
	// currently held in place.
	Speed float64
}

// Field is a set of stars covering one viewport.
type Field struct {
	Width, Height float64
	Stars         []Star

	rng canvas.Rand
}

// Count returns how many stars a viewport gets.
func Count(width, height float64) int {
	return max(minStars, min(maxStars, int(width*height/areaPerStar)))
}

// New scatters stars over a width x height viewport.
func New(width, height float64, rng canvas.Rand) *Field {
	f := &Field{Width: width, Height: height, rng: rng}
	f.Stars = make([]Star, Count(width, height))
	for i := range f.Stars {
		f.Stars[i] = Star{
			X:       rng.Float64() * width,
			Y:       rng.Float64() * height,
			Size:    rng.Float64()*1.5 + 0.5,
			Opacity: rng.Float64()*0.8 + 0.2,
			Speed:   rng.Float64()*0.02 + 0.01,
		}
	}
	return f
}

// Tick nudges every star's opacity by a small random amount.
func (f *Field) Tick() {
	for i := range f.Stars {
		s := &f.Stars[i]
		s.Opacity += (f.rng.Float64() - 0.5) * twinkle
		s.Opacity = math.Max(minOpacity, math.Min(maxOpacity, s.Opacity))
	}
}

// Draw paints every star.
func (f *Field) Draw(c canvas.Canvas) {
	for _, s := range f.Stars {
		c.BeginPath()
		c.Arc(s.X, s.Y, s.Size, 0, math.Pi*2, false)
		c.Fill(canvas.Solid(fmt.Sprintf("rgba(200,220,255,%.3f)", s.Opacity)))
	}
}
