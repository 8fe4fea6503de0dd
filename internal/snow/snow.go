// Package snow drifts a pool of snowflakes down the viewport.
package snow

import (
	"fmt"
	"math"

	"github.com/ezzio11/portfolio/internal/canvas"
)

// Margin is how far past an edge a flake travels before it wraps or resets.
const Margin = 10.0

// Pool bounds. The pool scales with viewport area, one flake per
// AreaPerFlake square pixels, clamped per platform.
const (
	AreaPerFlake     = 2000.0
	MobileBreakpoint = 768.0
	MobileMin        = 100
	MobileMax        = 400
	DesktopMin       = 200
	DesktopMax       = 800
	WindMultiplier   = 0.02
)

// Flake is one snowflake. Z is the depth sample every other size-related
// attribute derives from; it only changes when the flake is recycled.
type Flake struct {
	X, Y          float64
	Z             float64
	Radius        float64
	FallSpeed     float64
	Alpha         float64
	SwayAngle     float64
	SwayAngleStep float64
	SwayStrength  float64
}

// Reset recycles f. Initial flakes are scattered over the whole viewport;
// recycled ones restart just above it.
func (f *Flake) Reset(width, height float64, initial bool, rng canvas.Rand) {
	f.X = rng.Float64() * width
	if initial {
		f.Y = rng.Float64() * height
	} else {
		f.Y = -Margin
	}

	// cubing biases the population toward small, slow, faint flakes
	f.Z = math.Pow(rng.Float64(), 3)

	f.Radius = 0.5 + f.Z*2
	f.FallSpeed = 0.3 + f.Z*2
	f.Alpha = 0.2 + f.Z*0.6

	f.SwayAngle = rng.Float64() * math.Pi * 2
	f.SwayAngleStep = 0.005 + f.Z*0.02
	f.SwayStrength = rng.Float64() + 0.5
}

// Update advances f one tick in a width x height viewport.
func (f *Flake) Update(width, height, wind float64, rng canvas.Rand) {
	f.Y += f.FallSpeed
	f.SwayAngle += f.SwayAngleStep
	f.X += math.Sin(f.SwayAngle)*f.SwayStrength + wind

	if f.Y > height+Margin {
		f.Reset(width, height, false, rng)
	}
	if f.X > width+Margin {
		f.X = -Margin
	}
	if f.X < -Margin {
		f.X = width + Margin
	}
}

// Draw paints f as a filled disc.
func (f *Flake) Draw(c canvas.Canvas) {
	c.BeginPath()
	c.Arc(f.X, f.Y, f.Radius, 0, math.Pi*2, false)
	c.Fill(canvas.Solid(fmt.Sprintf("rgba(255,255,255,%.3f)", f.Alpha)))
}

// PoolSize returns how many flakes a viewport gets.
func PoolSize(width, height float64) int {
	lo, hi := DesktopMin, DesktopMax
	if width < MobileBreakpoint {
		lo, hi = MobileMin, MobileMax
	}
	n := int(width * height / AreaPerFlake)
	return max(lo, min(hi, n))
}

// Wind converts a pointer position normalized to [-1, 1] across the
// viewport into horizontal drift per tick.
func Wind(normalizedX float64) float64 {
	return normalizedX * 2 * WindMultiplier * 10
}

// Field owns the flake pool for one viewport.
type Field struct {
	Width, Height float64
	Flakes        []Flake

	rng canvas.Rand
}

// NewField fills a width x height viewport with flakes.
func NewField(width, height float64, rng canvas.Rand) *Field {
	fl := &Field{rng: rng}
	fl.Resize(width, height)
	return fl
}

// Resize rebuilds the pool for a new viewport.
func (fl *Field) Resize(width, height float64) {
	fl.Width, fl.Height = width, height
	fl.Flakes = make([]Flake, PoolSize(width, height))
	for i := range fl.Flakes {
		fl.Flakes[i].Reset(width, height, true, fl.rng)
	}
}

// Tick advances every flake.
func (fl *Field) Tick(wind float64) {
	for i := range fl.Flakes {
		fl.Flakes[i].Update(fl.Width, fl.Height, wind, fl.rng)
	}
}

// Draw paints every flake.
func (fl *Field) Draw(c canvas.Canvas) {
	for i := range fl.Flakes {
		fl.Flakes[i].Draw(c)
	}
}
