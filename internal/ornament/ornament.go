// Package ornament simulates hanging decorations as damped pendulums that
// swing away from the pointer.
//
// The integration runs one fixed step per animation frame and assumes
// frames arrive at about 60 Hz; the constants below are tuned for that rate.
package ornament

import (
	"math"

	"github.com/ezzio11/portfolio/internal/canvas"
)

// Physics constants, per tick.
const (
	Gravity           = 0.005 // g/L folded into one factor
	InteractionRadius = 120.0
	InteractionDistSq = 15000.0
	PushStrength      = 0.002
	TurbulenceRadius  = 40.0
	Turbulence        = 0.005
	MaxAngle          = 1.5
	Bounce            = 0.5
	DefaultDamping    = 0.985
)

// Kind is the closed set of ornament shapes.
type Kind int

const (
	Lantern Kind = iota
	Crescent
	Star
)

func (k Kind) String() string {
	switch k {
	case Lantern:
		return "lantern"
	case Crescent:
		return "crescent"
	case Star:
		return "star"
	default:
		return "unknown"
	}
}

// Point is a position in viewport pixels.
type Point struct {
	X, Y float64
}

// Ornament is the state of one hanging decoration. The anchor sits on the
// top edge of the viewport at AnchorX.
type Ornament struct {
	AnchorX             float64
	RopeLength          float64
	Angle               float64
	AngularVelocity     float64
	AngularAcceleration float64
	Damping             float64
	InverseMass         float64

	Kind   Kind
	Silver bool
	Size   float64
}

// New creates an ornament at rest hanging from anchorX with randomized
// rope length, mass, size, kind and palette.
func New(anchorX float64, rng canvas.Rand) *Ornament {
	o := &Ornament{
		AnchorX:     anchorX,
		RopeLength:  80 + rng.Float64()*200,
		Damping:     DefaultDamping,
		InverseMass: 0.8 + rng.Float64()*0.4,
		Size:        18 + rng.Float64()*12,
		Silver:      rng.Float64() > 0.7,
	}
	o.Kind = randomKind(rng)
	return o
}

func randomKind(rng canvas.Rand) Kind {
	r := rng.Float64()
	switch {
	case r < 0.5:
		return Lantern
	case r < 0.8:
		return Crescent
	default:
		return Star
	}
}

// Bob returns the position of the hanging object.
func (o *Ornament) Bob() Point {
	return Point{
		X: o.AnchorX + math.Sin(o.Angle)*o.RopeLength,
		Y: o.RopeLength * math.Cos(o.Angle),
	}
}

// Update advances the pendulum one tick. pointer may be nil when there is
// no pointer over the viewport. rng feeds the turbulence added when the
// pointer is right on the bob; a nil rng disables it.
func (o *Ornament) Update(pointer *Point, rng canvas.Rand) {
	var torque float64
	if pointer != nil {
		torque = o.pointerTorque(*pointer, rng)
	}

	restoring := -Gravity * math.Sin(o.Angle)

	o.AngularAcceleration = restoring + torque
	o.AngularVelocity = (o.AngularVelocity + o.AngularAcceleration) * o.Damping
	o.Angle += o.AngularVelocity

	if o.Angle > MaxAngle {
		o.Angle = MaxAngle
		o.AngularVelocity *= -Bounce
	}
	if o.Angle < -MaxAngle {
		o.Angle = -MaxAngle
		o.AngularVelocity *= -Bounce
	}
}

func (o *Ornament) pointerTorque(p Point, rng canvas.Rand) float64 {
	bob := o.Bob()
	dx := p.X - bob.X
	dy := p.Y - bob.Y
	distSq := dx*dx + dy*dy
	if !(distSq < InteractionDistSq) {
		return 0
	}

	dist := math.Sqrt(distSq)
	push := PushStrength * (1 - dist/InteractionRadius) * o.InverseMass

	// swing away from the pointer's side
	var torque float64
	if dx > 0 {
		torque = -push
	} else {
		torque = push
	}
	if dist < TurbulenceRadius && rng != nil {
		torque += (rng.Float64() - 0.5) * Turbulence
	}
	return torque
}
