package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/ezzio11/portfolio/internal/ornament"
	"github.com/ezzio11/portfolio/internal/snow"
	"github.com/ezzio11/portfolio/internal/starfield"
)

// Limits on snapshot requests.
const (
	MaxSide  = 4096
	MaxTicks = 10000
)

// ErrBadOptions is returned for out-of-range snapshot options.
var ErrBadOptions = errors.New("invalid scene options")

// Layer selects which simulations a snapshot includes.
type Layer uint8

const (
	Stars Layer = 1 << iota
	Snow
	Ornaments

	AllLayers = Stars | Snow | Ornaments
)

// ParseLayers reads a comma-separated list such as "stars,snow". An empty
// string selects every layer.
func ParseLayers(s string) (Layer, error) {
	var l Layer
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "":
		case "stars":
			l |= Stars
		case "snow":
			l |= Snow
		case "ornaments":
			l |= Ornaments
		case "all":
			l |= AllLayers
		default:
			return 0, fmt.Errorf("%w: unknown layer %q", ErrBadOptions, name)
		}
	}
	if l == 0 {
		l = AllLayers
	}
	return l, nil
}

// Options describes one snapshot.
type Options struct {
	Width, Height float64
	Seed          uint64
	Ticks         int
	// Pointer, when set, stays at this viewport position for every tick.
	Pointer    *ornament.Point
	Layers     Layer
	Background string
}

// Validate reports whether o can be rendered.
func (o Options) Validate() error {
	if !(o.Width > 0 && o.Width <= MaxSide) || !(o.Height > 0 && o.Height <= MaxSide) {
		return fmt.Errorf("%w: size %vx%v outside (0, %d]", ErrBadOptions, o.Width, o.Height, MaxSide)
	}
	if o.Ticks < 0 || o.Ticks > MaxTicks {
		return fmt.Errorf("%w: ticks %d outside [0, %d]", ErrBadOptions, o.Ticks, MaxTicks)
	}
	if p := o.Pointer; p != nil && (!finite(p.X) || !finite(p.Y)) {
		return fmt.Errorf("%w: pointer (%v, %v) is not finite", ErrBadOptions, p.X, p.Y)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Scene holds one instance of each simulation sharing a viewport.
type Scene struct {
	opts      Options
	stars     *starfield.Field
	snow      *snow.Field
	ornaments *ornament.Overlay
}

// New builds the simulations for opts. Each layer gets its own stream
// derived from the seed so toggling one layer does not change the others.
func New(opts Options) (*Scene, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Layers == 0 {
		opts.Layers = AllLayers
	}

	sc := &Scene{opts: opts}
	if opts.Layers&Stars != 0 {
		sc.stars = starfield.New(opts.Width, opts.Height, rand.New(rand.NewPCG(opts.Seed, 1)))
	}
	if opts.Layers&Snow != 0 {
		sc.snow = snow.NewField(opts.Width, opts.Height, rand.New(rand.NewPCG(opts.Seed, 2)))
	}
	if opts.Layers&Ornaments != 0 {
		sc.ornaments = ornament.NewOverlay(opts.Width, opts.Height, rand.New(rand.NewPCG(opts.Seed, 3)))
	}
	return sc, nil
}

// Step advances every simulation one tick.
func (sc *Scene) Step() {
	var wind float64
	if p := sc.opts.Pointer; p != nil {
		wind = snow.Wind(p.X/sc.opts.Width*2 - 1)
	}
	if sc.stars != nil {
		sc.stars.Tick()
	}
	if sc.snow != nil {
		sc.snow.Tick(wind)
	}
	if sc.ornaments != nil {
		sc.ornaments.Tick(sc.opts.Pointer)
	}
}

// Ornaments exposes the ornament overlay, nil when the layer is off.
func (sc *Scene) Ornaments() *ornament.Overlay {
	return sc.ornaments
}

// Draw renders the current state back to front.
func (sc *Scene) Draw(s *SVG) {
	if sc.opts.Background != "" {
		s.FillRect(0, 0, sc.opts.Width, sc.opts.Height, sc.opts.Background)
	}
	if sc.stars != nil {
		sc.stars.Draw(s)
	}
	if sc.snow != nil {
		sc.snow.Draw(s)
	}
	if sc.ornaments != nil {
		sc.ornaments.Draw(s)
	}
}

// Render runs opts.Ticks steps and writes the final frame to w.
func Render(w io.Writer, opts Options) error {
	sc, err := New(opts)
	if err != nil {
		return err
	}
	for i := 0; i < opts.Ticks; i++ {
		sc.Step()
	}
	svg := NewSVG(opts.Width, opts.Height)
	sc.Draw(svg)
	if _, err := svg.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}
