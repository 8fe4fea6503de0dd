package starfield

import (
	"math/rand/v2"
	"testing"
)

func TestCount(t *testing.T) {
	cases := []struct {
		w, h float64
		want int
	}{
		{100, 100, 50},
		{400, 500, 100},
		{1920, 1080, 300},
	}
	for _, c := range cases {
		if got := Count(c.w, c.h); got != c.want {
			t.Errorf("Count(%v, %v) = %d, want %d", c.w, c.h, got, c.want)
		}
	}
}

func TestTick_OpacityStaysInRange(t *testing.T) {
	f := New(640, 480, rand.New(rand.NewPCG(1, 2)))
	start := make([]float64, len(f.Stars))
	for i, s := range f.Stars {
		start[i] = s.Opacity
	}

	for i := 0; i < 5000; i++ {
		f.Tick()
	}

	changed := 0
	for i, s := range f.Stars {
		if s.Opacity < minOpacity || s.Opacity > maxOpacity {
			t.Fatalf("star %d opacity %v out of range", i, s.Opacity)
		}
		if s.Opacity != start[i] {
			changed++
		}
		if s.X < 0 || s.X > 640 || s.Y < 0 || s.Y > 480 {
			t.Fatalf("star %d moved off the field: %+v", i, s)
		}
	}
	if changed == 0 {
		t.Fatal("no star twinkled")
	}
}
