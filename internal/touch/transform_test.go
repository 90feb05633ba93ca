package touch

import (
	"math"
	"testing"
)

func TestTransformHalfScaleCenter(t *testing.T) {
	p, ok := DefaultSpace.Transform(340, 200, Rect{Left: 100, Top: 50, Width: 480, Height: 300})
	if !ok {
		t.Fatal("transform rejected a valid point")
	}
	if p.X != 480 || p.Y != 300 {
		t.Errorf("got (%v, %v), want (480, 300)", p.X, p.Y)
	}
}

func TestTransformInsideRectStaysInSpace(t *testing.T) {
	rects := []Rect{
		{Left: 0, Top: 0, Width: 960, Height: 600},
		{Left: 100, Top: 50, Width: 480, Height: 300},
		{Left: -20, Top: 7.5, Width: 375, Height: 234.375},
		{Left: 12, Top: 300, Width: 1920, Height: 1200},
	}
	for _, r := range rects {
		for i := 0; i <= 10; i++ {
			for j := 0; j <= 10; j++ {
				cx := r.Left + r.Width*float64(i)/10
				cy := r.Top + r.Height*float64(j)/10
				p, ok := DefaultSpace.Transform(cx, cy, r)
				if !ok {
					t.Fatalf("rejected (%v, %v) in %+v", cx, cy, r)
				}
				if p.X < -1e-9 || p.X > LogicalWidth+1e-9 || p.Y < -1e-9 || p.Y > LogicalHeight+1e-9 {
					t.Errorf("(%v, %v) in %+v mapped outside space: %+v", cx, cy, r, p)
				}
			}
		}
	}
}

func TestTransformScaleInvariant(t *testing.T) {
	base := Rect{Left: 40, Top: 30, Width: 480, Height: 300}
	rel := [][2]float64{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.75}, {0, 1}}

	for _, k := range []float64{0.25, 0.5, 1.5, 2, 3.7} {
		scaled := Rect{Left: base.Left, Top: base.Top, Width: base.Width * k, Height: base.Height * k}
		for _, rv := range rel {
			a, _ := DefaultSpace.Transform(base.Left+rv[0]*base.Width, base.Top+rv[1]*base.Height, base)
			b, _ := DefaultSpace.Transform(scaled.Left+rv[0]*scaled.Width, scaled.Top+rv[1]*scaled.Height, scaled)
			if math.Abs(a.X-b.X) > 1e-9 || math.Abs(a.Y-b.Y) > 1e-9 {
				t.Errorf("scale %v rel %v: %+v != %+v", k, rv, a, b)
			}
		}
	}
}

func TestTransformOutsideIsNotClamped(t *testing.T) {
	p, ok := DefaultSpace.Transform(-50, 700, Rect{Width: 480, Height: 300})
	if !ok {
		t.Fatal("rejected point outside rect")
	}
	if p.X != -100 || p.Y != 1400 {
		t.Errorf("got %+v, want (-100, 1400)", p)
	}
	if DefaultSpace.Contains(p) {
		t.Error("Contains reported an out-of-space point")
	}
}

func TestTransformRejectsDegenerateInput(t *testing.T) {
	cases := []struct {
		name string
		x, y float64
		rect Rect
	}{
		{"zero width", 1, 1, Rect{Width: 0, Height: 10}},
		{"negative height", 1, 1, Rect{Width: 10, Height: -1}},
		{"nan x", math.NaN(), 1, Rect{Width: 10, Height: 10}},
		{"inf y", 1, math.Inf(1), Rect{Width: 10, Height: 10}},
		{"inf width", 1, 1, Rect{Width: math.Inf(1), Height: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := DefaultSpace.Transform(tc.x, tc.y, tc.rect); ok {
				t.Error("expected rejection")
			}
		})
	}
}

func TestFitLayout(t *testing.T) {
	// Landscape phone: 844x390 -> min(658.32/960, 331.5/600) = 0.5525
	l, ok := DefaultSpace.FitLayout(Viewport{Width: 844, Height: 390})
	if !ok {
		t.Fatal("rejected viewport")
	}
	if l.Portrait {
		t.Error("844x390 reported as portrait")
	}
	if math.Abs(l.Scale-0.5525) > 1e-9 {
		t.Errorf("scale = %v, want 0.5525", l.Scale)
	}
	if l.DisplayWidth != 530 {
		t.Errorf("display width = %d, want 530", l.DisplayWidth)
	}

	// Portrait phone: 390x844 -> min(382.2/960, 405.12/600) = 0.398125
	l, _ = DefaultSpace.FitLayout(Viewport{Width: 390, Height: 844})
	if !l.Portrait {
		t.Error("390x844 not reported as portrait")
	}
	if math.Abs(l.Scale-0.398125) > 1e-9 {
		t.Errorf("scale = %v, want 0.398125", l.Scale)
	}

	// Desktop never scales up.
	l, _ = DefaultSpace.FitLayout(Viewport{Width: 2560, Height: 1440})
	if l.Scale != 1 {
		t.Errorf("desktop scale = %v, want 1", l.Scale)
	}

	if _, ok := DefaultSpace.FitLayout(Viewport{Width: 0, Height: 100}); ok {
		t.Error("accepted empty viewport")
	}
}
