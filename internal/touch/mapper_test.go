package touch

import (
	"math"
	"testing"
)

type fakeGame struct {
	eligible bool
	paused   bool
	cue      Point
	cueOK    bool
	shots    []ShotCommand
}

func (f *fakeGame) IsShootEligible() bool          { return f.eligible }
func (f *fakeGame) IsPaused() bool                 { return f.paused }
func (f *fakeGame) CueBallPosition() (Point, bool) { return f.cue, f.cueOK }
func (f *fakeGame) ApplyShot(angle, power float64) {
	f.shots = append(f.shots, ShotCommand{Angle: angle, Power: power})
}

// halfScale is the 960x600 canvas rendered at half size, offset by (100, 50).
var halfScale = Rect{Left: 100, Top: 50, Width: 480, Height: 300}

// at builds an event whose touch lands on logical point (x, y) of halfScale.
func at(x, y float64) Event {
	return Event{
		Touches: []TouchPoint{{ClientX: 100 + x/2, ClientY: 50 + y/2}},
		Rect:    halfScale,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompletedGestureEmitsOneShot(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	if !m.PointerDown(at(480, 300)) {
		t.Fatal("pointer down was not accepted")
	}
	m.PointerMove(at(480, 250))
	m.PointerMove(at(480, 200))

	cmd, ok := m.PointerUp(Event{})
	if !ok {
		t.Fatal("expected a shot")
	}
	if len(g.shots) != 1 {
		t.Fatalf("expected exactly one applied shot, got %d", len(g.shots))
	}
	if !approx(cmd.Angle, -math.Pi/2) {
		t.Errorf("angle = %v, want -pi/2", cmd.Angle)
	}
	if !approx(cmd.Power, 100.0/20) {
		t.Errorf("power = %v, want 5", cmd.Power)
	}
	if g.shots[0] != cmd {
		t.Errorf("applied %+v but returned %+v", g.shots[0], cmd)
	}
	if m.Aim().Active {
		t.Error("aim state survived pointer up")
	}
}

func TestIneligibleReleaseDiscardsGesture(t *testing.T) {
	g := &fakeGame{eligible: false}
	m := NewMapper(g, DefaultConfig())

	m.PointerDown(at(100, 100))
	m.PointerMove(at(300, 100))
	if _, ok := m.PointerUp(Event{}); ok {
		t.Error("shot emitted while not eligible")
	}
	if len(g.shots) != 0 {
		t.Errorf("expected no applied shots, got %d", len(g.shots))
	}
	if m.Aim().Active {
		t.Error("aim state not cleared after ineligible release")
	}

	// The next gesture starts fresh.
	g.eligible = true
	m.PointerDown(at(10, 10))
	if got := m.Aim().Origin; !approx(got.X, 10) || !approx(got.Y, 10) {
		t.Errorf("new gesture origin = %+v", got)
	}
}

func TestPausedReleaseDiscardsGesture(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	m.PointerDown(at(100, 100))
	g.paused = true
	if _, ok := m.PointerUp(Event{}); ok {
		t.Error("shot emitted while paused")
	}
	if m.Aim().Active {
		t.Error("aim state not cleared")
	}
}

func TestPausedIgnoresDownAndMove(t *testing.T) {
	g := &fakeGame{eligible: true, paused: true}
	m := NewMapper(g, DefaultConfig())

	if m.PointerDown(at(100, 100)) {
		t.Error("pointer down accepted while paused")
	}
	if m.Aim().Active {
		t.Error("gesture started while paused")
	}
}

func TestMoveWhileInactiveIsNoop(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	before := m.Aim()
	if m.PointerMove(at(200, 200)) {
		t.Error("move accepted without an active gesture")
	}
	if m.Aim() != before {
		t.Errorf("state changed: %+v -> %+v", before, m.Aim())
	}
	if len(g.shots) != 0 {
		t.Error("move emitted a shot")
	}
}

func TestUpWithoutDownIsNoop(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	if _, ok := m.PointerUp(Event{}); ok {
		t.Error("release without press emitted a shot")
	}
	if len(g.shots) != 0 {
		t.Error("game received a shot")
	}
}

func TestMalformedEventsAreDropped(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	if m.PointerDown(Event{Rect: halfScale}) {
		t.Error("down without touches accepted")
	}
	if m.PointerDown(Event{Touches: []TouchPoint{{ClientX: 1, ClientY: 1}}}) {
		t.Error("down with zero-size rect accepted")
	}
	if m.Aim().Active {
		t.Fatal("malformed down started a gesture")
	}

	m.PointerDown(at(480, 300))
	if m.PointerMove(Event{Rect: halfScale}) {
		t.Error("move without touches accepted")
	}
	if m.PointerMove(Event{Touches: []TouchPoint{{ClientX: math.NaN(), ClientY: 0}}, Rect: halfScale}) {
		t.Error("move with NaN accepted")
	}
	if got := m.Aim().Current; !approx(got.X, 480) || !approx(got.Y, 300) {
		t.Errorf("malformed move changed current to %+v", got)
	}
}

func TestRestartPolicy(t *testing.T) {
	t.Run("ignore", func(t *testing.T) {
		m := NewMapper(&fakeGame{eligible: true}, DefaultConfig())
		m.PointerDown(at(100, 100))
		if m.PointerDown(at(500, 500)) {
			t.Error("second press accepted")
		}
		if got := m.Aim().Origin; !approx(got.X, 100) {
			t.Errorf("origin moved to %+v", got)
		}
	})

	t.Run("restart", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Restart = RestartRestart
		m := NewMapper(&fakeGame{eligible: true}, cfg)
		m.PointerDown(at(100, 100))
		if !m.PointerDown(at(500, 500)) {
			t.Error("second press rejected")
		}
		if got := m.Aim(); !approx(got.Origin.X, 500) || !approx(got.Current.Y, 500) {
			t.Errorf("gesture not restarted: %+v", got)
		}
	})
}

func TestOtherPointerIsIgnored(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	down := at(100, 100)
	down.PointerID = 1
	m.PointerDown(down)

	stray := at(400, 400)
	stray.PointerID = 2
	if m.PointerMove(stray) {
		t.Error("move from a second pointer accepted")
	}
	if _, ok := m.PointerUp(Event{PointerID: 2}); ok {
		t.Error("release from a second pointer completed the gesture")
	}
	if !m.Aim().Active {
		t.Fatal("gesture lost to a second pointer")
	}
	if _, ok := m.PointerUp(Event{PointerID: 1}); !ok {
		t.Error("owning pointer could not complete the gesture")
	}
}

func TestCueBallMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = AimCueBall
	g := &fakeGame{eligible: true, cue: Point{X: 200, Y: 300}, cueOK: true}
	m := NewMapper(g, cfg)

	m.PointerDown(at(600, 100))
	m.PointerMove(at(600, 300))
	cmd, ok := m.PointerUp(Event{})
	if !ok {
		t.Fatal("expected a shot")
	}
	if !approx(cmd.Angle, 0) {
		t.Errorf("angle = %v, want 0 (cue ball to release point)", cmd.Angle)
	}
	if !approx(cmd.Power, 20) {
		t.Errorf("power = %v, want 400/20", cmd.Power)
	}

	g.cueOK = false
	m.PointerDown(at(600, 100))
	if _, ok := m.PointerUp(Event{}); ok {
		t.Error("shot emitted without a cue ball on the table")
	}
	if m.Aim().Active {
		t.Error("aim state not cleared")
	}
}

func TestPowerMonotoneAndSaturates(t *testing.T) {
	cfg := DefaultConfig()
	prev := -1.0
	for _, dist := range []float64{0, 10, 50, 100, 200, 400, 2000} {
		g := &fakeGame{eligible: true}
		m := NewMapper(g, cfg)
		m.PointerDown(at(10, 300))
		m.PointerMove(at(10+dist, 300))
		cmd, ok := m.PointerUp(Event{})
		if !ok {
			t.Fatalf("no shot for distance %v", dist)
		}
		if cmd.Power < cfg.MinPower || cmd.Power > cfg.MaxPower {
			t.Errorf("power %v outside [%v, %v]", cmd.Power, cfg.MinPower, cfg.MaxPower)
		}
		if cmd.Power < prev {
			t.Errorf("power decreased at distance %v: %v < %v", dist, cmd.Power, prev)
		}
		prev = cmd.Power
	}
	if prev != cfg.MaxPower {
		t.Errorf("long drag power = %v, want saturation at %v", prev, cfg.MaxPower)
	}
}

func TestCancelDiscardsGesture(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	m.PointerDown(at(100, 100))
	if !m.Cancel() {
		t.Error("cancel reported no active gesture")
	}
	if _, ok := m.PointerUp(Event{}); ok {
		t.Error("release after cancel emitted a shot")
	}
	if len(g.shots) != 0 {
		t.Error("cancelled gesture reached the game")
	}
}

func TestNewMapperFillsDefaults(t *testing.T) {
	m := NewMapper(&fakeGame{}, Config{MinPower: 50, MaxPower: 10})
	cfg := m.Config()
	if cfg.Space != DefaultSpace || cfg.Mode != AimDrag || cfg.Restart != RestartIgnore {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.DistanceToPowerFactor != 20 {
		t.Errorf("factor = %v", cfg.DistanceToPowerFactor)
	}
	if cfg.MinPower > cfg.MaxPower {
		t.Errorf("min %v above max %v", cfg.MinPower, cfg.MaxPower)
	}
}

func TestReleaseCompletesGestureOfAnyPointer(t *testing.T) {
	g := &fakeGame{eligible: true}
	m := NewMapper(g, DefaultConfig())

	down := at(480, 300)
	down.PointerID = 7
	m.PointerDown(down)
	move := at(480, 200)
	move.PointerID = 7
	m.PointerMove(move)

	cmd, ok := m.Release()
	if !ok {
		t.Fatal("Release did not complete the gesture")
	}
	if !approx(cmd.Angle, -math.Pi/2) || !approx(cmd.Power, 5) {
		t.Errorf("cmd = %+v, want angle -pi/2 power 5", cmd)
	}
	if m.Aim().Active {
		t.Error("aim state survived Release")
	}
	if _, ok := m.Release(); ok {
		t.Error("second Release emitted a shot")
	}
	if len(g.shots) != 1 {
		t.Errorf("shots = %d, want 1", len(g.shots))
	}
}

func TestReleaseWhileIneligibleClearsAim(t *testing.T) {
	g := &fakeGame{}
	m := NewMapper(g, DefaultConfig())
	m.PointerDown(at(100, 100))

	if _, ok := m.Release(); ok {
		t.Error("ineligible Release emitted a shot")
	}
	if m.Aim().Active || len(g.shots) != 0 {
		t.Errorf("aim=%+v shots=%d", m.Aim(), len(g.shots))
	}
}
