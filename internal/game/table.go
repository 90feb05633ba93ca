package game

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/playpool/cuetouch/internal/touch"
)

var (
	ErrNotEligible     = errors.New("shot not allowed while balls are moving")
	ErrPaused          = errors.New("table is paused")
	ErrClosed          = errors.New("table is closed")
	ErrCueBallOffTable = errors.New("cue ball is not on the table")
	ErrNoTargetBall    = errors.New("no object ball left to aim at")
	ErrInvalidShot     = errors.New("invalid shot parameters")
)

// BallState represents a ball's position and status for serialization.
type BallState struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active"`
}

// Summary is the compact table status persisted by the snapshot worker.
type Summary struct {
	TableID        string      `json:"table_id"`
	Status         TableStatus `json:"status"`
	Paused         bool        `json:"paused"`
	CanShoot       bool        `json:"can_shoot"`
	Power          float64     `json:"power"`
	Score1         int         `json:"score1"`
	Score2         int         `json:"score2"`
	CurrentTurn    int         `json:"current_turn"` // 1 or 2
	ShotNumber     int         `json:"shot_number"` // since the last rack
	TotalShots     int         `json:"total_shots"` // over the table's lifetime
	BallsRemaining int         `json:"balls_remaining"`
	LastActivity   time.Time   `json:"last_activity"`
}

// TableState is the full state sent to clients.
type TableState struct {
	Summary
	Balls []BallState `json:"balls"`
}

// ShotOutcome is produced when the balls come to rest after a shot.
type ShotOutcome struct {
	ShotNumber int   `json:"shot_number"`
	Shooter    int   `json:"shooter"`
	Pocketed   []int `json:"pocketed"`
	Scratch    bool  `json:"scratch"`
	TurnChange bool  `json:"turn_change"`
	NextTurn   int   `json:"next_turn"`
	Score1     int   `json:"score1"`
	Score2     int   `json:"score2"`
}

// Table is one billiards table: ball state, the shoot-eligibility and pause flags, and
// the per-frame update routine that is switched to physics resolution by a shot.
type Table struct {
	ID           string
	Status       TableStatus
	Balls        [NumBalls]*Ball
	CreatedAt    time.Time
	LastActivity time.Time

	geometry   *Geometry
	engine     *PhysicsEngine
	canShoot   bool
	paused     bool
	power      float64
	scores     [2]int
	turn       int // 0 or 1
	shotNumber int
	totalShots int // survives Reset; keys the shot log
	loop       func() *ShotOutcome
	ready      chan struct{}
	readyOnce  sync.Once
	mu         sync.RWMutex
}

// NewTable creates a racked table. It is not ready until its frame loop starts.
func NewTable(id string) *Table {
	now := time.Now()
	t := &Table{
		ID:           id,
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActivity: now,
		geometry:     NewStandardGeometry(),
		ready:        make(chan struct{}),
	}
	t.rack()
	t.power = DefaultPower
	return t
}

// Ready is closed once the table's frame loop is running.
func (t *Table) Ready() <-chan struct{} {
	return t.ready
}

// MarkReady publishes readiness. Safe to call more than once.
func (t *Table) MarkReady() {
	t.readyOnce.Do(func() {
		t.mu.Lock()
		if t.Status == StatusWaiting {
			t.Status = StatusIdle
		}
		t.mu.Unlock()
		close(t.ready)
	})
}

// WaitReady blocks until the table is ready or ctx is done.
func (t *Table) WaitReady(ctx context.Context) error {
	select {
	case <-t.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsShootEligible reports whether the balls are at rest and a new shot may begin.
func (t *Table) IsShootEligible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.canShoot && t.Status != StatusClosed
}

// IsPaused reports whether the table is paused.
func (t *Table) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}

// CueBallPosition returns the cue ball position in logical units.
func (t *Table) CueBallPosition() (touch.Point, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cue := t.Balls[0]
	if !cue.Active {
		return touch.Point{}, false
	}
	return cue.Position.Point(), true
}

// ApplyShot fires the cue ball. Rejected shots are logged and otherwise ignored.
// With IsShootEligible, IsPaused and CueBallPosition it makes a Table a touch.Game,
// so a Mapper can drive the engine without a socket in between.
func (t *Table) ApplyShot(angle, power float64) {
	if err := t.Shoot(angle, power); err != nil {
		log.Printf("[TABLE] %s: shot rejected: %v", t.ID, err)
	}
}

// Shoot fires the cue ball along angle (radians) with the given power, clamped to
// [MinPower, MaxPower]. It disables shooting and switches the frame routine to physics
// resolution until every ball stops.
func (t *Table) Shoot(angle, power float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.shootLocked(angle, power)
	return err
}

func (t *Table) shootLocked(angle, power float64) (touch.ShotCommand, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) || math.IsNaN(power) {
		return touch.ShotCommand{}, ErrInvalidShot
	}
	if t.Status == StatusClosed {
		return touch.ShotCommand{}, ErrClosed
	}
	if t.paused {
		return touch.ShotCommand{}, ErrPaused
	}
	if !t.canShoot {
		return touch.ShotCommand{}, ErrNotEligible
	}
	if !t.Balls[0].Active {
		return touch.ShotCommand{}, ErrCueBallOffTable
	}

	power = touch.ClampPower(power, MinPower, MaxPower)
	t.Balls[0].Velocity = FromPolar(angle, power)
	t.engine.Events = t.engine.Events[:0]

	t.canShoot = false
	t.power = MinPower
	t.shotNumber++
	t.totalShots++
	t.Status = StatusResolving
	t.loop = t.resolve
	t.LastActivity = time.Now()

	log.Printf("[TABLE] %s: shot #%d by player %d angle=%.4f power=%.2f", t.ID, t.shotNumber, t.turn+1, angle, power)
	return touch.ShotCommand{Angle: angle, Power: power}, nil
}

// AimAt shoots from the cue ball toward a logical target point using the preset power.
func (t *Table) AimAt(target touch.Point) (touch.ShotCommand, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cue := t.Balls[0]
	if !cue.Active {
		return touch.ShotCommand{}, ErrCueBallOffTable
	}
	dir := vecFromPoint(target).Minus(cue.Position)
	if dir.IsZero() {
		return touch.ShotCommand{}, ErrInvalidShot
	}
	return t.shootLocked(dir.Angle(), t.power)
}

// SmartShot aims at the nearest object ball with a distance-scaled power.
func (t *Table) SmartShot() (touch.ShotCommand, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cue := t.Balls[0]
	if !cue.Active {
		return touch.ShotCommand{}, ErrCueBallOffTable
	}

	var nearest *Ball
	minDistance := math.Inf(1)
	for _, b := range t.Balls[1:] {
		if !b.Active {
			continue
		}
		if d := cue.Position.DistanceTo(b.Position); d < minDistance {
			minDistance = d
			nearest = b
		}
	}
	if nearest == nil {
		return touch.ShotCommand{}, ErrNoTargetBall
	}

	power := touch.ClampPower(minDistance/SmartShotPowerDist, SmartShotMinPower, SmartShotMaxPower)
	return t.shootLocked(nearest.Position.Minus(cue.Position).Angle(), power)
}

// SetPowerLevel maps a 0..1 slider level onto the 1..27 power range and stores it as the
// preset used by AimAt.
func (t *Table) SetPowerLevel(level float64) (float64, error) {
	if math.IsNaN(level) {
		return 0, ErrInvalidShot
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.power = touch.ClampPower(MinPower+level*(MaxPower-MinPower), MinPower, MaxPower)
	return t.power, nil
}

// TogglePause flips the pause flag and returns the new value. The frame routine is
// skipped while paused.
func (t *Table) TogglePause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = !t.paused
	t.LastActivity = time.Now()
	log.Printf("[TABLE] %s: paused=%v", t.ID, t.paused)
	return t.paused
}

// Reset re-racks the balls and clears scores, pause and power.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rack()
	t.power = MinPower
	t.paused = false
	t.scores = [2]int{}
	t.turn = 0
	t.shotNumber = 0
	if t.Status != StatusWaiting && t.Status != StatusClosed {
		t.Status = StatusIdle
	}
	t.LastActivity = time.Now()
	log.Printf("[TABLE] %s: reset", t.ID)
}

// Close stops the table from accepting shots.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = StatusClosed
	t.canShoot = false
	t.loop = t.idle
}

// Step runs one frame of the active update routine. It returns a non-nil outcome on the
// frame the balls come to rest after a shot.
func (t *Table) Step() *ShotOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused || t.Status == StatusClosed {
		return nil
	}
	return t.loop()
}

// Summary returns the compact table status.
func (t *Table) Summary() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.summaryLocked()
}

// State returns the full client-facing state.
func (t *Table) State() TableState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	balls := make([]BallState, NumBalls)
	for i, b := range t.Balls {
		balls[i] = BallState{ID: b.ID, X: b.Position.X, Y: b.Position.Y, Active: b.Active}
	}
	return TableState{Summary: t.summaryLocked(), Balls: balls}
}

// === Internal helpers ===

func (t *Table) summaryLocked() Summary {
	remaining := 0
	for _, b := range t.Balls[1:] {
		if b.Active {
			remaining++
		}
	}
	return Summary{
		TableID:        t.ID,
		Status:         t.Status,
		Paused:         t.paused,
		CanShoot:       t.canShoot && t.Status != StatusClosed,
		Power:          t.power,
		Score1:         t.scores[0],
		Score2:         t.scores[1],
		CurrentTurn:    t.turn + 1,
		ShotNumber:     t.shotNumber,
		TotalShots:     t.totalShots,
		BallsRemaining: remaining,
		LastActivity:   t.LastActivity,
	}
}

func (t *Table) rack() {
	positions := t.geometry.Standard8BallRack()
	for i := 0; i < NumBalls; i++ {
		t.Balls[i] = &Ball{ID: i, Position: positions[i], Active: true}
	}
	t.engine = NewPhysicsEngine(t.Balls, t.geometry)
	t.canShoot = true
	t.loop = t.idle
}

func (t *Table) idle() *ShotOutcome {
	return nil
}

// resolve is the frame routine while a shot is in progress.
func (t *Table) resolve() *ShotOutcome {
	t.engine.Step()
	if !t.engine.AllStopped() {
		return nil
	}
	return t.settle()
}

func (t *Table) settle() *ShotOutcome {
	pocketed := []int{}
	scratch := false
	for _, e := range t.engine.Events {
		if e.Type != "pocket" {
			continue
		}
		if e.BallID == 0 {
			scratch = true
			continue
		}
		pocketed = append(pocketed, e.BallID)
	}

	shooter := t.turn
	t.scores[shooter] += len(pocketed)

	if scratch {
		t.respawnCueBall()
	}

	turnChange := scratch || len(pocketed) == 0
	if turnChange {
		t.turn = 1 - t.turn
	}

	t.canShoot = true
	t.Status = StatusIdle
	t.loop = t.idle
	t.LastActivity = time.Now()

	outcome := &ShotOutcome{
		ShotNumber: t.shotNumber,
		Shooter:    shooter + 1,
		Pocketed:   pocketed,
		Scratch:    scratch,
		TurnChange: turnChange,
		NextTurn:   t.turn + 1,
		Score1:     t.scores[0],
		Score2:     t.scores[1],
	}

	log.Printf("[TABLE] %s: shot #%d settled, pocketed=%v scratch=%v nextTurn=%d",
		t.ID, t.shotNumber, pocketed, scratch, outcome.NextTurn)
	return outcome
}

// respawnCueBall returns the cue ball to the head spot, sliding toward the head rail
// until it does not overlap another ball.
func (t *Table) respawnCueBall() {
	spot := t.geometry.HeadSpot()
	pos := spot
	for candidate := spot; t.geometry.Inside(candidate); candidate = candidate.Minus(NewVec2(BallRadius, 0)) {
		if !t.overlapsAny(candidate) {
			pos = candidate
			break
		}
	}
	t.Balls[0].Position = pos
	t.Balls[0].Velocity = Vec2{}
	t.Balls[0].Active = true
}

func (t *Table) overlapsAny(p Vec2) bool {
	for _, b := range t.Balls[1:] {
		if b.Active && b.Position.DistanceTo(p) < 2*BallRadius {
			return true
		}
	}
	return false
}
