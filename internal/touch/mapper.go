package touch

import (
	"math"
	"sync"
)

// AimMode selects the vector a shot is derived from.
type AimMode string

const (
	// AimDrag derives angle and power from the gesture's own origin→release vector.
	AimDrag AimMode = "drag"
	// AimCueBall derives them from the cue ball→release vector.
	AimCueBall AimMode = "cue_ball"
)

// RestartPolicy decides what a pointer-down does while a gesture is already active.
type RestartPolicy string

const (
	RestartIgnore  RestartPolicy = "ignore"
	RestartRestart RestartPolicy = "restart"
)

// Game is the narrow capability the mapper needs from the table engine.
type Game interface {
	IsShootEligible() bool
	IsPaused() bool
	// CueBallPosition returns the reference point used in AimCueBall mode.
	// ok is false when the cue ball is not on the table.
	CueBallPosition() (Point, bool)
	ApplyShot(angle, power float64)
}

// Config tunes the mapper.
type Config struct {
	Space                 Space
	Mode                  AimMode
	Restart               RestartPolicy
	DistanceToPowerFactor float64
	MinPower              float64
	MaxPower              float64
}

// DefaultConfig matches the table engine's 1..27 power range: a drag across most of
// the table width saturates.
func DefaultConfig() Config {
	return Config{
		Space:                 DefaultSpace,
		Mode:                  AimDrag,
		Restart:               RestartIgnore,
		DistanceToPowerFactor: 20,
		MinPower:              1,
		MaxPower:              27,
	}
}

// TouchPoint is one raw touch in client pixels.
type TouchPoint struct {
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
}

// Event is a raw pointer event as delivered by the client.
type Event struct {
	PointerID int          `json:"pointer_id"`
	Touches   []TouchPoint `json:"touches"`
	Rect      Rect         `json:"rect"`
}

// AimState is the in-flight gesture.
type AimState struct {
	Active  bool  `json:"active"`
	Origin  Point `json:"origin"`
	Current Point `json:"current"`
}

// ShotCommand is emitted once per completed, eligible gesture.
type ShotCommand struct {
	Angle float64 `json:"angle"` // radians
	Power float64 `json:"power"`
}

// Mapper turns a stream of raw pointer events into at most one ShotCommand per gesture.
// It never returns errors: malformed or ineligible input is dropped.
type Mapper struct {
	cfg       Config
	game      Game
	aim       AimState
	pointerID int
	mu        sync.Mutex
}

// NewMapper creates a mapper bound to game. Zero-valued config fields fall back to
// DefaultConfig.
func NewMapper(game Game, cfg Config) *Mapper {
	def := DefaultConfig()
	if cfg.Space.Width <= 0 || cfg.Space.Height <= 0 {
		cfg.Space = def.Space
	}
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if cfg.Restart == "" {
		cfg.Restart = def.Restart
	}
	if cfg.DistanceToPowerFactor <= 0 {
		cfg.DistanceToPowerFactor = def.DistanceToPowerFactor
	}
	if cfg.MaxPower <= 0 {
		cfg.MaxPower = def.MaxPower
	}
	if cfg.MinPower < 0 || cfg.MinPower > cfg.MaxPower {
		cfg.MinPower = math.Min(def.MinPower, cfg.MaxPower)
	}
	return &Mapper{cfg: cfg, game: game}
}

// Config returns the effective configuration.
func (m *Mapper) Config() Config {
	return m.cfg
}

// Aim returns a copy of the current aim state.
func (m *Mapper) Aim() AimState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aim
}

// PointerDown starts a gesture. It reports whether the event changed state.
func (m *Mapper) PointerDown(ev Event) bool {
	p, ok := m.firstPoint(ev)
	if !ok {
		return false
	}
	if m.game.IsPaused() {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.aim.Active && m.cfg.Restart == RestartIgnore {
		return false
	}

	m.aim = AimState{Active: true, Origin: p, Current: p}
	m.pointerID = ev.PointerID
	return true
}

// PointerMove updates the aim of the active gesture.
func (m *Mapper) PointerMove(ev Event) bool {
	p, ok := m.firstPoint(ev)
	if !ok {
		return false
	}
	if m.game.IsPaused() {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.aim.Active || ev.PointerID != m.pointerID {
		return false
	}
	m.aim.Current = p
	return true
}

// PointerUp completes the gesture. When the game is eligible and not paused the derived
// command is applied to the game and returned with ok=true. The aim state is cleared
// whenever a gesture was active, whether or not a shot resulted.
func (m *Mapper) PointerUp(ev Event) (ShotCommand, bool) {
	m.mu.Lock()
	if !m.aim.Active || ev.PointerID != m.pointerID {
		m.mu.Unlock()
		return ShotCommand{}, false
	}
	aim := m.aim
	m.aim = AimState{}
	m.mu.Unlock()

	return m.complete(aim)
}

// Release completes the active gesture whatever pointer started it. It serves lift
// events that carry no pointer data.
func (m *Mapper) Release() (ShotCommand, bool) {
	m.mu.Lock()
	if !m.aim.Active {
		m.mu.Unlock()
		return ShotCommand{}, false
	}
	aim := m.aim
	m.aim = AimState{}
	m.mu.Unlock()

	return m.complete(aim)
}

func (m *Mapper) complete(aim AimState) (ShotCommand, bool) {
	if !m.game.IsShootEligible() || m.game.IsPaused() {
		return ShotCommand{}, false
	}

	from := aim.Origin
	if m.cfg.Mode == AimCueBall {
		cue, ok := m.game.CueBallPosition()
		if !ok {
			return ShotCommand{}, false
		}
		from = cue
	}

	cmd := m.derive(from, aim.Current)
	m.game.ApplyShot(cmd.Angle, cmd.Power)
	return cmd, true
}

// Cancel discards any active gesture without emitting. It reports whether one was active.
func (m *Mapper) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	was := m.aim.Active
	m.aim = AimState{}
	return was
}

func (m *Mapper) derive(from, to Point) ShotCommand {
	dx := to.X - from.X
	dy := to.Y - from.Y
	return ShotCommand{
		Angle: math.Atan2(dy, dx),
		Power: ClampPower(math.Hypot(dx, dy)/m.cfg.DistanceToPowerFactor, m.cfg.MinPower, m.cfg.MaxPower),
	}
}

func (m *Mapper) firstPoint(ev Event) (Point, bool) {
	if len(ev.Touches) == 0 {
		return Point{}, false
	}
	t := ev.Touches[0]
	return m.cfg.Space.Transform(t.ClientX, t.ClientY, ev.Rect)
}

// ClampPower limits power to [min, max].
func ClampPower(power, min, max float64) float64 {
	if math.IsNaN(power) || power < min {
		return min
	}
	if power > max {
		return max
	}
	return power
}
