package game

import "math"

// Ball represents a single pool ball's physics state.
type Ball struct {
	ID       int  `json:"id"`
	Position Vec2 `json:"position"`
	Velocity Vec2 `json:"velocity"`
	Active   bool `json:"active"`
}

// CollisionEvent records a collision for rule checking.
type CollisionEvent struct {
	Type     string  `json:"type"`      // "ball", "cushion", "pocket"
	BallID   int     `json:"ball_id"`
	TargetID int     `json:"target_id"` // ball ID, cushion index or pocket ID
	Speed    float64 `json:"speed"`
}

// PhysicsEngine advances the balls one frame at a time.
type PhysicsEngine struct {
	Balls    [NumBalls]*Ball
	Geometry *Geometry
	Events   []CollisionEvent
}

// NewPhysicsEngine creates a physics engine from ball states and table geometry.
func NewPhysicsEngine(balls [NumBalls]*Ball, geometry *Geometry) *PhysicsEngine {
	return &PhysicsEngine{
		Balls:    balls,
		Geometry: geometry,
		Events:   make([]CollisionEvent, 0),
	}
}

// Simulate runs frames until all balls stop, bounded by maxFrames. Returns collision events.
func (pe *PhysicsEngine) Simulate(maxFrames int) []CollisionEvent {
	pe.Events = make([]CollisionEvent, 0)
	for i := 0; i < maxFrames && !pe.AllStopped(); i++ {
		pe.Step()
	}
	return pe.Events
}

// AllStopped returns true if all active balls have zero velocity.
func (pe *PhysicsEngine) AllStopped() bool {
	for _, b := range pe.Balls {
		if b.Active && !b.Velocity.IsZero() {
			return false
		}
	}
	return true
}

// Step advances one frame. Fast balls are moved in sub-steps no longer than half a
// radius so they cannot tunnel through each other.
func (pe *PhysicsEngine) Step() {
	maxSpeed := 0.0
	for _, b := range pe.Balls {
		if b.Active {
			maxSpeed = math.Max(maxSpeed, b.Velocity.Magnitude())
		}
	}
	if maxSpeed == 0 {
		return
	}

	steps := int(math.Ceil(maxSpeed / (BallRadius / 2)))
	if steps < 1 {
		steps = 1
	}
	dt := 1.0 / float64(steps)

	for s := 0; s < steps; s++ {
		pe.moveBalls(dt)
		pe.resolvePockets()
		pe.resolveCushions()
		pe.resolveBallBall()
	}
	pe.updateFriction()
}

func (pe *PhysicsEngine) moveBalls(dt float64) {
	for _, ball := range pe.Balls {
		if !ball.Active {
			continue
		}
		ball.Position = ball.Position.Plus(ball.Velocity.Times(dt))
	}
}

func (pe *PhysicsEngine) resolvePockets() {
	for _, ball := range pe.Balls {
		if !ball.Active {
			continue
		}
		for _, pocket := range pe.Geometry.Pockets {
			if ball.Position.DistanceTo(pocket.Position) > PocketRadius {
				continue
			}
			speed := ball.Velocity.Magnitude()
			ball.Active = false
			ball.Velocity = Vec2{}
			ball.Position = pocket.Position
			pe.Events = append(pe.Events, CollisionEvent{
				Type:     "pocket",
				BallID:   ball.ID,
				TargetID: pocket.ID,
				Speed:    speed,
			})
			break
		}
	}
}

func (pe *PhysicsEngine) resolveCushions() {
	g := pe.Geometry
	for _, ball := range pe.Balls {
		if !ball.Active {
			continue
		}
		for i, c := range g.Cushions {
			var depth float64
			switch c.Name {
			case "left":
				depth = g.Left + BallRadius - ball.Position.X
			case "top":
				depth = g.Top + BallRadius - ball.Position.Y
			case "right":
				depth = ball.Position.X + BallRadius - g.Right
			case "bottom":
				depth = ball.Position.Y + BallRadius - g.Bottom
			}
			if depth <= 0 {
				continue
			}

			// Push back onto the surface, then reflect the normal component if still
			// heading into the rail.
			ball.Position = ball.Position.Plus(c.Normal.Times(depth))
			vn := ball.Velocity.Dot(c.Normal)
			if vn >= 0 {
				continue
			}
			normalComp := c.Normal.Times(vn)
			tangentComp := ball.Velocity.Minus(normalComp)
			ball.Velocity = tangentComp.Plus(normalComp.Times(-CushionRestitution))

			pe.Events = append(pe.Events, CollisionEvent{
				Type:     "cushion",
				BallID:   ball.ID,
				TargetID: i,
				Speed:    math.Abs(vn),
			})
		}
	}
}

func (pe *PhysicsEngine) resolveBallBall() {
	for a := 0; a < NumBalls; a++ {
		ball := pe.Balls[a]
		if !ball.Active {
			continue
		}
		for b := a + 1; b < NumBalls; b++ {
			target := pe.Balls[b]
			if !target.Active {
				continue
			}

			delta := target.Position.Minus(ball.Position)
			dist := delta.Magnitude()
			if dist >= 2*BallRadius {
				continue
			}

			n := delta.Normalize()
			if dist == 0 {
				n = NewVec2(1, 0)
			}

			// Separate overlapping balls equally along the contact normal.
			overlap := 2*BallRadius - dist
			ball.Position = ball.Position.Minus(n.Times(overlap / 2))
			target.Position = target.Position.Plus(n.Times(overlap / 2))

			// Only exchange momentum while converging.
			if target.Velocity.Minus(ball.Velocity).Dot(n) >= 0 {
				continue
			}

			r := n.RightNormal()
			ballNormal := n.Times(ball.Velocity.Dot(n))
			ballTangent := r.Times(ball.Velocity.Dot(r))
			targetNormal := n.Times(target.Velocity.Dot(n))
			targetTangent := r.Times(target.Velocity.Dot(r))

			newBallNormal := targetNormal.Times(BallRestitution).Plus(ballNormal.Times(1 - BallRestitution))
			newTargetNormal := ballNormal.Times(BallRestitution).Plus(targetNormal.Times(1 - BallRestitution))

			ball.Velocity = ballTangent.Plus(newBallNormal)
			target.Velocity = targetTangent.Plus(newTargetNormal)

			pe.Events = append(pe.Events, CollisionEvent{
				Type:     "ball",
				BallID:   ball.ID,
				TargetID: target.ID,
				Speed:    ball.Velocity.Magnitude(),
			})
			pe.Events = append(pe.Events, CollisionEvent{
				Type:     "ball",
				BallID:   target.ID,
				TargetID: ball.ID,
				Speed:    target.Velocity.Magnitude(),
			})
		}
	}
}

func (pe *PhysicsEngine) updateFriction() {
	for _, ball := range pe.Balls {
		if !ball.Active {
			continue
		}

		speed := ball.Velocity.Magnitude()*RollingDrag - Friction
		if speed < MinVelocity {
			ball.Velocity = Vec2{}
			continue
		}
		ball.Velocity = ball.Velocity.Normalize().Times(speed)
	}
}

// Positions returns the current positions of all balls.
func (pe *PhysicsEngine) Positions() [NumBalls]Vec2 {
	var positions [NumBalls]Vec2
	for i, b := range pe.Balls {
		positions[i] = b.Position
	}
	return positions
}
