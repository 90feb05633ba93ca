package game

// Pocket represents one of the 6 pockets on the table.
type Pocket struct {
	ID       int  `json:"id"`
	Position Vec2 `json:"position"`
}

// Cushion is one of the four rails bounding the playing surface. Normal points into the table.
type Cushion struct {
	Name   string `json:"name"`
	Normal Vec2   `json:"normal"`
}

// Geometry holds the table layout in logical units.
type Geometry struct {
	Left, Top, Right, Bottom float64
	Pockets                  []Pocket
	Cushions                 []Cushion
}

// NewStandardGeometry creates the 8-ball table that fills the 960x600 canvas.
func NewStandardGeometry() *Geometry {
	midX := (RailLeft + RailRight) / 2

	return &Geometry{
		Left:   RailLeft,
		Top:    RailTop,
		Right:  RailRight,
		Bottom: RailBottom,
		Pockets: []Pocket{
			{ID: 0, Position: NewVec2(RailLeft, RailTop)},
			{ID: 1, Position: NewVec2(midX, RailTop-5)},
			{ID: 2, Position: NewVec2(RailRight, RailTop)},
			{ID: 3, Position: NewVec2(RailLeft, RailBottom)},
			{ID: 4, Position: NewVec2(midX, RailBottom+5)},
			{ID: 5, Position: NewVec2(RailRight, RailBottom)},
		},
		Cushions: []Cushion{
			{Name: "left", Normal: NewVec2(1, 0)},
			{Name: "top", Normal: NewVec2(0, 1)},
			{Name: "right", Normal: NewVec2(-1, 0)},
			{Name: "bottom", Normal: NewVec2(0, -1)},
		},
	}
}

// HeadSpot is where the cue ball starts and respawns after a scratch.
func (g *Geometry) HeadSpot() Vec2 {
	return NewVec2(g.Left+(g.Right-g.Left)/4, (g.Top+g.Bottom)/2)
}

// FootSpot is the apex of the rack.
func (g *Geometry) FootSpot() Vec2 {
	return NewVec2(g.Left+(g.Right-g.Left)*3/4, (g.Top+g.Bottom)/2)
}

// Inside reports whether a ball centred at p fits on the playing surface.
func (g *Geometry) Inside(p Vec2) bool {
	return p.X-BallRadius >= g.Left && p.X+BallRadius <= g.Right &&
		p.Y-BallRadius >= g.Top && p.Y+BallRadius <= g.Bottom
}

// Standard8BallRack returns the initial positions for all 16 balls.
// Fixed offsets (no random jitter) keep replays deterministic.
func (g *Geometry) Standard8BallRack() [NumBalls]Vec2 {
	var pos [NumBalls]Vec2

	apex := g.FootSpot()
	e := 1.782 // row spacing in radii (sqrt(3) plus a small gap)
	s := 1.05  // column spacing in radii
	br := BallRadius
	x, y := apex.X, apex.Y

	pos[0] = g.HeadSpot()

	pos[1] = NewVec2(x, y)

	pos[2] = NewVec2(x+e*br, y+br*s)
	pos[15] = NewVec2(x+e*br, y-br*s)

	pos[8] = NewVec2(x+2*e*br, y)
	pos[5] = NewVec2(x+2*e*br, y+2*br*s)
	pos[10] = NewVec2(x+2*e*br, y-2*br*s)

	pos[7] = NewVec2(x+3*e*br, y+1*br*s)
	pos[4] = NewVec2(x+3*e*br, y+3*br*s)
	pos[9] = NewVec2(x+3*e*br, y-1*br*s)
	pos[6] = NewVec2(x+3*e*br, y-3*br*s)

	pos[11] = NewVec2(x+4*e*br, y)
	pos[12] = NewVec2(x+4*e*br, y+2*br*s)
	pos[13] = NewVec2(x+4*e*br, y-2*br*s)
	pos[14] = NewVec2(x+4*e*br, y+4*br*s)
	pos[3] = NewVec2(x+4*e*br, y-4*br*s)

	return pos
}
