package touch

import "math"

// Logical table size. Every point handed to the game is expressed in this space,
// independent of device pixels and of any CSS scaling on the canvas.
const (
	LogicalWidth  = 960.0
	LogicalHeight = 600.0
)

// Point is a position in logical units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the canvas bounding rectangle in client pixels, as reported by the browser
// after layout (so it already reflects any transform applied to the element).
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Space is a fixed logical coordinate space.
type Space struct {
	Width  float64
	Height float64
}

// DefaultSpace is the 960x600 table space.
var DefaultSpace = Space{Width: LogicalWidth, Height: LogicalHeight}

// Transform maps a client-pixel point into the logical space.
// The result is not clamped: a point outside the rect maps outside the space.
// ok is false when the rect is degenerate or any input is not finite.
func (s Space) Transform(clientX, clientY float64, r Rect) (Point, bool) {
	if !finite(clientX) || !finite(clientY) || !finite(r.Left) || !finite(r.Top) {
		return Point{}, false
	}
	if !(r.Width > 0) || !(r.Height > 0) || math.IsInf(r.Width, 0) || math.IsInf(r.Height, 0) {
		return Point{}, false
	}

	relX := (clientX - r.Left) / r.Width
	relY := (clientY - r.Top) / r.Height

	return Point{X: relX * s.Width, Y: relY * s.Height}, true
}

// Contains reports whether p lies within the space, edges included.
func (s Space) Contains(p Point) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
