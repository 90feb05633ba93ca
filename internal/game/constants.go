package game

// Table and physics constants in logical units (960x600 canvas, velocities in units per frame).
const (
	BallRadius         = 11.0
	PocketRadius       = 22.0
	CushionRestitution = 0.6
	BallRestitution    = 0.94
	RollingDrag        = 0.985
	Friction           = 0.02
	MinVelocity        = 0.05
	MinPower           = 1.0
	MaxPower           = 27.0
	DefaultPower       = 15.0
	NumBalls           = 16 // 0=cue, 1-7=solids, 8=eight, 9-15=stripes

	// Smart shot power window.
	SmartShotMinPower  = 8.0
	SmartShotMaxPower  = 25.0
	SmartShotPowerDist = 20.0

	// Playing surface inside the cushions.
	RailLeft   = 60.0
	RailTop    = 60.0
	RailRight  = 900.0
	RailBottom = 540.0

	DefaultFrameRate = 60
)
