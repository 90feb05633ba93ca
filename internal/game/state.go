package game

// TableStatus represents the lifecycle of a table
type TableStatus string

const (
	StatusWaiting   TableStatus = "WAITING"   // created, frame loop not running yet
	StatusIdle      TableStatus = "IDLE"      // balls at rest, waiting for a shot
	StatusResolving TableStatus = "RESOLVING" // physics running after a shot
	StatusClosed    TableStatus = "CLOSED"
)
