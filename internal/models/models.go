package models

import "time"

// TableShot is one applied shot in the table_shots log.
type TableShot struct {
	ID         int       `db:"id" json:"id"`
	TableID    string    `db:"table_id" json:"table_id"`
	ShotNumber int       `db:"shot_number" json:"shot_number"`
	Source     string    `db:"source" json:"source"`
	Angle      float64   `db:"angle" json:"angle"`
	Power      float64   `db:"power" json:"power"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
