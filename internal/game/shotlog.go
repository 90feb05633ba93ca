package game

import (
	"log"

	"github.com/panjf2000/ants/v2"

	"github.com/playpool/cuetouch/internal/models"
	"github.com/playpool/cuetouch/internal/touch"
)

// maxPendingShots bounds the inserts in flight. Workers beyond the database pool's
// connections wait for one, so the pool doubles as the backlog.
const maxPendingShots = 256

// Shot sources recorded alongside each shot.
const (
	SourceTouch = "touch"
	SourceAimAt = "aim_at"
	SourceSmart = "smart"
)

func newShotWriters() (*ants.Pool, error) {
	return ants.NewPool(maxPendingShots,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p interface{}) {
			log.Printf("[DB] Shot writer panic: %v", p)
		}),
	)
}

// RecordShotAsync hands the insert to the writer pool without blocking the caller. A shot
// is dropped with a log line only when maxPendingShots inserts are already in flight.
func (tm *TableManager) RecordShotAsync(tableID string, shotNumber int, source string, cmd touch.ShotCommand) {
	if tm == nil || tm.db == nil {
		return
	}
	if tm.writers == nil {
		tm.RecordShot(tableID, shotNumber, source, cmd)
		return
	}
	err := tm.writers.Submit(func() {
		tm.RecordShot(tableID, shotNumber, source, cmd)
	})
	if err != nil {
		log.Printf("[DB] Shot #%d for table %s not recorded: %v", shotNumber, tableID, err)
	}
}

// RecordShot appends an applied shot to the table_shots log.
func (tm *TableManager) RecordShot(tableID string, shotNumber int, source string, cmd touch.ShotCommand) {
	if tm == nil || tm.db == nil || tableID == "" {
		return
	}

	_, err := tm.db.Exec(
		`INSERT INTO table_shots (table_id, shot_number, source, angle, power, created_at) VALUES ($1,$2,$3,$4,$5,NOW())`,
		tableID, shotNumber, source, cmd.Angle, cmd.Power,
	)
	if err != nil {
		log.Printf("[DB] Failed to record shot #%d for table %s: %v", shotNumber, tableID, err)
	}
}

// ListShots returns the recorded shots of a table in order.
func (tm *TableManager) ListShots(tableID string) ([]models.TableShot, error) {
	shots := []models.TableShot{}
	if tm.db == nil {
		return shots, nil
	}
	err := tm.db.Select(&shots,
		`SELECT id, table_id, shot_number, source, angle, power, created_at FROM table_shots WHERE table_id = $1 ORDER BY shot_number, id`,
		tableID)
	return shots, err
}
