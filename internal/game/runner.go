package game

import (
	"context"
	"log"
	"time"
)

// SettledFunc is called from the frame loop whenever a shot comes to rest.
type SettledFunc func(t *Table, outcome *ShotOutcome)

// Run drives the table's per-frame update routine until ctx is cancelled. Readiness is
// published once the loop is live.
func (t *Table) Run(ctx context.Context, fps int, onSettled SettledFunc) {
	if fps <= 0 {
		fps = DefaultFrameRate
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	t.MarkReady()
	log.Printf("[TABLE] %s: frame loop started (%d fps)", t.ID, fps)

	for {
		select {
		case <-ctx.Done():
			t.Close()
			log.Printf("[TABLE] %s: frame loop stopped", t.ID)
			return
		case <-ticker.C:
			if outcome := t.Step(); outcome != nil && onSettled != nil {
				onSettled(t, outcome)
			}
		}
	}
}
