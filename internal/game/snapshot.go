package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

func snapshotKey(tableID string) string {
	return "table:" + tableID + ":snapshot"
}

func (tm *TableManager) snapshotTTL() time.Duration {
	if tm.config != nil && tm.config.SnapshotTTLMinutes > 0 {
		return time.Duration(tm.config.SnapshotTTLMinutes) * time.Minute
	}
	return time.Hour
}

// SaveSnapshot writes the table summary to Redis.
func (tm *TableManager) SaveSnapshot(ctx context.Context, t *Table) error {
	if tm.rdb == nil {
		return nil
	}

	data, err := json.Marshal(t.Summary())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return tm.rdb.SetEx(ctx, snapshotKey(t.ID), data, tm.snapshotTTL()).Err()
}

// LoadSnapshot reads the last persisted summary of a table.
func (tm *TableManager) LoadSnapshot(ctx context.Context, tableID string) (*Summary, error) {
	if tm.rdb == nil {
		return nil, ErrSnapshotNotFound
	}

	data, err := tm.rdb.Get(ctx, snapshotKey(tableID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", tableID, err)
	}
	return &s, nil
}

// SnapshotAll saves every unpaused table. It returns how many were written.
func (tm *TableManager) SnapshotAll(ctx context.Context) int {
	saved := 0
	for _, t := range tm.Tables() {
		if t.IsPaused() {
			continue
		}
		if err := tm.SaveSnapshot(ctx, t); err != nil {
			log.Printf("[SNAPSHOT] Failed to save table %s: %v", t.ID, err)
			continue
		}
		saved++
	}
	return saved
}

// StartSnapshotWorker periodically persists every unpaused table until ctx is done.
func (tm *TableManager) StartSnapshotWorker(ctx context.Context) {
	if tm.rdb == nil || tm.config == nil {
		log.Println("[SNAPSHOT] Redis or config missing; snapshot worker not started")
		return
	}

	interval := time.Duration(tm.config.SnapshotIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}

	log.Printf("[SNAPSHOT] Snapshot worker started (every %s)", interval)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[SNAPSHOT] Snapshot worker stopping")
				return
			case <-ticker.C:
				tm.SnapshotAll(ctx)
			}
		}
	}()
}
