package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/panjf2000/ants/v2"
	"github.com/playpool/cuetouch/internal/config"
	"github.com/redis/go-redis/v9"
)

var ErrTableNotFound = errors.New("table not found")

// TableManager owns every live table and its frame loop.
type TableManager struct {
	tables    map[string]*managedTable
	rdb       *redis.Client // snapshots; nil disables
	db        *sqlx.DB      // shot log; nil disables
	writers   *ants.Pool    // shot-log inserts, off the input path
	config    *config.Config
	onSettled []SettledFunc
	mu        sync.RWMutex
}

type managedTable struct {
	table  *Table
	cancel context.CancelFunc
}

// NewTableManager creates a table manager. rdb and db may be nil.
func NewTableManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *TableManager {
	tm := &TableManager{
		tables: make(map[string]*managedTable),
		rdb:    rdb,
		db:     db,
		config: cfg,
	}
	if db != nil {
		pool, err := newShotWriters()
		if err != nil {
			log.Printf("[DB] Shot writer pool unavailable, recording inline: %v", err)
		} else {
			tm.writers = pool
		}
	}
	return tm
}

// Close stops every table and releases the shot writers.
func (tm *TableManager) Close() {
	for _, t := range tm.Tables() {
		tm.RemoveTable(t.ID)
	}
	if tm.writers != nil {
		tm.writers.Release()
	}
}

// OnSettled registers a callback fired after every shot comes to rest.
// Register before creating tables.
func (tm *TableManager) OnSettled(fn SettledFunc) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.onSettled = append(tm.onSettled, fn)
}

// CreateTable racks a new table and starts its frame loop. The loop outlives the request
// that created it and stops on Remove or when ctx is cancelled.
func (tm *TableManager) CreateTable(ctx context.Context) *Table {
	t := NewTable(uuid.NewString())

	loopCtx, cancel := context.WithCancel(ctx)

	tm.mu.Lock()
	tm.tables[t.ID] = &managedTable{table: t, cancel: cancel}
	tm.mu.Unlock()

	fps := DefaultFrameRate
	if tm.config != nil && tm.config.FrameRate > 0 {
		fps = tm.config.FrameRate
	}
	go t.Run(loopCtx, fps, tm.settled)

	log.Printf("[TABLE] Table created: %s", t.ID)
	return t
}

// GetTable returns a live table by id.
func (tm *TableManager) GetTable(id string) (*Table, error) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	mt, ok := tm.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return mt.table, nil
}

// Tables returns a snapshot of all live tables.
func (tm *TableManager) Tables() []*Table {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	out := make([]*Table, 0, len(tm.tables))
	for _, mt := range tm.tables {
		out = append(out, mt.table)
	}
	return out
}

// RemoveTable stops a table's frame loop and forgets it.
func (tm *TableManager) RemoveTable(id string) error {
	tm.mu.Lock()
	mt, ok := tm.tables[id]
	if ok {
		delete(tm.tables, id)
	}
	tm.mu.Unlock()

	if !ok {
		return ErrTableNotFound
	}
	mt.cancel()
	mt.table.Close()
	log.Printf("[TABLE] Table removed: %s", id)
	return nil
}

// settled runs on the table's frame-loop goroutine.
func (tm *TableManager) settled(t *Table, outcome *ShotOutcome) {
	if tm.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := tm.SaveSnapshot(ctx, t); err != nil {
			log.Printf("[SNAPSHOT] Failed to save table %s after shot #%d: %v", t.ID, outcome.ShotNumber, err)
		}
		cancel()
	}

	tm.mu.RLock()
	hooks := tm.onSettled
	tm.mu.RUnlock()
	for _, fn := range hooks {
		fn(t, outcome)
	}
}
