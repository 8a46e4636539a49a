// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/countervm/state"
)

var _ state.Mutable = (*Database)(nil)

type Config struct {
	CacheSize int  `json:"cacheSize"`
	Sync      bool `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize: 64 * units.MiB,
		Sync:      true,
	}
}

// Database is a [state.Mutable] persisted with pebble. It is safe to call
// [Database.Close] while other calls are in flight.
type Database struct {
	db      *pebble.DB
	writeOp *pebble.WriteOptions
	metrics *metrics
	closing chan struct{}

	// [lock] is held for reading across every use of [db] and for writing
	// while closing it.
	lock   sync.RWMutex
	closed bool
}

func New(file string, cfg Config, registerer prometheus.Registerer) (*Database, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	db := &Database{
		writeOp: pebble.NoSync,
		metrics: m,
		closing: make(chan struct{}),
	}
	if cfg.Sync {
		db.writeOp = pebble.Sync
	}

	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache: cache,
		EventListener: &pebble.EventListener{
			CompactionBegin: db.onCompactionBegin,
			CompactionEnd:   db.onCompactionEnd,
			WriteStallBegin: db.onWriteStallBegin,
			WriteStallEnd:   db.onWriteStallEnd,
		},
	}
	d, err := pebble.Open(file, opts)
	if err != nil {
		return nil, err
	}
	db.db = d
	go db.collectMetrics()
	return db, nil
}

func (db *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(time.Since(start).Seconds())
	}()

	data, closer, err := db.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	value := make([]byte, len(data))
	copy(value, data)
	return value, nil
}

func (db *Database) Insert(_ context.Context, key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	db.metrics.writes.Inc()
	return db.db.Set(key, value, db.writeOp)
}

func (db *Database) Remove(_ context.Context, key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	db.metrics.deletes.Inc()
	return db.db.Delete(key, db.writeOp)
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	close(db.closing)
	return db.db.Close()
}
