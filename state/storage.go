// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Mutable = MutableStorage(nil)
	_ Mutable = (*Database)(nil)
)

// MutableStorage implements [Mutable] over a plain map. It is not safe for
// concurrent use.
type MutableStorage map[string][]byte

func (m MutableStorage) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	if v, has := m[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

func (m MutableStorage) Insert(_ context.Context, key []byte, value []byte) error {
	m[string(key)] = value
	return nil
}

func (m MutableStorage) Remove(_ context.Context, key []byte) error {
	delete(m, string(key))
	return nil
}

// Database adapts an avalanchego [database.KeyValueReaderWriterDeleter] (for
// example memdb) to [Mutable].
type Database struct {
	db database.KeyValueReaderWriterDeleter
}

func NewDatabase(db database.KeyValueReaderWriterDeleter) *Database {
	return &Database{db: db}
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return d.db.Get(key)
}

func (d *Database) Insert(_ context.Context, key []byte, value []byte) error {
	return d.db.Put(key, value)
}

func (d *Database) Remove(_ context.Context, key []byte) error {
	return d.db.Delete(key)
}
