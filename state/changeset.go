// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var _ Mutable = (*ChangeSet)(nil)

type changeOp struct {
	value  []byte
	delete bool
}

// ChangeSet buffers writes on top of a parent [Mutable]. Reads observe the
// pending writes. Nothing reaches the parent until [ChangeSet.Commit]; a
// change set that is never committed leaves the parent untouched.
type ChangeSet struct {
	parent  Mutable
	changes map[string]*changeOp
}

func NewChangeSet(parent Mutable) *ChangeSet {
	return &ChangeSet{parent: parent, changes: make(map[string]*changeOp)}
}

func (c *ChangeSet) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if op, ok := c.changes[string(key)]; ok {
		if op.delete {
			return nil, database.ErrNotFound
		}
		return op.value, nil
	}
	return c.parent.GetValue(ctx, key)
}

func (c *ChangeSet) Insert(_ context.Context, key []byte, value []byte) error {
	c.changes[string(key)] = &changeOp{value: value}
	return nil
}

func (c *ChangeSet) Remove(_ context.Context, key []byte) error {
	c.changes[string(key)] = &changeOp{delete: true}
	return nil
}

// Len returns the number of pending key changes.
func (c *ChangeSet) Len() int {
	return len(c.changes)
}

// Commit applies pending changes to the parent in key order and clears the
// change set.
func (c *ChangeSet) Commit(ctx context.Context) error {
	keys := maps.Keys(c.changes)
	slices.Sort(keys)
	for _, k := range keys {
		op := c.changes[k]
		var err error
		if op.delete {
			err = c.parent.Remove(ctx, []byte(k))
		} else {
			err = c.parent.Insert(ctx, []byte(k), op.value)
		}
		if err != nil {
			return err
		}
	}
	c.changes = make(map[string]*changeOp)
	return nil
}
