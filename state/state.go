// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "context"

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_state.go . Mutable

// Missing keys are reported with [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}
