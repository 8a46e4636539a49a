// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/countervm/runtime"
	"github.com/ava-labs/countervm/storage"
)

var _ Backend = (*runtime.Runtime)(nil)

// Backend executes invocations and serves committed accounts.
type Backend interface {
	Invoke(ctx context.Context, ix solana.Instruction) (*runtime.Result, error)
	GetAccount(ctx context.Context, address solana.PublicKey) (*storage.Account, bool, error)
}
