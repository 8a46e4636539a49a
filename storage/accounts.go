// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
)

const (
	accountPrefix = 0x0

	MaxAccountDataLen = 10 * units.MiB
)

// Account is the host's record of an account: the program that owns it and
// its fixed-size data region.
type Account struct {
	Owner solana.PublicKey
	Data  []byte
}

// [accountPrefix] + [address]
func AccountKey(address solana.PublicKey) (k []byte) {
	k = make([]byte, 1+consts.PublicKeyLen)
	k[0] = accountPrefix
	copy(k[1:], address[:])
	return
}

// MarshalAccount encodes [owner] + [dataLen] + [data].
func MarshalAccount(a *Account) ([]byte, error) {
	if len(a.Data) > MaxAccountDataLen {
		return nil, fmt.Errorf("%w: data length %d exceeds %d", ErrInvalidAccount, len(a.Data), MaxAccountDataLen)
	}
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, consts.PublicKeyLen+wrappers.IntLen+len(a.Data)),
		MaxSize: consts.PublicKeyLen + wrappers.IntLen + MaxAccountDataLen,
	}
	p.PackFixedBytes(a.Owner[:])
	p.PackBytes(a.Data)
	return p.Bytes, p.Err
}

func UnmarshalAccount(b []byte) (*Account, error) {
	p := &wrappers.Packer{Bytes: b}
	a := &Account{}
	copy(a.Owner[:], p.UnpackFixedBytes(consts.PublicKeyLen))
	a.Data = p.UnpackLimitedBytes(MaxAccountDataLen)
	if p.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccount, p.Err)
	}
	if p.Offset != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidAccount, len(b)-p.Offset)
	}
	return a, nil
}

// GetAccount returns the account at [address] and whether it exists.
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	address solana.PublicKey,
) (*Account, bool, error) {
	v, err := im.GetValue(ctx, AccountKey(address))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a, err := UnmarshalAccount(v)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	address solana.PublicKey,
	account *Account,
) error {
	v, err := MarshalAccount(account)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(address), v)
}
