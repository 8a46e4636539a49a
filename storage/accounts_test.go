// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/state"
)

func TestAccountKey(t *testing.T) {
	require := require.New(t)

	addr := solana.NewWallet().PublicKey()
	k := AccountKey(addr)
	require.Len(k, 33)
	require.Equal(byte(accountPrefix), k[0])
	require.Equal(addr[:], k[1:])
}

func TestMarshalAccount(t *testing.T) {
	require := require.New(t)

	a := &Account{Owner: solana.NewWallet().PublicKey(), Data: []byte{1, 0, 0, 0}}
	b, err := MarshalAccount(a)
	require.NoError(err)
	require.Len(b, 32+4+4)

	got, err := UnmarshalAccount(b)
	require.NoError(err)
	require.Equal(a, got)

	_, err = UnmarshalAccount(b[:10])
	require.ErrorIs(err, ErrInvalidAccount)
	_, err = UnmarshalAccount(append(b, 0x00))
	require.ErrorIs(err, ErrInvalidAccount)
}

func TestGetSetAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	db := state.NewDatabase(memdb.New())
	addr := solana.NewWallet().PublicKey()

	_, exists, err := GetAccount(ctx, db, addr)
	require.NoError(err)
	require.False(exists)

	a := &Account{Owner: solana.SystemProgramID, Data: make([]byte, 4)}
	require.NoError(SetAccount(ctx, db, addr, a))
	got, exists, err := GetAccount(ctx, db, addr)
	require.NoError(err)
	require.True(exists)
	require.Equal(a, got)
}

func TestCorruptAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	db := state.MutableStorage{}
	addr := solana.NewWallet().PublicKey()
	require.NoError(db.Insert(ctx, AccountKey(addr), []byte{0x01}))

	_, _, err := GetAccount(ctx, db, addr)
	require.ErrorIs(err, ErrInvalidAccount)
}

func TestNewOnDisk(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	db, err := New(pebble.NewDefaultConfig(), t.TempDir(), prometheus.NewRegistry())
	require.NoError(err)
	defer db.Close()

	addr := solana.NewWallet().PublicKey()
	a := &Account{Owner: solana.SystemProgramID, Data: []byte{9, 9}}
	require.NoError(SetAccount(ctx, db, addr, a))
	got, exists, err := GetAccount(ctx, db, addr)
	require.NoError(err)
	require.True(exists)
	require.Equal(a, got)
}
