// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/program"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/trace"
)

type testEnv struct {
	rt       *Runtime
	db       state.Mutable
	registry *program.Registry
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	registry := program.NewRegistry()
	require.NoError(t, counter.Register(registry))
	db := state.NewDatabase(memdb.New())
	rt, err := New(logging.NoLog{}, trace.Noop("test"), registry, db, cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	return &testEnv{rt: rt, db: db, registry: registry}
}

func (e *testEnv) put(t *testing.T, owner solana.PublicKey, data []byte) solana.PublicKey {
	t.Helper()

	addr := solana.NewWallet().PublicKey()
	require.NoError(t, storage.SetAccount(context.Background(), e.db, addr, &storage.Account{
		Owner: owner,
		Data:  data,
	}))
	return addr
}

func (e *testEnv) data(t *testing.T, addr solana.PublicKey) []byte {
	t.Helper()

	a, exists, err := e.rt.GetAccount(context.Background(), addr)
	require.NoError(t, err)
	require.True(t, exists)
	return a.Data
}

func increment(addr solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		counter.ProgramID,
		solana.AccountMetaSlice{solana.NewAccountMeta(addr, true, false)},
		nil,
	)
}

func TestInvokeIncrements(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	addr := env.put(t, counter.ProgramID, []byte{0x00, 0x00, 0x00, 0x00})

	res, err := env.rt.Invoke(context.Background(), increment(addr))
	require.NoError(err)
	require.Equal(program.CodeSuccess, res.Code)
	require.Equal(1, res.AccountsWritten)
	require.False(res.LogsTruncated)
	require.Equal([]string{
		fmt.Sprintf("Program %s invoke", counter.ProgramID),
		"Program log: Counter state: 1",
		fmt.Sprintf("Program %s success", counter.ProgramID),
	}, res.Logs)
	require.Equal([]byte{0x01, 0x00, 0x00, 0x00}, env.data(t, addr))

	res, err = env.rt.Invoke(context.Background(), increment(addr))
	require.NoError(err)
	require.Contains(res.Logs, "Program log: Counter state: 2")
	require.Equal([]byte{0x02, 0x00, 0x00, 0x00}, env.data(t, addr))

	require.Equal(float64(2), testutil.ToFloat64(env.rt.metrics.invocations))
	require.Equal(float64(2), testutil.ToFloat64(env.rt.metrics.accountsWritten))
}

func TestInvokeWrapsAround(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	addr := env.put(t, counter.ProgramID, []byte{0xff, 0xff, 0xff, 0xff})

	res, err := env.rt.Invoke(context.Background(), increment(addr))
	require.NoError(err)
	require.Contains(res.Logs, "Program log: Counter state: 0")
	require.Equal([]byte{0x00, 0x00, 0x00, 0x00}, env.data(t, addr))
}

func TestInvokeIncorrectOwner(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	other := solana.NewWallet().PublicKey()
	addr := env.put(t, other, []byte{0x05, 0x00, 0x00, 0x00})

	res, err := env.rt.Invoke(context.Background(), increment(addr))
	require.ErrorIs(err, program.ErrIncorrectOwner)
	require.Equal(program.CodeIncorrectOwner, res.Code)
	require.Zero(res.AccountsWritten)
	require.Contains(res.Logs, "Program log: Greeted account does not have the correct program id")
	require.Equal([]byte{0x05, 0x00, 0x00, 0x00}, env.data(t, addr))
	require.Equal(float64(1), testutil.ToFloat64(env.rt.metrics.failures.WithLabelValues("IncorrectOwner")))
}

func TestInvokeMissingAccount(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	ix := solana.NewInstruction(counter.ProgramID, solana.AccountMetaSlice{}, nil)

	res, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, program.ErrMissingAccount)
	require.Equal(program.CodeMissingAccount, res.Code)
}

func TestInvokeUnallocatedAccount(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	addr := solana.NewWallet().PublicKey()

	_, err := env.rt.Invoke(context.Background(), increment(addr))
	require.ErrorIs(err, program.ErrIncorrectOwner)

	_, exists, err := env.rt.GetAccount(context.Background(), addr)
	require.NoError(err)
	require.False(exists)
}

func TestInvokeMalformedBuffer(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	addr := env.put(t, counter.ProgramID, []byte{0x01, 0x02})

	res, err := env.rt.Invoke(context.Background(), increment(addr))
	require.ErrorIs(err, program.ErrDecode)
	require.Equal(program.CodeDecodeError, res.Code)
	require.Equal([]byte{0x01, 0x02}, env.data(t, addr))
}

func TestInvokeReadonlyAccount(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	addr := env.put(t, counter.ProgramID, []byte{0x07, 0x00, 0x00, 0x00})
	ix := solana.NewInstruction(
		counter.ProgramID,
		solana.AccountMetaSlice{solana.NewAccountMeta(addr, false, false)},
		nil,
	)

	res, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, program.ErrReadonlyDataModified)
	require.Equal(program.CodeReadonlyDataModified, res.Code)
	require.Equal([]byte{0x07, 0x00, 0x00, 0x00}, env.data(t, addr))
}

func TestInvokeDuplicateAccountsShareInfo(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	addr := env.put(t, counter.ProgramID, []byte{0x00, 0x00, 0x00, 0x00})
	ix := solana.NewInstruction(
		counter.ProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(addr, false, false),
			solana.NewAccountMeta(addr, true, true),
		},
		nil,
	)

	res, err := env.rt.Invoke(context.Background(), ix)
	require.NoError(err)
	require.Equal(1, res.AccountsWritten)
	require.Equal([]byte{0x01, 0x00, 0x00, 0x00}, env.data(t, addr))
}

func TestInvokeUnknownProgram(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	ix := solana.NewInstruction(solana.NewWallet().PublicKey(), solana.AccountMetaSlice{}, nil)

	res, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, program.ErrProgramNotFound)
	require.Equal(program.CodeProgramNotFound, res.Code)
	require.Empty(res.Logs)
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero log lines", Config{MaxAccounts: 64, MaxLogLines: 0}},
		{"zero accounts", Config{MaxAccounts: 0, MaxLogLines: 128}},
		{"negative accounts", Config{MaxAccounts: -1, MaxLogLines: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			registry := program.NewRegistry()
			require.NoError(counter.Register(registry))
			db := state.NewDatabase(memdb.New())
			_, err := New(logging.NoLog{}, trace.Noop("test"), registry, db, tt.cfg, prometheus.NewRegistry())
			require.ErrorIs(err, ErrInvalidConfig)
		})
	}
}

func TestInvokeSingleLogLine(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, Config{MaxAccounts: 1, MaxLogLines: 1})
	addr := env.put(t, counter.ProgramID, make([]byte, 4))

	res, err := env.rt.Invoke(context.Background(), increment(addr))
	require.NoError(err)
	require.Equal(program.CodeSuccess, res.Code)
	require.Equal([]string{fmt.Sprintf("Program %s success", counter.ProgramID)}, res.Logs)
	require.True(res.LogsTruncated)
	require.Equal([]byte{1, 0, 0, 0}, env.data(t, addr))
}

func TestInvokeTooManyAccounts(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.MaxAccounts = 1
	env := newTestEnv(t, cfg)
	ix := solana.NewInstruction(counter.ProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.NewWallet().PublicKey(), true, false),
		solana.NewAccountMeta(solana.NewWallet().PublicKey(), true, false),
	}, nil)

	res, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, ErrTooManyAccounts)
	require.Equal(program.CodeUnknown, res.Code)
}

func TestInvokeCanceledContext(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	addr := env.put(t, counter.ProgramID, make([]byte, counter.Size))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.rt.Invoke(ctx, increment(addr))
	require.ErrorIs(err, context.Canceled)
	require.Equal(make([]byte, counter.Size), env.data(t, addr))
}

func TestInvokeConcurrent(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	shared := env.put(t, counter.ProgramID, make([]byte, counter.Size))
	other := env.put(t, counter.ProgramID, make([]byte, counter.Size))

	const n = 50
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		addr := shared
		if i%5 == 0 {
			addr = other
		}
		g.Go(func() error {
			_, err := env.rt.Invoke(ctx, increment(addr))
			return err
		})
	}
	require.NoError(g.Wait())

	c, err := counter.Decode(env.data(t, shared))
	require.NoError(err)
	require.Equal(uint32(40), c.Counter)
	c, err = counter.Decode(env.data(t, other))
	require.NoError(err)
	require.Equal(uint32(10), c.Counter)
	require.Zero(env.rt.locks.Locks())
}

// The entrypoints below exercise host checks the counter program never trips.

func registerTestProgram(t *testing.T, env *testEnv, ep program.Entrypoint) solana.PublicKey {
	t.Helper()

	id := solana.NewWallet().PublicKey()
	require.NoError(t, env.registry.Register(id, t.Name(), ep))
	return id
}

func writeFirstByte(accounts []*program.AccountInfo, idx int) error {
	data, release, err := accounts[idx].TryBorrowMutData()
	if err != nil {
		return err
	}
	defer release()
	data[0]++
	return nil
}

func TestInvokeExternalAccountDataModified(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	id := registerTestProgram(t, env, func(_ program.Logger, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
		return writeFirstByte(accounts, 0)
	})
	addr := env.put(t, counter.ProgramID, []byte{0x00})

	ix := solana.NewInstruction(id, solana.AccountMetaSlice{solana.NewAccountMeta(addr, true, false)}, nil)
	res, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, program.ErrExternalAccountDataModified)
	require.Equal(program.CodeExternalAccountDataModified, res.Code)
	require.Equal([]byte{0x00}, env.data(t, addr))
}

func TestInvokeFailureDiscardsEarlierWrites(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	id := registerTestProgram(t, env, func(_ program.Logger, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
		if err := writeFirstByte(accounts, 0); err != nil {
			return err
		}
		return writeFirstByte(accounts, 1)
	})
	owned := env.put(t, id, []byte{0x00})
	readonly := env.put(t, id, []byte{0x00})

	ix := solana.NewInstruction(id, solana.AccountMetaSlice{
		solana.NewAccountMeta(owned, true, false),
		solana.NewAccountMeta(readonly, false, false),
	}, nil)
	_, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, program.ErrReadonlyDataModified)
	require.Equal([]byte{0x00}, env.data(t, owned))
	require.Equal([]byte{0x00}, env.data(t, readonly))
}

func TestInvokeOwnerModified(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	id := registerTestProgram(t, env, func(_ program.Logger, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
		accounts[0].Owner = solana.SystemProgramID
		return nil
	})
	addr := env.put(t, id, []byte{0x00})

	ix := solana.NewInstruction(id, solana.AccountMetaSlice{solana.NewAccountMeta(addr, true, false)}, nil)
	_, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, ErrOwnerModified)

	a, _, err := env.rt.GetAccount(context.Background(), addr)
	require.NoError(err)
	require.Equal(id, a.Owner)
}

func TestInvokeBorrowOutstanding(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	id := registerTestProgram(t, env, func(_ program.Logger, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
		data, _, err := accounts[0].TryBorrowMutData()
		if err != nil {
			return err
		}
		data[0] = 0xff
		return nil
	})
	addr := env.put(t, id, []byte{0x00})

	ix := solana.NewInstruction(id, solana.AccountMetaSlice{solana.NewAccountMeta(addr, true, false)}, nil)
	_, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, ErrBorrowOutstanding)
	require.Equal([]byte{0x00}, env.data(t, addr))
}

func TestInvokePanic(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	id := registerTestProgram(t, env, func(program.Logger, solana.PublicKey, []*program.AccountInfo, []byte) error {
		panic("boom")
	})

	ix := solana.NewInstruction(id, solana.AccountMetaSlice{}, nil)
	res, err := env.rt.Invoke(context.Background(), ix)
	require.ErrorIs(err, program.ErrProgramPanicked)
	require.Equal(program.CodeProgramPanicked, res.Code)
	require.Zero(env.rt.locks.Locks())
}

func TestInvokeLogTruncation(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.MaxLogLines = 3
	env := newTestEnv(t, cfg)
	id := registerTestProgram(t, env, func(log program.Logger, _ solana.PublicKey, _ []*program.AccountInfo, _ []byte) error {
		for i := 0; i < 5; i++ {
			log.Msgf("line %d", i)
		}
		return nil
	})

	ix := solana.NewInstruction(id, solana.AccountMetaSlice{}, nil)
	res, err := env.rt.Invoke(context.Background(), ix)
	require.NoError(err)
	require.True(res.LogsTruncated)
	require.Equal([]string{
		"Program log: line 3",
		"Program log: line 4",
		fmt.Sprintf("Program %s success", id),
	}, res.Logs)
}

func TestInvokePassesInstructionData(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, NewDefaultConfig())
	var got []byte
	id := registerTestProgram(t, env, func(_ program.Logger, _ solana.PublicKey, _ []*program.AccountInfo, data []byte) error {
		got = data
		return nil
	})

	ix := solana.NewInstruction(id, solana.AccountMetaSlice{}, []byte{1, 2, 3})
	_, err := env.rt.Invoke(context.Background(), ix)
	require.NoError(err)
	require.Equal([]byte{1, 2, 3}, got)
}

func newMockRuntime(t *testing.T) (*Runtime, *state.MockMutable) {
	t.Helper()

	ctrl := gomock.NewController(t)
	db := state.NewMockMutable(ctrl)
	registry := program.NewRegistry()
	require.NoError(t, counter.Register(registry))
	rt, err := New(logging.NoLog{}, trace.Noop("test"), registry, db, NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(t, err)
	return rt, db
}

func TestInvokeStorageReadFailure(t *testing.T) {
	require := require.New(t)

	rt, db := newMockRuntime(t)
	errDisk := errors.New("disk failure")
	db.EXPECT().GetValue(gomock.Any(), gomock.Any()).Return(nil, errDisk)

	res, err := rt.Invoke(context.Background(), increment(solana.NewWallet().PublicKey()))
	require.ErrorIs(err, errDisk)
	require.Equal(program.CodeUnknown, res.Code)
	require.Empty(res.Logs)
}

func TestInvokeCommitFailure(t *testing.T) {
	require := require.New(t)

	rt, db := newMockRuntime(t)
	addr := solana.NewWallet().PublicKey()
	stored, err := storage.MarshalAccount(&storage.Account{
		Owner: counter.ProgramID,
		Data:  make([]byte, counter.Size),
	})
	require.NoError(err)

	errDisk := errors.New("disk failure")
	db.EXPECT().GetValue(gomock.Any(), storage.AccountKey(addr)).Return(stored, nil)
	db.EXPECT().Insert(gomock.Any(), storage.AccountKey(addr), gomock.Any()).Return(errDisk)

	res, err := rt.Invoke(context.Background(), increment(addr))
	require.ErrorIs(err, errDisk)
	require.Equal(program.CodeUnknown, res.Code)
	require.Zero(res.AccountsWritten)
	require.Equal(float64(1), testutil.ToFloat64(rt.metrics.failures.WithLabelValues("Unknown")))
}
