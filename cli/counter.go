// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/genesis"
	"github.com/ava-labs/countervm/program"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/runtime"
)

// CheckProgram ensures the counter program can be invoked and that [payer]
// has a counter account, allocating one if needed. It returns the counter
// address and whether it was just created.
func (h *Handler) CheckProgram(ctx context.Context, payer solana.PublicKey) (solana.PublicKey, bool, error) {
	if _, ok := h.registry.Get(counter.ProgramID); !ok {
		return solana.PublicKey{}, false, fmt.Errorf("%w: %s", ErrProgramNotDeployed, counter.ProgramID)
	}
	alloc, err := genesis.NewCounterAllocation(payer)
	if err != nil {
		return solana.PublicKey{}, false, err
	}
	g := &genesis.Genesis{Accounts: []*genesis.Allocation{alloc}}
	created, err := g.Load(ctx, h.tracer, h.db)
	if err != nil {
		return solana.PublicKey{}, false, err
	}
	if created > 0 {
		h.log.Info("created counter account",
			zap.Stringer("payer", payer),
			zap.Stringer("address", alloc.Address),
		)
	}
	return alloc.Address, created > 0, nil
}

// CheckCounter verifies through [b] that [addr] is a counter account.
func CheckCounter(ctx context.Context, b rpc.Backend, addr solana.PublicKey) error {
	a, exists, err := b.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: no counter account %s", ErrProgramNotDeployed, addr)
	}
	if !a.Owner.Equals(counter.ProgramID) {
		return fmt.Errorf("%w: %s is owned by %s", program.ErrIncorrectOwner, addr, a.Owner)
	}
	return nil
}

// Increment invokes the counter program on [addr] [times] times through
// [b]. Results are returned in submission order.
func Increment(
	ctx context.Context,
	b rpc.Backend,
	payer solana.PublicKey,
	addr solana.PublicKey,
	times int,
) ([]*runtime.Result, error) {
	if times < 1 {
		return nil, ErrInvalidTimes
	}
	ix := solana.NewInstruction(
		counter.ProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(addr, true, false),
			solana.NewAccountMeta(payer, false, true),
		},
		nil,
	)

	results := make([]*runtime.Result, times)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < times; i++ {
		i := i
		g.Go(func() error {
			res, err := b.Invoke(gctx, ix)
			results[i] = res
			return err
		})
	}
	return results, g.Wait()
}

// Count returns the number of times the counter at [addr] was incremented.
func Count(ctx context.Context, b rpc.Backend, addr solana.PublicKey) (uint32, error) {
	a, exists, err := b.GetAccount(ctx, addr)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: no counter account %s", ErrProgramNotDeployed, addr)
	}
	c, err := counter.Decode(a.Data)
	if err != nil {
		return 0, err
	}
	return c.Counter, nil
}
