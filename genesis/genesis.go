// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/gagliardetto/solana-go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// CounterSeed is the seed the counter account of a payer is derived with.
const CounterSeed = "counter"

// Allocation is an account created when genesis is loaded.
type Allocation struct {
	Address solana.PublicKey `json:"address"`
	Owner   solana.PublicKey `json:"owner"`
	Space   uint32           `json:"space"`
	// Optional initial contents. Zero filled up to [Space].
	Data []byte `json:"data,omitempty"`
}

type Genesis struct {
	Accounts []*Allocation `json:"accounts"`
}

func New(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, err
	}
	if err := g.Verify(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewCounterAllocation returns the allocation of [payer]'s counter account.
func NewCounterAllocation(payer solana.PublicKey) (*Allocation, error) {
	addr, err := CounterAddress(payer)
	if err != nil {
		return nil, err
	}
	return &Allocation{
		Address: addr,
		Owner:   counter.ProgramID,
		Space:   counter.Size,
	}, nil
}

func CounterAddress(payer solana.PublicKey) (solana.PublicKey, error) {
	return solana.CreateWithSeed(payer, CounterSeed, counter.ProgramID)
}

func (g *Genesis) Verify() error {
	seen := make(map[solana.PublicKey]struct{}, len(g.Accounts))
	for _, a := range g.Accounts {
		if _, ok := seen[a.Address]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAddress, a.Address)
		}
		seen[a.Address] = struct{}{}
		if a.Space > storage.MaxAccountDataLen {
			return fmt.Errorf("%w: %s space=%d", ErrSpaceTooLarge, a.Address, a.Space)
		}
		if len(a.Data) > int(a.Space) {
			return fmt.Errorf("%w: %s len=%d space=%d", ErrDataExceedsSpace, a.Address, len(a.Data), a.Space)
		}
	}
	return nil
}

// Load allocates every account of [g] that does not exist in [mu] and
// returns how many were created.
func (g *Genesis) Load(ctx context.Context, tracer trace.Tracer, mu state.Mutable) (int, error) {
	ctx, span := tracer.Start(ctx, "Genesis.Load", oteltrace.WithAttributes(
		attribute.Int("accounts", len(g.Accounts)),
	))
	defer span.End()

	if err := g.Verify(); err != nil {
		return 0, err
	}
	created := 0
	for _, a := range g.Accounts {
		_, exists, err := storage.GetAccount(ctx, mu, a.Address)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		data := make([]byte, a.Space)
		copy(data, a.Data)
		if err := storage.SetAccount(ctx, mu, a.Address, &storage.Account{
			Owner: a.Owner,
			Data:  data,
		}); err != nil {
			return created, fmt.Errorf("%w: address=%s", err, a.Address)
		}
		created++
	}
	return created, nil
}
