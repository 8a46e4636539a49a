// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/genesis"
)

// GenerateGenesis writes a genesis allocating the counter account of
// [payer] to [path].
func GenerateGenesis(path string, payer solana.PublicKey) (*genesis.Genesis, error) {
	alloc, err := genesis.NewCounterAllocation(payer)
	if err != nil {
		return nil, err
	}
	g := &genesis.Genesis{Accounts: []*genesis.Allocation{alloc}}
	b, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, err
	}
	return g, os.WriteFile(path, b, perms.ReadWrite)
}

// Connect prepares the local store: the genesis file, if present, is
// applied to it. It returns how many accounts were created.
func (h *Handler) Connect(ctx context.Context) (int, error) {
	b, err := os.ReadFile(h.c.GenesisFile)
	if errors.Is(err, os.ErrNotExist) {
		h.log.Debug("no genesis file", zap.String("path", h.c.GenesisFile))
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	g, err := genesis.New(b)
	if err != nil {
		return 0, err
	}
	created, err := g.Load(ctx, h.tracer, h.db)
	if err != nil {
		return 0, err
	}
	h.log.Info("applied genesis",
		zap.String("path", h.c.GenesisFile),
		zap.Int("created", created),
	)
	return created, nil
}
