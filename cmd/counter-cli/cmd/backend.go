// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/genesis"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/utils"
)

// withBackend establishes the connection (a node when an endpoint is
// configured, the local store otherwise), checks the counter program and
// runs [f] against [payer]'s counter account.
func withBackend(
	ctx context.Context,
	payer solana.PublicKey,
	allocate bool,
	f func(b rpc.Backend, addr solana.PublicKey) error,
) error {
	if cfg.Endpoint != "" {
		utils.Outf("{{yellow}}establishing connection:{{/}} %s\n", cfg.Endpoint)
		client := rpc.NewJSONRPCClient(cfg.Endpoint)
		if _, err := client.Ping(ctx); err != nil {
			return err
		}
		addr, err := genesis.CounterAddress(payer)
		if err != nil {
			return err
		}
		if err := cli.CheckCounter(ctx, client, addr); err != nil {
			return err
		}
		return f(client, addr)
	}

	return withHandler(func(h *cli.Handler) error {
		utils.Outf("{{yellow}}establishing connection:{{/}} %s\n", cfg.DatabaseDir)
		created, err := h.Connect(ctx)
		if err != nil {
			return err
		}
		if created > 0 {
			utils.Outf("{{yellow}}genesis accounts created:{{/}} %d\n", created)
		}
		addr, err := genesis.CounterAddress(payer)
		if err != nil {
			return err
		}
		if allocate {
			var allocated bool
			addr, allocated, err = h.CheckProgram(ctx, payer)
			if err != nil {
				return err
			}
			if allocated {
				utils.Outf("{{yellow}}created counter account:{{/}} %s\n", addr)
			}
		}
		return f(h.Runtime(), addr)
	})
}
