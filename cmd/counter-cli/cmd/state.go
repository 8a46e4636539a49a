// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/utils"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Reports how many times the payer's counter was incremented",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		payer, _, err := cli.LoadPayer(cfg.KeypairPath, false)
		if err != nil {
			return err
		}
		return withBackend(ctx, payer.PublicKey(), false, func(b rpc.Backend, addr solana.PublicKey) error {
			count, err := cli.Count(ctx, b, addr)
			if err != nil {
				return err
			}
			utils.Outf("{{cyan}}%s{{/}} Counter has been incremented %d time(s)\n", addr, count)
			return nil
		})
	},
}
