// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/program"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/utils"
)

var incrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "Invokes the counter program on the payer's counter account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		payer, generated, err := cli.LoadPayer(cfg.KeypairPath, true)
		if err != nil {
			return err
		}
		if generated {
			utils.Outf("{{yellow}}created payer keypair:{{/}} %s\n", cfg.KeypairPath)
		}
		utils.Outf("{{cyan}}payer:{{/}} %s\n", payer.PublicKey())

		return withBackend(ctx, payer.PublicKey(), true, func(b rpc.Backend, addr solana.PublicKey) error {
			utils.Outf("{{cyan}}counter:{{/}} %s\n", addr)
			results, err := cli.Increment(ctx, b, payer.PublicKey(), addr, times)
			for _, res := range results {
				if res == nil {
					continue
				}
				for _, line := range res.Logs {
					utils.Outf("  %s\n", line)
				}
				if res.LogsTruncated {
					utils.Outf("  {{yellow}}(earlier log lines dropped){{/}}\n")
				}
				if res.Code != program.CodeSuccess {
					utils.Outf("{{red}}invocation failed:{{/}} %s\n", res.Code)
				}
			}
			if err != nil {
				return err
			}

			count, err := cli.Count(ctx, b, addr)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}Counter has been incremented %d time(s){{/}}\n", count)
			return nil
		})
	},
}
