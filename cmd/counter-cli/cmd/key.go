// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/cli/prompt"
	"github.com/ava-labs/countervm/genesis"
	"github.com/ava-labs/countervm/utils"
)

var keyCmd = &cobra.Command{
	Use: "key",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genKeyCmd = &cobra.Command{
	Use:   "generate",
	Short: "Creates a new payer keypair",
	RunE: func(*cobra.Command, []string) error {
		if _, err := os.Stat(cfg.KeypairPath); err == nil && !force {
			utils.Outf("{{yellow}}keypair already exists:{{/}} %s\n", cfg.KeypairPath)
			overwrite, err := prompt.Bool("overwrite")
			if err != nil {
				return err
			}
			if !overwrite {
				return nil
			}
		}
		key, err := cli.GenerateKey(cfg.KeypairPath)
		if err != nil {
			return err
		}
		utils.Outf(
			"{{green}}created keypair:{{/}} %s {{green}}saved to:{{/}} %s\n",
			key.PublicKey(),
			cfg.KeypairPath,
		)
		return nil
	},
}

var showKeyCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the payer and its counter account",
	RunE: func(*cobra.Command, []string) error {
		key, _, err := cli.LoadPayer(cfg.KeypairPath, false)
		if err != nil {
			return err
		}
		addr, err := genesis.CounterAddress(key.PublicKey())
		if err != nil {
			return err
		}
		utils.Outf("{{cyan}}payer:{{/}} %s\n", key.PublicKey())
		utils.Outf("{{cyan}}counter:{{/}} %s\n", addr)
		return nil
	},
}
