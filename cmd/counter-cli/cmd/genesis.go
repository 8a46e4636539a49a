// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
)

var genesisCmd = &cobra.Command{
	Use: "genesis",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genGenesisCmd = &cobra.Command{
	Use:   "generate",
	Short: "Creates a genesis allocating the payer's counter account",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 0 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		key, _, err := cli.LoadPayer(cfg.KeypairPath, true)
		if err != nil {
			return err
		}
		if _, err := cli.GenerateGenesis(cfg.GenesisFile, key.PublicKey()); err != nil {
			return err
		}
		color.Green("created genesis and saved to %s", cfg.GenesisFile)
		return nil
	},
}
