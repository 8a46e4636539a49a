// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/config"
)

var (
	configFile  string
	databaseDir string
	keypairPath string
	genesisFile string
	endpoint    string
	quiet       bool

	times int
	force bool

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:        "counter-cli",
		Short:      "Counter program CLI",
		SuggestFor: []string{"counter-cli", "countercli"},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadConfig()
		},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&databaseDir, "database", "", "database directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&keypairPath, "keypair", "", "payer keypair file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&genesisFile, "genesis-file", "", "genesis file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "node URI; the local store is used when empty (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "only write logs to the log directory")

	rootCmd.AddCommand(
		keyCmd,
		genesisCmd,
		incrementCmd,
		stateCmd,
		serveCmd,
	)

	// key
	keyCmd.AddCommand(
		genKeyCmd,
		showKeyCmd,
	)
	genKeyCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing keypair without asking")

	// genesis
	genesisCmd.AddCommand(
		genGenesisCmd,
	)

	incrementCmd.Flags().IntVar(&times, "times", 1, "number of increments")
}

func loadConfig() error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if databaseDir != "" {
		c.DatabaseDir = databaseDir
	}
	if keypairPath != "" {
		c.KeypairPath = keypairPath
	}
	if genesisFile != "" {
		c.GenesisFile = genesisFile
	}
	if endpoint != "" {
		c.Endpoint = endpoint
	}
	if quiet {
		c.Quiet = true
	}
	cfg = c
	return nil
}

// withHandler opens the local store for the duration of [f].
func withHandler(f func(h *cli.Handler) error) error {
	h, err := cli.New(cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	if err := f(h); err != nil {
		_ = h.Close()
		return err
	}
	return h.Close()
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
