// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/genesis"
)

// testFlags points every command at a fresh directory and silences the
// console logger.
func testFlags(t *testing.T) []string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"logDir": "`+filepath.Join(dir, "logs")+`",
		"pebble": {"sync": false}
	}`), 0o600))
	return []string{
		"--config", configPath,
		"--database", filepath.Join(dir, "db"),
		"--keypair", filepath.Join(dir, "id.json"),
		"--genesis-file", filepath.Join(dir, "genesis.json"),
		"--quiet",
	}
}

func execute(flags []string, args ...string) error {
	rootCmd.SetArgs(append(args, flags...))
	return Execute()
}

func TestIncrementThenState(t *testing.T) {
	require := require.New(t)
	flags := testFlags(t)

	require.NoError(execute(flags, "key", "generate", "--force"))
	require.NoError(execute(flags, "genesis", "generate"))
	require.NoError(execute(flags, "increment", "--times", "3"))
	require.NoError(execute(flags, "state"))
	require.NoError(execute(flags, "key", "show"))
	require.True(cfg.Quiet)

	payer, created, err := cli.LoadPayer(cfg.KeypairPath, false)
	require.NoError(err)
	require.False(created)
	addr, err := genesis.CounterAddress(payer.PublicKey())
	require.NoError(err)

	h, err := cli.New(cfg, prometheus.NewRegistry())
	require.NoError(err)
	defer func() {
		require.NoError(h.Close())
	}()
	count, err := cli.Count(context.Background(), h.Runtime(), addr)
	require.NoError(err)
	require.Equal(uint32(3), count)
}

func TestStateWithoutKeypair(t *testing.T) {
	require := require.New(t)

	require.Error(execute(testFlags(t), "state"))
	require.ErrorIs(execute(testFlags(t), "key"), ErrMissingSubcommand)
}
