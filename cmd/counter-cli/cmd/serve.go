// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the local store over JSON-RPC until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withHandler(func(h *cli.Handler) error {
			created, err := h.Connect(ctx)
			if err != nil {
				return err
			}
			if created > 0 {
				utils.Outf("{{yellow}}genesis accounts created:{{/}} %d\n", created)
			}
			srv, err := h.Listen()
			if err != nil {
				return err
			}
			utils.Outf("{{green}}serving{{/}} http://%s%s\n", srv.Addr(), rpc.JSONRPCEndpoint)
			return h.Serve(ctx, srv)
		})
	},
}
