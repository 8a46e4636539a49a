// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/server"
)

// Listen binds the API listener and registers the JSON-RPC service on a
// new server. The caller runs it with [Serve].
func (h *Handler) Listen() (server.Server, error) {
	listener, err := net.Listen("tcp", h.c.HTTPAddress)
	if err != nil {
		return nil, err
	}
	handler, err := rpc.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(h.log, h.tracer, h.rt))
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	srv := server.New(h.log, listener, h.c.HTTPConfig, h.c.AllowedOrigins)
	srv.AddRoute(handler, rpc.JSONRPCEndpoint)
	return srv, nil
}

// Serve runs [srv] until [ctx] is done.
func (h *Handler) Serve(ctx context.Context, srv server.Server) error {
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Dispatch()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	h.log.Info("shutting down API", zap.Stringer("addr", srv.Addr()))
	if err := srv.Shutdown(); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
