// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
)

var contentTypes = []string{
	"application/json",
	"application/json;charset=UTF-8",
}

// NewJSONRPCHandler exposes the exported methods of [service] as
// "[name].method". The avalanchego codec lowercases the first letter of the
// method, so "countervm.invoke" reaches Invoke.
func NewJSONRPCHandler(name string, service interface{}) (http.Handler, error) {
	server := rpc.NewServer()
	codec := json.NewCodec()
	for _, contentType := range contentTypes {
		server.RegisterCodec(codec, contentType)
	}
	if err := server.RegisterService(service, name); err != nil {
		return nil, fmt.Errorf("failed to register %s service: %w", name, err)
	}
	return server, nil
}
