// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/countervm/requester"
	"github.com/ava-labs/countervm/runtime"
	"github.com/ava-labs/countervm/storage"
)

var _ Backend = (*JSONRPCClient)(nil)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	req := requester.New(uri, Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		struct{}{},
		resp,
	)
	return resp.Success, err
}

// Invoke submits [ix] to the node. A rejected invocation returns both the
// result and an error matching the sentinel of its code.
func (cli *JSONRPCClient) Invoke(ctx context.Context, ix solana.Instruction) (*runtime.Result, error) {
	data, err := ix.Data()
	if err != nil {
		return nil, err
	}
	metas := ix.Accounts()
	args := &InvokeArgs{
		ProgramID: ix.ProgramID(),
		Accounts:  make([]AccountMeta, len(metas)),
		Data:      data,
	}
	for i, m := range metas {
		args.Accounts[i] = AccountMeta{
			PublicKey:  m.PublicKey,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		}
	}

	resp := new(InvokeReply)
	if err := cli.requester.SendRequest(ctx, "invoke", args, resp); err != nil {
		return nil, err
	}
	if resp.Error == "" {
		return resp.Result, nil
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvocationFailed, resp.Error)
	}
	if sentinel := resp.Result.Code.Err(); sentinel != nil {
		return resp.Result, fmt.Errorf("%w: %s", sentinel, resp.Error)
	}
	return resp.Result, fmt.Errorf("%w: %s", ErrInvocationFailed, resp.Error)
}

func (cli *JSONRPCClient) GetAccount(ctx context.Context, address solana.PublicKey) (*storage.Account, bool, error) {
	resp := new(AccountReply)
	err := cli.requester.SendRequest(
		ctx,
		"account",
		&AccountArgs{Address: address},
		resp,
	)
	if err != nil {
		return nil, false, err
	}
	if !resp.Exists {
		return nil, false, nil
	}
	return &storage.Account{Owner: resp.Owner, Data: resp.Data}, true, nil
}
