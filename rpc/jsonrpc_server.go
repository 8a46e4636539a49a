// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/runtime"
)

type JSONRPCServer struct {
	log     logging.Logger
	tracer  trace.Tracer
	backend Backend
}

func NewJSONRPCServer(log logging.Logger, tracer trace.Tracer, backend Backend) *JSONRPCServer {
	return &JSONRPCServer{log: log, tracer: tracer, backend: backend}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type AccountMeta struct {
	PublicKey  solana.PublicKey `json:"pubkey"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

type InvokeArgs struct {
	ProgramID solana.PublicKey `json:"programID"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      []byte           `json:"data"`
}

// InvokeReply carries the result even when the invocation was rejected so
// callers still see the collected logs. Error is empty on success.
type InvokeReply struct {
	Result *runtime.Result `json:"result"`
	Error  string          `json:"error,omitempty"`
}

func (j *JSONRPCServer) Invoke(req *http.Request, args *InvokeArgs, reply *InvokeReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Invoke")
	defer span.End()

	metas := make(solana.AccountMetaSlice, len(args.Accounts))
	for i, m := range args.Accounts {
		metas[i] = solana.NewAccountMeta(m.PublicKey, m.IsWritable, m.IsSigner)
	}
	res, err := j.backend.Invoke(ctx, solana.NewInstruction(args.ProgramID, metas, args.Data))
	reply.Result = res
	if err != nil {
		j.log.Debug("invoke failed",
			zap.Stringer("programID", args.ProgramID),
			zap.Error(err),
		)
		reply.Error = err.Error()
	}
	return nil
}

type AccountArgs struct {
	Address solana.PublicKey `json:"address"`
}

type AccountReply struct {
	Exists bool             `json:"exists"`
	Owner  solana.PublicKey `json:"owner"`
	Data   []byte           `json:"data"`
}

func (j *JSONRPCServer) Account(req *http.Request, args *AccountArgs, reply *AccountReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Account")
	defer span.End()

	a, exists, err := j.backend.GetAccount(ctx, args.Address)
	if err != nil {
		return err
	}
	reply.Exists = exists
	if exists {
		reply.Owner = a.Owner
		reply.Data = a.Data
	}
	return nil
}
