// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime is the host side of the invocation boundary. It owns
// account storage and hands programs scoped views of account buffers.
package runtime

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/lockmap"
	"github.com/ava-labs/countervm/program"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Result describes one invocation as observed by the caller.
type Result struct {
	ProgramID solana.PublicKey `json:"programID"`
	// Log lines emitted during the invocation, oldest first.
	Logs          []string `json:"logs"`
	LogsTruncated bool     `json:"logsTruncated"`
	// Code is [program.CodeSuccess] when the invocation committed.
	Code            program.ErrorCode `json:"code"`
	AccountsWritten int               `json:"accountsWritten"`
}

type Runtime struct {
	log      logging.Logger
	tracer   trace.Tracer
	registry *program.Registry
	db       state.Mutable
	cfg      Config

	locks   *lockmap.Lockmap
	metrics *metrics
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	registry *program.Registry,
	db state.Mutable,
	cfg Config,
	registerer prometheus.Registerer,
) (*Runtime, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		log:      log,
		tracer:   tracer,
		registry: registry,
		db:       db,
		cfg:      cfg,
		locks:    lockmap.New(cfg.MaxAccounts),
		metrics:  m,
	}, nil
}

// loadedAccount tracks an account handed to the program together with what
// was read from storage.
type loadedAccount struct {
	info  *program.AccountInfo
	owner solana.PublicKey
	data  []byte
}

// Invoke runs [ix] against current state. Every mutation is discarded when
// the program or a post-invocation check fails; the returned error is the
// reason and the [Result] carries its code and the collected logs.
func (r *Runtime) Invoke(ctx context.Context, ix solana.Instruction) (*Result, error) {
	start := time.Now()
	programID := ix.ProgramID()
	ctx, span := r.tracer.Start(ctx, "Runtime.Invoke", oteltrace.WithAttributes(
		attribute.String("programID", programID.String()),
		attribute.Int("accounts", len(ix.Accounts())),
	))
	defer span.End()
	defer func() {
		r.metrics.invokeDuration.Observe(time.Since(start).Seconds())
	}()
	r.metrics.invocations.Inc()

	res := &Result{ProgramID: programID}
	ep, ok := r.registry.Get(programID)
	if !ok {
		return r.reject(res, fmt.Errorf("%w: %s", program.ErrProgramNotFound, programID))
	}
	metas := ix.Accounts()
	if len(metas) > r.cfg.MaxAccounts {
		return r.reject(res, fmt.Errorf("%w: %d > %d", ErrTooManyAccounts, len(metas), r.cfg.MaxAccounts))
	}
	data, err := ix.Data()
	if err != nil {
		return r.reject(res, err)
	}
	if err := ctx.Err(); err != nil {
		return r.reject(res, err)
	}

	unlock := r.lock(metas)
	defer unlock()

	cs := state.NewChangeSet(r.db)
	accounts, loaded, err := r.load(ctx, cs, metas)
	if err != nil {
		return r.reject(res, err)
	}

	logs, err := newLogCollector(r.log, programID, r.cfg.MaxLogLines)
	if err != nil {
		return r.reject(res, err)
	}
	logs.add(fmt.Sprintf("Program %s invoke", programID))
	err = call(ep, logs, programID, accounts, data)
	if err == nil {
		err = verify(programID, loaded)
	}
	if err != nil {
		logs.add(fmt.Sprintf("Program %s failed: %s", programID, err))
		res.Logs, res.LogsTruncated = logs.lines.Items(), logs.truncated
		return r.reject(res, err)
	}

	if err := persist(ctx, cs, loaded); err != nil {
		return r.reject(res, err)
	}
	written := cs.Len()
	if err := cs.Commit(ctx); err != nil {
		return r.reject(res, err)
	}
	logs.add(fmt.Sprintf("Program %s success", programID))

	r.metrics.accountsWritten.Add(float64(written))
	res.AccountsWritten = written
	res.Logs, res.LogsTruncated = logs.lines.Items(), logs.truncated
	res.Code = program.CodeSuccess
	return res, nil
}

func (r *Runtime) reject(res *Result, err error) (*Result, error) {
	res.Code = program.Code(err)
	r.metrics.failures.WithLabelValues(res.Code.String()).Inc()
	r.log.Debug("invocation rejected",
		zap.Stringer("programID", res.ProgramID),
		zap.Stringer("code", res.Code),
		zap.Error(err),
	)
	return res, err
}

// lock acquires every distinct account of [metas] in address order:
// exclusively if any reference is writable, shared otherwise.
func (r *Runtime) lock(metas []*solana.AccountMeta) func() {
	writable := make(map[solana.PublicKey]bool, len(metas))
	for _, m := range metas {
		writable[m.PublicKey] = writable[m.PublicKey] || m.IsWritable
	}
	keys := make([]solana.PublicKey, 0, len(writable))
	for k := range writable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	for _, k := range keys {
		if writable[k] {
			r.locks.Lock(string(k[:]))
		} else {
			r.locks.RLock(string(k[:]))
		}
	}
	return func() {
		for i := len(keys) - 1; i >= 0; i-- {
			k := keys[i]
			if writable[k] {
				r.locks.Unlock(string(k[:]))
			} else {
				r.locks.RUnlock(string(k[:]))
			}
		}
	}
}

// load builds the account list handed to the program. Repeated addresses
// share one [program.AccountInfo].
func (*Runtime) load(
	ctx context.Context,
	im state.Immutable,
	metas []*solana.AccountMeta,
) ([]*program.AccountInfo, []*loadedAccount, error) {
	var (
		accounts = make([]*program.AccountInfo, len(metas))
		loaded   = make([]*loadedAccount, 0, len(metas))
		byKey    = make(map[solana.PublicKey]*loadedAccount, len(metas))
	)
	for i, m := range metas {
		if l, ok := byKey[m.PublicKey]; ok {
			l.info.IsSigner = l.info.IsSigner || m.IsSigner
			l.info.IsWritable = l.info.IsWritable || m.IsWritable
			accounts[i] = l.info
			continue
		}

		l := &loadedAccount{owner: solana.SystemProgramID}
		stored, exists, err := storage.GetAccount(ctx, im, m.PublicKey)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			l.owner = stored.Owner
			l.data = stored.Data
		}
		buf := make([]byte, len(l.data))
		copy(buf, l.data)
		l.info = program.NewAccountInfo(m.PublicKey, l.owner, m.IsSigner, m.IsWritable, buf)

		byKey[m.PublicKey] = l
		loaded = append(loaded, l)
		accounts[i] = l.info
	}
	return accounts, loaded, nil
}

func call(
	ep program.Entrypoint,
	log program.Logger,
	programID solana.PublicKey,
	accounts []*program.AccountInfo,
	data []byte,
) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", program.ErrProgramPanicked, rec)
		}
	}()
	return ep(log, programID, accounts, data)
}

func verify(programID solana.PublicKey, loaded []*loadedAccount) error {
	for _, l := range loaded {
		if l.info.Borrowed() {
			return fmt.Errorf("%w: %s", ErrBorrowOutstanding, l.info.Key)
		}
		if !l.info.Owner.Equals(l.owner) {
			return fmt.Errorf("%w: %s", ErrOwnerModified, l.info.Key)
		}
		if bytes.Equal(l.data, l.info.DataCopy()) {
			continue
		}
		if !l.info.IsWritable {
			return fmt.Errorf("%w: %s", program.ErrReadonlyDataModified, l.info.Key)
		}
		if !l.owner.Equals(programID) {
			return fmt.Errorf("%w: %s", program.ErrExternalAccountDataModified, l.info.Key)
		}
	}
	return nil
}

// persist writes every modified account into [mu]. [verify] must have
// passed.
func persist(ctx context.Context, mu state.Mutable, loaded []*loadedAccount) error {
	for _, l := range loaded {
		data := l.info.DataCopy()
		if bytes.Equal(l.data, data) {
			continue
		}
		if err := storage.SetAccount(ctx, mu, l.info.Key, &storage.Account{
			Owner: l.owner,
			Data:  data,
		}); err != nil {
			return err
		}
	}
	return nil
}

// GetAccount returns the committed account at [address].
func (r *Runtime) GetAccount(ctx context.Context, address solana.PublicKey) (*storage.Account, bool, error) {
	key := string(address[:])
	r.locks.RLock(key)
	defer r.locks.RUnlock(key)

	return storage.GetAccount(ctx, r.db, address)
}
