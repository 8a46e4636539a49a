// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package counter implements the counter program: every invocation bumps a
// uint32 stored in an account owned by the program.
package counter

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/program"
)

const (
	Name = "counter"

	// Size is the exact length of an encoded [CounterAccount].
	Size = consts.Uint32Len
)

// ProgramID is the fixed identity the counter program is deployed under.
var ProgramID = solana.MustPublicKeyFromBase58("GF49wrTSUbsR1SE1fb36u6SVRA1VQ8Akm3VXXiKYLnt1")

// CounterAccount is stored in the account.
type CounterAccount struct {
	Counter uint32
}

// Decode reads a [CounterAccount] from the full contents of [data].
func Decode(data []byte) (*CounterAccount, error) {
	if len(data) != Size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", program.ErrDecode, Size, len(data))
	}
	c := &CounterAccount{}
	if err := borsh.Deserialize(c, data); err != nil {
		return nil, fmt.Errorf("%w: %w", program.ErrDecode, err)
	}
	return c, nil
}

// Encode writes [c] into the start of [dst]. Nothing is written unless the
// whole record fits.
func (c *CounterAccount) Encode(dst []byte) error {
	b, err := borsh.Serialize(*c)
	if err != nil {
		return fmt.Errorf("%w: %w", program.ErrEncode, err)
	}
	if len(dst) < len(b) {
		return fmt.Errorf("%w: need %d bytes, have %d", program.ErrEncode, len(b), len(dst))
	}
	copy(dst, b)
	return nil
}

// Process is the program entrypoint. [instructionData] is ignored.
func Process(
	log program.Logger,
	programID solana.PublicKey,
	accounts []*program.AccountInfo,
	_ []byte,
) error {
	account, err := program.NewAccountIter(accounts).Next()
	if err != nil {
		return err
	}

	if !account.Owner.Equals(programID) {
		log.Msgf("Greeted account does not have the correct program id")
		return program.ErrIncorrectOwner
	}

	data, release, err := account.TryBorrowMutData()
	if err != nil {
		return err
	}
	defer release()

	counterAccount, err := Decode(data)
	if err != nil {
		return err
	}
	counterAccount.Counter++
	if err := counterAccount.Encode(data); err != nil {
		return err
	}

	log.Msgf("Counter state: %d", counterAccount.Counter)
	return nil
}

// Register binds [Process] to [ProgramID].
func Register(r *program.Registry) error {
	return r.Register(ProgramID, Name, Process)
}
