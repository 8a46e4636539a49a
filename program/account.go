// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const exclusive = -1

// AccountInfo is the handle a program receives for one account of an
// invocation. The data buffer is owned by the host; programs reach it only
// through scoped borrows that must be released before returning.
//
// AccountInfo is not safe for concurrent use.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	IsSigner   bool
	IsWritable bool

	data    []byte
	borrows int
}

func NewAccountInfo(
	key solana.PublicKey,
	owner solana.PublicKey,
	isSigner bool,
	isWritable bool,
	data []byte,
) *AccountInfo {
	return &AccountInfo{
		Key:        key,
		Owner:      owner,
		IsSigner:   isSigner,
		IsWritable: isWritable,
		data:       data,
	}
}

// DataLen returns the length of the data buffer without borrowing it.
func (a *AccountInfo) DataLen() int {
	return len(a.data)
}

// TryBorrowData returns a shared view of the data buffer. The caller must
// not write through it. [release] may be called more than once.
func (a *AccountInfo) TryBorrowData() ([]byte, func(), error) {
	if a.borrows == exclusive {
		return nil, nil, fmt.Errorf("%w: %s", ErrAccountBorrowFailed, a.Key)
	}
	a.borrows++
	return a.data, a.releaser(false), nil
}

// TryBorrowMutData returns an exclusive, writable view of the data buffer.
// It fails while any other borrow is outstanding.
func (a *AccountInfo) TryBorrowMutData() ([]byte, func(), error) {
	if a.borrows != 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrAccountBorrowFailed, a.Key)
	}
	a.borrows = exclusive
	return a.data, a.releaser(true), nil
}

func (a *AccountInfo) releaser(mut bool) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		if mut {
			a.borrows = 0
			return
		}
		a.borrows--
	}
}

// Borrowed reports whether any borrow is still outstanding.
func (a *AccountInfo) Borrowed() bool {
	return a.borrows != 0
}

// DataCopy returns a copy of the data buffer. The host uses it to read the
// result of an invocation once the program has returned.
func (a *AccountInfo) DataCopy() []byte {
	out := make([]byte, len(a.data))
	copy(out, a.data)
	return out
}

// AccountIter walks the accounts of an invocation in order.
type AccountIter struct {
	accounts []*AccountInfo
	next     int
}

func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account or [ErrMissingAccount] once exhausted.
func (i *AccountIter) Next() (*AccountInfo, error) {
	if i.next >= len(i.accounts) {
		return nil, ErrMissingAccount
	}
	a := i.accounts[i.next]
	i.next++
	return a, nil
}
