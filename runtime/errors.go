// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid runtime config")
	ErrTooManyAccounts   = errors.New("too many accounts")
	ErrOwnerModified     = errors.New("instruction modified the owner of an account")
	ErrBorrowOutstanding = errors.New("program returned with account data still borrowed")
)
