// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import "errors"

var (
	ErrDataExceedsSpace = errors.New("allocation data exceeds space")
	ErrSpaceTooLarge    = errors.New("allocation space too large")
	ErrDuplicateAddress = errors.New("duplicate allocation address")
)
