// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import "errors"

var (
	ErrProgramNotDeployed = errors.New("counter program is not deployed")
	ErrInvalidKeypair     = errors.New("invalid keypair")
	ErrInvalidTimes       = errors.New("times must be at least 1")
)
