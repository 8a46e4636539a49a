// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name    = "countervm"
	Version = "v0.0.1"

	PublicKeyLen = 32
	Uint32Len    = 4
	Uint64Len    = 8
	MaxUint32    = ^uint32(0)
)
