// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/gagliardetto/solana-go"
)

// WriteKeypair stores [key] at [path] as a JSON array of bytes, the format
// solana-keygen uses.
func WriteKeypair(path string, key solana.PrivateKey) error {
	if err := key.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
	}
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	b, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), perms.ReadWriteExecute); err != nil {
		return err
	}
	return os.WriteFile(path, b, perms.ReadWrite)
}

// GenerateKey writes a new random keypair to [path].
func GenerateKey(path string) (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return key, WriteKeypair(path, key)
}

// LoadPayer reads the keypair at [path]. When [create] is set and no file
// exists a new keypair is generated there.
func LoadPayer(path string, create bool) (solana.PrivateKey, bool, error) {
	if _, err := os.Stat(path); create && errors.Is(err, os.ErrNotExist) {
		key, err := GenerateKey(path)
		return key, true, err
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, false, err
	}
	if err := key.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
	}
	return key, false, nil
}
