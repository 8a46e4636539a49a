// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "fmt"

type Config struct {
	// Upper bound on account references in one instruction.
	MaxAccounts int `json:"maxAccounts"`
	// Newest log lines kept per invocation; older ones are dropped.
	MaxLogLines int `json:"maxLogLines"`
}

func NewDefaultConfig() Config {
	return Config{
		MaxAccounts: 64,
		MaxLogLines: 128,
	}
}

// Verify rejects limits under which no invocation could succeed.
func (c Config) Verify() error {
	if c.MaxAccounts < 1 {
		return fmt.Errorf("%w: maxAccounts %d", ErrInvalidConfig, c.MaxAccounts)
	}
	if c.MaxLogLines < 1 {
		return fmt.Errorf("%w: maxLogLines %d", ErrInvalidConfig, c.MaxLogLines)
	}
	return nil
}
