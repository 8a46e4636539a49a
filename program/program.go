// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Logger is the host's diagnostic facility. Lines written here are visible
// to anyone inspecting the invocation but are not part of its result.
type Logger interface {
	Msgf(format string, args ...interface{})
}

// Entrypoint is the single function a program exposes to the host.
type Entrypoint func(
	log Logger,
	programID solana.PublicKey,
	accounts []*AccountInfo,
	instructionData []byte,
) error

type registration struct {
	name       string
	entrypoint Entrypoint
}

// Registry binds program ids to entrypoints. Programs are registered once at
// process start and looked up on every invocation.
type Registry struct {
	l        sync.RWMutex
	programs map[solana.PublicKey]registration
}

func NewRegistry() *Registry {
	return &Registry{programs: make(map[solana.PublicKey]registration)}
}

func (r *Registry) Register(id solana.PublicKey, name string, ep Entrypoint) error {
	r.l.Lock()
	defer r.l.Unlock()

	if existing, ok := r.programs[id]; ok {
		return fmt.Errorf("%w: %s is bound to %q", ErrDuplicateProgram, id, existing.name)
	}
	r.programs[id] = registration{name: name, entrypoint: ep}
	return nil
}

func (r *Registry) Get(id solana.PublicKey) (Entrypoint, bool) {
	r.l.RLock()
	defer r.l.RUnlock()

	reg, ok := r.programs[id]
	return reg.entrypoint, ok
}

func (r *Registry) Name(id solana.PublicKey) (string, bool) {
	r.l.RLock()
	defer r.l.RUnlock()

	reg, ok := r.programs[id]
	return reg.name, ok
}
