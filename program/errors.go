// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import "errors"

var (
	ErrMissingAccount              = errors.New("not enough account keys")
	ErrIncorrectOwner              = errors.New("incorrect program id for account")
	ErrDecode                      = errors.New("failed to decode account data")
	ErrEncode                      = errors.New("failed to encode account data")
	ErrAccountBorrowFailed         = errors.New("account data already borrowed")
	ErrProgramNotFound             = errors.New("program not found")
	ErrReadonlyDataModified        = errors.New("instruction modified data of a read-only account")
	ErrExternalAccountDataModified = errors.New("instruction modified data of an account it does not own")
	ErrProgramPanicked             = errors.New("program panicked")
	ErrDuplicateProgram            = errors.New("program already registered")
)

// ErrorCode is the tag a rejected invocation carries back to the caller.
type ErrorCode uint32

const (
	CodeSuccess ErrorCode = iota
	CodeMissingAccount
	CodeIncorrectOwner
	CodeDecodeError
	CodeEncodeError
	CodeAccountBorrowFailed
	CodeProgramNotFound
	CodeReadonlyDataModified
	CodeExternalAccountDataModified
	CodeProgramPanicked

	CodeUnknown ErrorCode = 0xffffffff
)

var codes = []struct {
	err  error
	code ErrorCode
	name string
}{
	{ErrMissingAccount, CodeMissingAccount, "MissingAccount"},
	{ErrIncorrectOwner, CodeIncorrectOwner, "IncorrectOwner"},
	{ErrDecode, CodeDecodeError, "DecodeError"},
	{ErrEncode, CodeEncodeError, "EncodeError"},
	{ErrAccountBorrowFailed, CodeAccountBorrowFailed, "AccountBorrowFailed"},
	{ErrProgramNotFound, CodeProgramNotFound, "ProgramNotFound"},
	{ErrReadonlyDataModified, CodeReadonlyDataModified, "ReadonlyDataModified"},
	{ErrExternalAccountDataModified, CodeExternalAccountDataModified, "ExternalAccountDataModified"},
	{ErrProgramPanicked, CodeProgramPanicked, "ProgramPanicked"},
}

// Code maps [err] to its tag. A nil error is [CodeSuccess] and anything
// outside the taxonomy is [CodeUnknown].
func Code(err error) ErrorCode {
	if err == nil {
		return CodeSuccess
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

// Err returns the sentinel error tagged with [c]. It is nil for
// [CodeSuccess] and for codes without a sentinel.
func (c ErrorCode) Err() error {
	for _, e := range codes {
		if e.code == c {
			return e.err
		}
	}
	return nil
}

func (c ErrorCode) String() string {
	switch c {
	case CodeSuccess:
		return "Success"
	case CodeUnknown:
		return "Unknown"
	}
	for _, e := range codes {
		if e.code == c {
			return e.name
		}
	}
	return "Unknown"
}
