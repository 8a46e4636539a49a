// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateYesNo(t *testing.T) {
	require := require.New(t)

	require.NoError(validateYesNo("y"))
	require.NoError(validateYesNo("N"))
	require.NoError(validateYesNo(" n "))
	require.ErrorIs(validateYesNo(""), ErrInputEmpty)
	require.ErrorIs(validateYesNo("yes"), ErrInvalidChoice)
}
