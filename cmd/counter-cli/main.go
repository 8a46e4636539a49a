// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "counter-cli" invokes the counter program against a local store.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/ava-labs/countervm/cmd/counter-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.Red("counter-cli failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
