// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/utils"
)

const stateNamespace = "statedb"

// New opens the on-disk account state under [dataDir].
func New(cfg pebble.Config, dataDir string, registerer prometheus.Registerer) (*pebble.Database, error) {
	path, err := utils.InitSubDirectory(dataDir, stateNamespace)
	if err != nil {
		return nil, err
	}
	return pebble.New(path, cfg, registerer)
}
