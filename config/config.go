// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/runtime"
	"github.com/ava-labs/countervm/server"
	"github.com/ava-labs/countervm/trace"
)

const (
	defaultLogDir      = ".countervm/logs"
	defaultDatabaseDir = ".countervm/db"
	defaultKeypairPath = ".countervm/id.json"
	defaultGenesisFile = ".countervm/genesis.json"
	defaultHTTPAddress = "127.0.0.1:9650"
)

var ErrInvalidKey = errors.New("config keys must be strings")

type Config struct {
	// Logging
	LogLevel     logging.Level `json:"logLevel"`
	DisplayLevel logging.Level `json:"displayLevel"`
	LogDir       string        `json:"logDir"`
	// Quiet mutes console logging; the log file is still written.
	Quiet bool `json:"quiet"`

	// Storage
	DatabaseDir string        `json:"databaseDir"`
	Pebble      pebble.Config `json:"pebble"`

	// Payer and initial state
	KeypairPath string `json:"keypairPath"`
	GenesisFile string `json:"genesisFile"`

	Runtime     runtime.Config `json:"runtime"`
	TraceConfig trace.Config   `json:"traceConfig"`

	// API
	HTTPAddress    string            `json:"httpAddress"`
	HTTPConfig     server.HTTPConfig `json:"httpConfig"`
	AllowedOrigins []string          `json:"allowedOrigins"`

	// Node URI used by the CLI. Empty means the local store is used directly.
	Endpoint string `json:"endpoint"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Runtime.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the config at [path]. Files ending in .yaml or .yml are
// accepted alongside JSON. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		b, err = yamlToJSON(b)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return New(b)
}

func yamlToJSON(b []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	v, err := stringKeys(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// stringKeys rewrites the map[interface{}]interface{} values yaml.v2
// produces into maps encoding/json accepts.
func stringKeys(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrInvalidKey, k)
			}
			n, err := stringKeys(val)
			if err != nil {
				return nil, err
			}
			m[ks] = n
		}
		return m, nil
	case []interface{}:
		for i, val := range t {
			n, err := stringKeys(val)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.DisplayLevel = logging.Warn
	c.LogDir = defaultLogDir
	c.DatabaseDir = defaultDatabaseDir
	c.Pebble = pebble.NewDefaultConfig()
	c.KeypairPath = defaultKeypairPath
	c.GenesisFile = defaultGenesisFile
	c.Runtime = runtime.NewDefaultConfig()
	c.TraceConfig = trace.Config{
		Enabled:         false,
		TraceSampleRate: 1,
		AppName:         consts.Name,
		Agent:           consts.Name,
		Version:         consts.Version,
	}
	c.HTTPAddress = defaultHTTPAddress
	c.HTTPConfig = server.NewDefaultHTTPConfig()
	c.AllowedOrigins = []string{"*"}
}
