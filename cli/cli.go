// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/program"
	"github.com/ava-labs/countervm/runtime"
	"github.com/ava-labs/countervm/storage"

	clogging "github.com/ava-labs/countervm/internal/logging"
	ctrace "github.com/ava-labs/countervm/trace"
)

const (
	logMaxSizeMB = 8
	logMaxFiles  = 4
)

// Handler is the client side of the counter: it owns the local store and
// the runtime that invokes programs against it.
type Handler struct {
	c *config.Config

	logFactory *clogging.Factory
	log        logging.Logger
	tracer     trace.Tracer
	db         *pebble.Database
	registry   *program.Registry
	rt         *runtime.Runtime
}

func newLogConfig(c *config.Config) logging.Config {
	logConfig := logging.Config{
		LogLevel:                c.LogLevel,
		DisplayLevel:            c.DisplayLevel,
		LogFormat:               logging.Colors,
		DisableWriterDisplaying: c.Quiet,
	}
	logConfig.Directory = c.LogDir
	logConfig.MaxSize = logMaxSizeMB
	logConfig.MaxFiles = logMaxFiles
	return logConfig
}

func New(c *config.Config, registerer prometheus.Registerer) (*Handler, error) {
	h := &Handler{c: c}
	h.logFactory = clogging.NewFactory(newLogConfig(c))
	log, err := h.logFactory.Make(consts.Name)
	if err != nil {
		h.logFactory.Close()
		return nil, err
	}
	h.log = log

	h.tracer, err = ctrace.New(&c.TraceConfig)
	if err != nil {
		h.logFactory.Close()
		return nil, err
	}
	h.db, err = storage.New(c.Pebble, c.DatabaseDir, registerer)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	h.registry = program.NewRegistry()
	if err := counter.Register(h.registry); err != nil {
		_ = h.Close()
		return nil, err
	}
	h.rt, err = runtime.New(h.log, h.tracer, h.registry, h.db, c.Runtime, registerer)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	h.log.Info("opened store", zap.String("dir", c.DatabaseDir))
	return h, nil
}

func (h *Handler) Runtime() *runtime.Runtime {
	return h.rt
}

func (h *Handler) Close() error {
	errs := wrappers.Errs{}
	if h.db != nil {
		errs.Add(h.db.Close())
	}
	if h.tracer != nil {
		errs.Add(h.tracer.Close())
	}
	h.logFactory.Close()
	return errs.Err
}
