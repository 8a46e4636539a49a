// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Factory builds loggers that write coloured output to the console and
// plain output to a rotated file per logger under the configured directory.
// Setting [logging.Config.DisableWriterDisplaying] keeps the console silent
// so command output is not interleaved with log lines; the file still gets
// everything at [logging.Config.LogLevel].
type Factory struct {
	config  logging.Config
	console io.WriteCloser
	lock    sync.Mutex

	// logger name --> the logger.
	loggers map[string]logging.Logger
}

func NewFactory(config logging.Config) *Factory {
	return &Factory{
		config:  config,
		console: os.Stderr,
		loggers: make(map[string]logging.Logger),
	}
}

// Assumes [f.lock] is held
func (f *Factory) makeLogger(config logging.Config) (logging.Logger, error) {
	if _, ok := f.loggers[config.LoggerName]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", config.LoggerName)
	}
	consoleEnc := config.LogFormat.ConsoleEncoder()
	fileEnc := config.LogFormat.FileEncoder()

	consoleWriter := f.console
	if config.DisableWriterDisplaying {
		consoleWriter = nopWriteCloser{io.Discard}
	}
	consoleCore := logging.NewWrappedCore(config.DisplayLevel, consoleWriter, consoleEnc)
	consoleCore.WriterDisabled = config.DisableWriterDisplaying

	rw := &lumberjack.Logger{
		Filename:   filepath.Join(config.Directory, config.LoggerName+".log"),
		MaxSize:    config.MaxSize,  // megabytes
		MaxAge:     config.MaxAge,   // days
		MaxBackups: config.MaxFiles, // files
		Compress:   config.Compress,
	}
	fileCore := logging.NewWrappedCore(config.LogLevel, rw, fileEnc)
	prefix := config.LogFormat.WrapPrefix(config.MsgPrefix)

	l := logging.NewLogger(prefix, consoleCore, fileCore)
	f.loggers[config.LoggerName] = l
	return l, nil
}

func (f *Factory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	config := f.config
	config.LoggerName = name
	return f.makeLogger(config)
}

func (f *Factory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}

type nopWriteCloser struct {
	io.Writer
}

// Close implements the io.Closer interface.
func (nopWriteCloser) Close() error {
	return nil
}
