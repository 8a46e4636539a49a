// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/program"
	"github.com/ava-labs/countervm/utils"
)

var _ program.Logger = (*logCollector)(nil)

// logCollector gathers the log lines of one invocation and mirrors them to
// the node logger.
type logCollector struct {
	log       logging.Logger
	programID solana.PublicKey
	lines     utils.BoundedBuffer[string]
	truncated bool
}

func newLogCollector(log logging.Logger, programID solana.PublicKey, maxLines int) (*logCollector, error) {
	c := &logCollector{log: log, programID: programID}
	lines, err := utils.NewBoundedBuffer(maxLines, func(string) { c.truncated = true })
	if err != nil {
		return nil, err
	}
	c.lines = lines
	return c, nil
}

func (c *logCollector) add(line string) {
	c.lines.Insert(line)
	c.log.Debug("program output",
		zap.Stringer("programID", c.programID),
		zap.String("line", line),
	)
}

// Msgf implements [program.Logger].
func (c *logCollector) Msgf(format string, args ...interface{}) {
	c.add("Program log: " + fmt.Sprintf(format, args...))
}
