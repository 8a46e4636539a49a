// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "runtime"

type metrics struct {
	invocations     prometheus.Counter
	failures        *prometheus.CounterVec
	accountsWritten prometheus.Counter
	invokeDuration  prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations",
			Help:      "number of program invocations",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures",
			Help:      "number of rejected invocations by error code",
		}, []string{"code"}),
		accountsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_written",
			Help:      "number of accounts persisted by successful invocations",
		}),
		invokeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoke_duration_seconds",
			Help:      "time spent in an invocation, including locking and storage",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.invocations),
		r.Register(m.failures),
		r.Register(m.accountsWritten),
		r.Register(m.invokeDuration),
	)
	return m, errs.Err
}
