// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/diem/client-sdk-go/utils/metric"
	"github.com/diem/client-sdk-go/utils/wrappers"
)

type metrics struct {
	requests        *prometheus.CounterVec
	requestErrors   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	staleResponses  prometheus.Counter
	retries         prometheus.Counter
	submittedTxs    prometheus.Counter
	waitOutcomes    *prometheus.CounterVec
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests",
				Help:      "Number of JSON-RPC requests sent",
			},
			[]string{"method"},
		),
		requestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "request_errors",
				Help:      "Number of JSON-RPC requests that failed",
			},
			[]string{"method", "kind"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration",
				Help:      "Time spent on a JSON-RPC request (in ns)",
				Buckets:   metric.RequestDurationBuckets,
			},
			[]string{"method"},
		),
		staleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses",
			Help:      "Number of responses served behind the tracked ledger state",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries",
			Help:      "Number of read requests retried",
		}),
		submittedTxs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submitted_txs",
			Help:      "Number of transactions submitted",
		}),
		waitOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wait_outcomes",
				Help:      "Number of transaction waits by outcome",
			},
			[]string{"outcome"},
		),
	}
	if registerer == nil {
		return m, nil
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.requests),
		registerer.Register(m.requestErrors),
		registerer.Register(m.requestDuration),
		registerer.Register(m.staleResponses),
		registerer.Register(m.retries),
		registerer.Register(m.submittedTxs),
		registerer.Register(m.waitOutcomes),
	)
	return m, errs.Err
}

func (m *metrics) observeRequest(method string, start time.Time, err error) {
	m.requests.WithLabelValues(method).Inc()
	m.requestDuration.WithLabelValues(method).Observe(float64(time.Since(start)))
	if err != nil {
		m.requestErrors.WithLabelValues(method, KindOf(err).String()).Inc()
	}
}

// observeWait records the outcome of a wait. A nil [err] is a confirmation.
func (m *metrics) observeWait(err error) {
	outcome := "confirmed"
	if err != nil {
		outcome = KindOf(err).String()
	}
	m.waitOutcomes.WithLabelValues(outcome).Inc()
}
