/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package nommetrics defines the Prometheus collectors for a nomd
// instance: package-level promauto collectors plus small wrapper
// methods. No HTTP exporter is wired here: a caller that wants a
// /metrics endpoint hands prometheus.DefaultRegisterer's content to its
// own promhttp.Handler, which is outside this package's job.
package nommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	packetsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nom_packets_sent_total",
			Help: "UDP packets sent, by command.",
		},
		[]string{"cmd"},
	)

	packetsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nom_packets_received_total",
			Help: "UDP packets received, by command.",
		},
		[]string{"cmd"},
	)

	outstandingTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nom_outstanding_transactions",
			Help: "Number of xid-correlated requests awaiting a reply.",
		},
	)

	pullLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nom_pull_latency_seconds",
			Help:    "Latency of servicing an inbound PULL request, in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Metrics implements nom.Metrics against the collectors above. It holds
// no state of its own; every method call is a direct passthrough to a
// package-level collector so a process normally has exactly one.
type Metrics struct{}

// New returns a Metrics. Safe to construct more than once -- the
// underlying collectors are package-level and registered only once via
// promauto's init-time Register calls.
func New() Metrics { return Metrics{} }

func (Metrics) PacketSent(cmd string)     { packetsSent.WithLabelValues(cmd).Inc() }
func (Metrics) PacketReceived(cmd string) { packetsReceived.WithLabelValues(cmd).Inc() }
func (Metrics) SetOutstanding(n int)      { outstandingTransactions.Set(float64(n)) }
func (Metrics) ObservePullLatency(d time.Duration) {
	pullLatency.Observe(d.Seconds())
}
