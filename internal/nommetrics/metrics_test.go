/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetOutstanding(t *testing.T) {
	m := New()
	m.SetOutstanding(3)
	if got := testutil.ToFloat64(outstandingTransactions); got != 3 {
		t.Fatalf("expected gauge 3, got %v", got)
	}
}

func TestPacketCounters(t *testing.T) {
	m := New()
	m.PacketSent("PULL")
	m.PacketReceived("PULL")
	if got := testutil.ToFloat64(packetsSent.WithLabelValues("PULL")); got < 1 {
		t.Fatalf("expected at least 1 sent PULL packet, got %v", got)
	}
	if got := testutil.ToFloat64(packetsReceived.WithLabelValues("PULL")); got < 1 {
		t.Fatalf("expected at least 1 received PULL packet, got %v", got)
	}
}

func TestObservePullLatency(t *testing.T) {
	m := New()
	m.ObservePullLatency(10 * time.Millisecond)
}
