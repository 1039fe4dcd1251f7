package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestResult(t *testing.T) {
	if Result(nil) != "ok" || Result(errors.New("x")) != "error" {
		t.Fatal("unexpected result labels")
	}
}

func withdrawalsOK(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "wallet_withdrawals_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == "ok" {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCountersAreRegistered(t *testing.T) {
	before := withdrawalsOK(t)
	Withdrawals.WithLabelValues("ok").Inc()
	if got := withdrawalsOK(t); got != before+1 {
		t.Fatalf("expected counter to grow from %v, got %v", before, got)
	}

	LiveConnections.Inc()
	defer LiveConnections.Dec()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "wallet_live_connections" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected live connection gauge to be registered")
	}
}
